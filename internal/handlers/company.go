package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

type CompanyHandler struct {
	svc *services.CompanyService
	log zerolog.Logger
}

func NewCompanyHandler(svc *services.CompanyService, log zerolog.Logger) *CompanyHandler {
	return &CompanyHandler{svc: svc, log: log}
}

// Get returns the letterhead, falling back to the configured defaults.
func (h *CompanyHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.svc.Get(r.Context())
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, settings)
}

// Update replaces the letterhead.
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in models.CompanySettings
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	saved, err := h.svc.Save(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info().Str("name", saved.Name).Msg("company settings saved")
	httpx.JSON(w, http.StatusOK, saved)
}
