package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

type ClientHandler struct {
	ws  *services.Workspace
	log zerolog.Logger
}

func NewClientHandler(ws *services.Workspace, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{ws: ws, log: log}
}

func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.ws.Clients())
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ClientInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	c, err := h.ws.CreateClient(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info().Str("client", c.StructuredID).Msg("client created")
	httpx.JSON(w, http.StatusCreated, c)
}

// Delete refuses clients that still own projects.
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.DeleteClient(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
