package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

type ProjectHandler struct {
	ws  *services.Workspace
	log zerolog.Logger
}

func NewProjectHandler(ws *services.Workspace, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{ws: ws, log: log}
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.ws.Projects())
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ProjectInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	p, err := h.ws.CreateProject(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info().Str("project", p.StructuredID).Msg("project created")
	httpx.JSON(w, http.StatusCreated, p)
}

// Delete removes the project and its transactions.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	n, err := h.ws.DeleteProject(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"deleted_transactions": n})
}

func (h *ProjectHandler) Balance(w http.ResponseWriter, r *http.Request) {
	b, err := h.ws.Balance(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}
