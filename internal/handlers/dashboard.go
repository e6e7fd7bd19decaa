package handlers

import (
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

type DashboardHandler struct {
	ws    *services.Workspace
	log   zerolog.Logger
	clock func() time.Time
}

func NewDashboardHandler(ws *services.Workspace, log zerolog.Logger, clock func() time.Time) *DashboardHandler {
	if clock == nil {
		clock = time.Now
	}
	return &DashboardHandler{ws: ws, log: log, clock: clock}
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.ws.Dashboard(h.clock()))
}

func (h *DashboardHandler) Search(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, h.ws.Search(r.URL.Query().Get("q")))
}

// Reload refreshes the snapshot from the database.
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.Load(r.Context()); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{
		"clients":      len(h.ws.Clients()),
		"projects":     len(h.ws.Projects()),
		"transactions": len(h.ws.Transactions("")),
		"archives":     len(h.ws.Archives("")),
	})
}
