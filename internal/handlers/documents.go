package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/documents"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

// DocumentHandler generates invoices and receipts and manages their archive.
type DocumentHandler struct {
	ws  *services.Workspace
	log zerolog.Logger
}

func NewDocumentHandler(ws *services.Workspace, log zerolog.Logger) *DocumentHandler {
	return &DocumentHandler{ws: ws, log: log}
}

// archiveType accepts the route names as well as the archive tags.
func archiveType(kind string) (models.ArchiveType, error) {
	switch strings.ToLower(kind) {
	case "invoice", "facture", "f":
		return models.ArchiveInvoice, nil
	case "receipt", "recu", "reçu", "r":
		return models.ArchiveReceipt, nil
	}
	return "", fmt.Errorf("%w: %q", documents.ErrUnknownType, kind)
}

// Generate builds the document for ?project= and keeps it as the user's
// pending document. The HTML is returned directly when asked for.
func (h *DocumentHandler) Generate(w http.ResponseWriter, r *http.Request) {
	t, err := archiveType(r.PathValue("kind"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	draft, err := h.ws.PrepareDocument(r.Context(), t, r.URL.Query().Get("project"), auth.Current(r.Context()))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if httpx.WantsHTML(r) {
		httpx.HTML(w, http.StatusOK, draft.Content)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

// Save archives the pending document.
func (h *DocumentHandler) Save(w http.ResponseWriter, r *http.Request) {
	a, err := h.ws.SaveArchive(r.Context(), auth.Current(r.Context()).ID)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	a.HTMLContent = ""
	httpx.JSON(w, http.StatusCreated, a)
}

// List returns archive metadata, filtered by ?type= when given.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	var t models.ArchiveType
	if q := r.URL.Query().Get("type"); q != "" {
		var err error
		if t, err = archiveType(q); err != nil {
			writeError(w, r, h.log, err)
			return
		}
	}
	httpx.JSON(w, http.StatusOK, h.ws.Archives(t))
}

// View serves the archived HTML. Clients asking for JSON get the record.
func (h *DocumentHandler) View(w http.ResponseWriter, r *http.Request) {
	a, err := h.ws.Archive(r.PathValue("id"))
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		httpx.JSON(w, http.StatusOK, a)
		return
	}
	httpx.HTML(w, http.StatusOK, a.HTMLContent)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.DeleteArchive(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
