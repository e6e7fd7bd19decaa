package handlers

import (
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
)

type TransactionHandler struct {
	ws  *services.Workspace
	log zerolog.Logger
}

func NewTransactionHandler(ws *services.Workspace, log zerolog.Logger) *TransactionHandler {
	return &TransactionHandler{ws: ws, log: log}
}

// List returns all transactions, or those of ?project=.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	txs := h.ws.Transactions(r.URL.Query().Get("project"))
	if txs == nil {
		txs = []models.Transaction{}
	}
	httpx.JSON(w, http.StatusOK, txs)
}

func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.TransactionInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	tx, err := h.ws.RecordTransaction(r.Context(), in)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	h.log.Info().Str("transaction", tx.StructuredID).Str("amount", tx.AmountOrZero().String()).Msg("payment recorded")
	httpx.JSON(w, http.StatusCreated, tx)
}

func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.ws.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		writeError(w, r, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
