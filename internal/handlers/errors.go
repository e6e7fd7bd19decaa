package handlers

import (
	"errors"
	"net/http"

	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/documents"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
	"github.com/rs/zerolog"
)

// writeError maps a service error onto a status code and a translated
// JSON error body.
func writeError(w http.ResponseWriter, r *http.Request, log zerolog.Logger, err error) {
	lang := i18n.LangFromContext(r.Context())

	var verr *validation.Error
	if errors.As(err, &verr) {
		httpx.JSONErrorMessage(w, http.StatusUnprocessableEntity, "validation_failed",
			i18n.T(lang, "validation_failed"), i18n.TranslateAll(lang, verr.Violations))
		return
	}

	status, code := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, services.ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, services.ErrClientHasProjects):
		status, code = http.StatusConflict, "client_has_projects"
	case errors.Is(err, services.ErrArchiveExists):
		status, code = http.StatusConflict, "archive_exists"
	case errors.Is(err, services.ErrNoDraft):
		status, code = http.StatusConflict, "no_pending_document"
	case errors.Is(err, store.ErrDuplicate):
		status, code = http.StatusConflict, "duplicate_id"
	case errors.Is(err, documents.ErrUnknownType):
		status, code = http.StatusBadRequest, "unknown_document_type"
	}
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	httpx.JSONErrorMessage(w, status, code, i18n.T(lang, code), nil)
}

// badBody answers 400 for a body that could not be decoded.
func badBody(w http.ResponseWriter, r *http.Request, err error) {
	lang := i18n.LangFromContext(r.Context())
	httpx.JSONErrorMessage(w, http.StatusBadRequest, "invalid_body", i18n.T(lang, "invalid_body"), err.Error())
}
