// Package i18n translates message codes returned by the API.
package i18n

import (
	"context"
	"strings"
)

const defaultLang = "fr"

var catalog = map[string]map[string]string{
	"fr": {
		"required":              "Requis",
		"must_be_positive":      "Doit être strictement positif",
		"must_not_be_negative":  "Ne doit pas être négatif",
		"invalid_date":          "Date invalide (AAAA-MM-JJ)",
		"unknown_reference":     "Référence introuvable",
		"validation_failed":     "Certains champs sont invalides",
		"not_found":             "Élément introuvable",
		"client_has_projects":   "Impossible de supprimer un client lié à des projets",
		"archive_exists":        "Ce document est déjà archivé",
		"no_pending_document":   "Aucun document généré à archiver",
		"duplicate_id":          "Identifiant déjà utilisé, veuillez réessayer",
		"invalid_credentials":   "Email ou mot de passe invalide",
		"email_taken":           "Email déjà utilisé",
		"unauthorized":          "Authentification requise",
		"unknown_document_type": "Type de document inconnu",
		"internal_error":        "Erreur interne",
		"invalid_body":          "Corps de requête invalide",
		"too_many_decimals":     "Deux décimales au maximum",
		"invalid_choice":        "Valeur non autorisée",
	},
	"en": {
		"required":              "Required",
		"must_be_positive":      "Must be greater than zero",
		"must_not_be_negative":  "Must not be negative",
		"invalid_date":          "Invalid date (YYYY-MM-DD)",
		"unknown_reference":     "Reference not found",
		"validation_failed":     "Some fields are invalid",
		"not_found":             "Not found",
		"client_has_projects":   "Cannot delete a client that still has projects",
		"archive_exists":        "This document is already archived",
		"no_pending_document":   "No generated document to archive",
		"duplicate_id":          "Identifier already taken, please retry",
		"invalid_credentials":   "Invalid email or password",
		"email_taken":           "Email already exists",
		"unauthorized":          "Authentication required",
		"unknown_document_type": "Unknown document type",
		"internal_error":        "Internal error",
		"invalid_body":          "Invalid request body",
		"too_many_decimals":     "At most two decimal places",
		"invalid_choice":        "Value not allowed",
	},
}

// T returns the translation of code, falling back to French and then to
// the code itself.
func T(lang, code string) string {
	if msgs, ok := catalog[lang]; ok {
		if s, ok := msgs[code]; ok {
			return s
		}
	}
	if s, ok := catalog[defaultLang][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := catalog[base]; ok {
			return base
		}
	}
	return defaultLang
}

type langKey struct{}

// WithLang stores the request language in ctx.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext returns the request language, French by default.
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return defaultLang
}

// TranslateAll maps every value of codes through T.
func TranslateAll(lang string, codes map[string]string) map[string]string {
	out := make(map[string]string, len(codes))
	for k, c := range codes {
		out[k] = T(lang, c)
	}
	return out
}
