// Package view renders the invoice and receipt templates embedded in the
// binary. Output is a self-contained HTML document kept verbatim in
// archives, so templates must not depend on external stylesheets.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"sync"
	"time"

	"github.com/diewo77/go-gestion/internal/amount"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var files embed.FS

var (
	once   sync.Once
	tpl    *template.Template
	tplErr error
)

// Funcs returns the helpers available to document templates.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"fcfa": func(d decimal.Decimal) string { return amount.Format(d) },
		"date": FormatDate,
	}
}

// FormatDate turns a YYYY-MM-DD date into dd/mm/yyyy, or "N/A" when it
// cannot be parsed.
func FormatDate(s string) string {
	d, err := models.ParseDate(s)
	if err != nil {
		return "N/A"
	}
	return d.Format("02/01/2006")
}

// FormatTime renders t as dd/mm/yyyy.
func FormatTime(t time.Time) string {
	return t.Format("02/01/2006")
}

func parse() {
	tpl, tplErr = template.New("documents").Funcs(Funcs()).ParseFS(files, "templates/*.html")
}

// Execute renders the named template (e.g. "invoice.html") into a string.
func Execute(name string, data any) (string, error) {
	once.Do(parse)
	if tplErr != nil {
		return "", fmt.Errorf("parse templates: %w", tplErr)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}
