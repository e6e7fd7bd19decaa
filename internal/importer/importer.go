// Package importer loads an export of the legacy document store (YAML or
// JSON, French field names) into the record store.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Export is the legacy layout: one list per collection.
type Export struct {
	Clients      []legacyClient      `yaml:"clients"`
	Projects     []legacyProject     `yaml:"projets"`
	Transactions []legacyTransaction `yaml:"transactions"`
	Archives     []legacyArchive     `yaml:"archives"`
}

type legacyClient struct {
	ID           string `yaml:"id"`
	StructuredID string `yaml:"structuredId"`
	LastName     string `yaml:"nom"`
	FirstName    string `yaml:"prenom"`
	Phone        string `yaml:"telephone"`
	CreatedAt    string `yaml:"dateCreation"`
}

type legacyProject struct {
	ID           string       `yaml:"id"`
	StructuredID string       `yaml:"structuredId"`
	ClientID     string       `yaml:"clientId"`
	Name         string       `yaml:"nom"`
	Type         string       `yaml:"type"`
	StartDate    string       `yaml:"dateDebut"`
	Cost         lenientMoney `yaml:"cout"`
	Status       string       `yaml:"statut"`
	CreatedAt    string       `yaml:"dateCreation"`
}

type legacyTransaction struct {
	ID           string       `yaml:"id"`
	StructuredID string       `yaml:"structuredId"`
	ProjectID    string       `yaml:"projetId"`
	Amount       lenientMoney `yaml:"montant"`
	Date         string       `yaml:"date"`
	CreatedAt    string       `yaml:"dateCreation"`
}

type legacyArchive struct {
	ID                  string `yaml:"id"`
	ArchiveID           string `yaml:"archiveId"`
	Type                string `yaml:"type"`
	ProjectID           string `yaml:"projetId"`
	ProjectStructuredID string `yaml:"projetStructuredId"`
	HTMLContent         string `yaml:"htmlContent"`
	ArchivedAt          string `yaml:"dateArchivage"`
}

// lenientMoney accepts numbers and numeric strings. Anything else decodes
// to an invalid (null) amount instead of failing the whole file.
type lenientMoney struct {
	decimal.NullDecimal
}

func (m *lenientMoney) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		m.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	raw := strings.ReplaceAll(strings.TrimSpace(n.Value), " ", "")
	raw = strings.ReplaceAll(raw, ",", ".")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		m.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	m.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

// Report counts what an import did.
type Report struct {
	Clients      int `json:"clients"`
	Projects     int `json:"projects"`
	Transactions int `json:"transactions"`
	Archives     int `json:"archives"`
	// Duplicates are records whose id or structured id was already stored.
	Duplicates int `json:"duplicates"`
	// Rejected are records the store refused as invalid.
	Rejected int `json:"rejected"`
	// NullAmounts are transactions stored without a usable amount.
	NullAmounts int `json:"null_amounts"`
}

// Decode parses an export. JSON exports are valid YAML.
func Decode(r io.Reader) (Export, error) {
	var exp Export
	if err := yaml.NewDecoder(r).Decode(&exp); err != nil {
		if errors.Is(err, io.EOF) {
			return exp, nil
		}
		return Export{}, fmt.Errorf("decode export: %w", err)
	}
	return exp, nil
}

// Importer writes decoded exports into a store.
type Importer struct {
	store *store.Store
	log   zerolog.Logger
}

func New(st *store.Store, log zerolog.Logger) *Importer {
	return &Importer{store: st, log: log}
}

// Import inserts every record of exp, keeping legacy ids. Duplicates and
// invalid records are counted and skipped; any other store error stops the
// import.
func (im *Importer) Import(ctx context.Context, exp Export) (Report, error) {
	var rep Report

	for _, c := range exp.Clients {
		rec := models.Client{
			ID:           c.ID,
			StructuredID: c.StructuredID,
			LastName:     c.LastName,
			FirstName:    c.FirstName,
			Phone:        c.Phone,
			CreatedAt:    parseTime(c.CreatedAt),
		}
		ok, err := im.insert(&rep, "client", c.StructuredID, func() error {
			_, err := im.store.Clients.Insert(ctx, &rec)
			return err
		})
		if err != nil {
			return rep, err
		}
		if ok {
			rep.Clients++
		}
	}

	for _, p := range exp.Projects {
		cost := p.Cost.Decimal
		if !p.Cost.Valid {
			im.log.Warn().Str("project", p.StructuredID).Msg("non-numeric cost imported as zero")
			cost = decimal.Zero
		}
		rec := models.Project{
			ID:           p.ID,
			StructuredID: p.StructuredID,
			ClientID:     p.ClientID,
			Name:         p.Name,
			Type:         p.Type,
			StartDate:    p.StartDate,
			Cost:         cost,
			Status:       models.ProjectStatus(p.Status),
			CreatedAt:    parseTime(p.CreatedAt),
		}
		ok, err := im.insert(&rep, "project", p.StructuredID, func() error {
			_, err := im.store.Projects.Insert(ctx, &rec)
			return err
		})
		if err != nil {
			return rep, err
		}
		if ok {
			rep.Projects++
		}
	}

	for _, t := range exp.Transactions {
		rec := models.Transaction{
			ID:           t.ID,
			StructuredID: t.StructuredID,
			ProjectID:    t.ProjectID,
			Amount:       t.Amount.NullDecimal,
			Date:         t.Date,
			CreatedAt:    parseTime(t.CreatedAt),
		}
		ok, err := im.insert(&rep, "transaction", t.StructuredID, func() error {
			_, err := im.store.Transactions.Insert(ctx, &rec)
			return err
		})
		if err != nil {
			return rep, err
		}
		if ok {
			rep.Transactions++
			if !rec.Amount.Valid {
				rep.NullAmounts++
			}
		}
	}

	for _, a := range exp.Archives {
		rec := models.Archive{
			ID:                  a.ID,
			ArchiveID:           a.ArchiveID,
			Type:                models.ArchiveType(strings.ToUpper(a.Type)),
			ProjectID:           a.ProjectID,
			ProjectStructuredID: a.ProjectStructuredID,
			HTMLContent:         a.HTMLContent,
			ArchivedAt:          parseTime(a.ArchivedAt),
		}
		ok, err := im.insert(&rep, "archive", a.ArchiveID, func() error {
			_, err := im.store.Archives.Insert(ctx, &rec)
			return err
		})
		if err != nil {
			return rep, err
		}
		if ok {
			rep.Archives++
		}
	}

	im.log.Info().
		Int("clients", rep.Clients).
		Int("projects", rep.Projects).
		Int("transactions", rep.Transactions).
		Int("archives", rep.Archives).
		Int("duplicates", rep.Duplicates).
		Int("rejected", rep.Rejected).
		Msg("import finished")
	return rep, nil
}

func (im *Importer) insert(rep *Report, kind, sid string, fn func() error) (bool, error) {
	err := fn()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, store.ErrDuplicate):
		rep.Duplicates++
		im.log.Debug().Str("kind", kind).Str("id", sid).Msg("already imported")
		return false, nil
	case errors.Is(err, models.ErrInvalidRecord):
		rep.Rejected++
		im.log.Warn().Err(err).Str("kind", kind).Str("id", sid).Msg("record rejected")
		return false, nil
	}
	return false, err
}

// parseTime reads the timestamps the legacy export may carry. Unparsable
// values yield the zero time, which the store replaces with now.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05", models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
