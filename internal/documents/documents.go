// Package documents assembles invoices and receipts for a project. It only
// reads the records it is given; persisting the result as an archive is the
// caller's job.
package documents

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/amount"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/numbering"
	"github.com/diewo77/go-gestion/view"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	invoiceClosing = "Arrêtée la présente facture à la somme de :"
	receiptClosing = "Arrêté du présent reçu à la somme restante à payer de :"
	missingClient  = "Client N/A"
)

// ErrUnknownType is returned for an archive type other than F or R.
var ErrUnknownType = errors.New("unknown document type")

// Document is the synthesized payload: markup plus the id printed on it.
type Document struct {
	Content string `json:"content"`
	ID      string `json:"id"`
}

// Input carries everything a document is built from.
type Input struct {
	Project models.Project
	// Client is nil when the project's client is no longer in the snapshot.
	Client *models.Client
	// Transactions may hold the whole collection; receipts keep only the
	// project's own.
	Transactions []models.Transaction
	// ArchiveID is the generated id. When empty a TEMP id is printed.
	ArchiveID string
	User      auth.CurrentUser
	Company   models.CompanySettings
}

// Synthesizer renders documents.
type Synthesizer struct {
	log   zerolog.Logger
	clock func() time.Time
}

// New returns a Synthesizer. A nil clock uses time.Now.
func New(log zerolog.Logger, clock func() time.Time) *Synthesizer {
	if clock == nil {
		clock = time.Now
	}
	return &Synthesizer{log: log, clock: clock}
}

// Generate dispatches on the archive type.
func (s *Synthesizer) Generate(t models.ArchiveType, in Input) (Document, error) {
	switch t {
	case models.ArchiveInvoice:
		return s.Invoice(in)
	case models.ArchiveReceipt:
		return s.Receipt(in)
	}
	return Document{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

type letterhead struct {
	Name    string
	Tagline string
	LogoURL string
	Footer  []string
}

type signature struct {
	Title string
	Name  string
}

type invoiceData struct {
	Company    letterhead
	ID         string
	Date       string
	ClientName string
	ClientSID  string
	Project    models.Project
	Line       string
	Cost       decimal.Decimal
	Closing    string
	Words      string
	Signature  signature
}

type receiptRow struct {
	Date         string
	StructuredID string
	Amount       decimal.Decimal
}

type receiptData struct {
	Company    letterhead
	ID         string
	Date       string
	ClientName string
	ClientSID  string
	Project    models.Project
	Rows       []receiptRow
	Paid       decimal.Decimal
	Balance    decimal.Decimal
	Cost       decimal.Decimal
	Closing    string
	Words      string
	Left       signature
	Right      signature
}

// Invoice bills the full project cost as a single line.
func (s *Synthesizer) Invoice(in Input) (Document, error) {
	now := s.clock()
	id := s.documentID(models.ArchiveInvoice, in, now)
	name, sid := clientLabels(in.Client)
	data := invoiceData{
		Company:    letterheadOf(in.Company),
		ID:         id,
		Date:       view.FormatTime(now),
		ClientName: name,
		ClientSID:  sid,
		Project:    in.Project,
		Line:       fmt.Sprintf("Prestation de %s pour projet \"%s\"", strings.ToLower(in.Project.Type), in.Project.Name),
		Cost:       in.Project.Cost,
		Closing:    invoiceClosing,
		Words:      amount.Words(in.Project.Cost.InexactFloat64()),
		Signature:  invoiceSignature(in.User, in.Company.Signatory),
	}
	content, err := view.Execute("invoice.html", data)
	if err != nil {
		return Document{}, err
	}
	return Document{Content: content, ID: id}, nil
}

// Receipt lists the project's payments and spells the balance still due.
func (s *Synthesizer) Receipt(in Input) (Document, error) {
	now := s.clock()
	id := s.documentID(models.ArchiveReceipt, in, now)
	l := ledger.New(ledger.FilterProject(in.Transactions, in.Project.ID), s.log)
	txs := l.ForProject(in.Project.ID)
	rows := make([]receiptRow, len(txs))
	for i, tx := range txs {
		rows[i] = receiptRow{Date: tx.Date, StructuredID: tx.StructuredID, Amount: tx.AmountOrZero()}
	}
	balance := l.Balance(in.Project)
	name, sid := clientLabels(in.Client)
	data := receiptData{
		Company:    letterheadOf(in.Company),
		ID:         id,
		Date:       view.FormatTime(now),
		ClientName: name,
		ClientSID:  sid,
		Project:    in.Project,
		Rows:       rows,
		Paid:       l.PaidTotal(in.Project.ID),
		Balance:    balance,
		Cost:       in.Project.Cost,
		Closing:    receiptClosing,
		Words:      amount.Words(balance.InexactFloat64()),
		Left:       receiptSignature(in.User),
		Right:      signature{Title: "Signature du Client", Name: name},
	}
	content, err := view.Execute("receipt.html", data)
	if err != nil {
		return Document{}, err
	}
	return Document{Content: content, ID: id}, nil
}

func (s *Synthesizer) documentID(t models.ArchiveType, in Input, now time.Time) string {
	if in.ArchiveID != "" {
		return in.ArchiveID
	}
	s.log.Warn().Str("project", in.Project.StructuredID).Str("type", string(t)).Msg("no archive id supplied, using placeholder")
	return numbering.Placeholder(t, numbering.YearAA(now), in.Project.StructuredID)
}

func clientLabels(c *models.Client) (name, sid string) {
	if c == nil {
		return missingClient, "N/A"
	}
	return c.FullName(), c.StructuredID
}

func letterheadOf(c models.CompanySettings) letterhead {
	return letterhead{Name: c.Name, Tagline: c.Tagline, LogoURL: c.LogoURL, Footer: c.FooterLines()}
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

// invoiceSignature picks the signature block: directors and accountants
// sign in their own name, everyone else falls back to the default
// signatory.
func invoiceSignature(u auth.CurrentUser, signatory string) signature {
	if u.IsLoggedIn {
		switch u.Role {
		case models.RoleDirector:
			return signature{Title: "Signature du Directeur", Name: orDefault(u.DisplayName, signatory)}
		case models.RoleAccountant:
			return signature{Title: "Le Comptable", Name: orDefault(u.DisplayName, signatory)}
		}
	}
	return signature{Title: "Signature Du Directeur", Name: signatory}
}

func receiptSignature(u auth.CurrentUser) signature {
	sig := signature{Title: "La Comptabilité"}
	if !u.IsLoggedIn {
		return sig
	}
	if u.Role == models.RoleDirector {
		sig.Title = "Signature du Directeur"
	}
	sig.Name = u.DisplayName
	return sig
}
