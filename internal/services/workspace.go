package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/diewo77/go-gestion/internal/documents"
	"github.com/diewo77/go-gestion/internal/ledger"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/numbering"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = store.ErrNotFound
	ErrClientHasProjects = errors.New("client still has projects")
	ErrArchiveExists     = errors.New("archive already exists")
	ErrNoDraft           = errors.New("no pending document")
	// ErrOrphanedTransactions is returned when a project was deleted but
	// removing its transactions failed afterwards.
	ErrOrphanedTransactions = errors.New("project deleted, transactions left behind")
)

// Letterhead provides the company settings printed on documents.
type Letterhead interface {
	Get(ctx context.Context) (models.CompanySettings, error)
}

// Workspace owns the in-memory snapshot of the four collections. Structured
// ids are computed from the snapshot, so every write goes through the
// workspace and is appended to the snapshot once the store accepted it.
// Writes are serialised by mu; the store's unique indexes reject an id
// taken concurrently by another process.
type Workspace struct {
	store     *store.Store
	company   Letterhead
	synth     *documents.Synthesizer
	log       zerolog.Logger
	clock     func() time.Time
	chartYear int

	mu           sync.RWMutex
	clients      []models.Client
	projects     []models.Project
	transactions []models.Transaction
	archives     []models.Archive
	drafts       map[uint]Draft
}

// Option configures a Workspace.
type Option func(*Workspace)

// WithClock replaces time.Now, which drives the year embedded in ids.
func WithClock(clock func() time.Time) Option {
	return func(w *Workspace) { w.clock = clock }
}

// WithChartYear fixes the year of the dashboard's monthly series. Zero
// follows the current year.
func WithChartYear(year int) Option {
	return func(w *Workspace) { w.chartYear = year }
}

func NewWorkspace(st *store.Store, company Letterhead, log zerolog.Logger, opts ...Option) *Workspace {
	w := &Workspace{
		store:   st,
		company: company,
		log:     log,
		clock:   time.Now,
		drafts:  make(map[uint]Draft),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.synth = documents.New(log, w.clock)
	return w
}

// Load replaces the snapshot with the store's content. On failure the
// snapshot is left empty and the error is returned.
func (w *Workspace) Load(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	clients, err := w.store.Clients.FetchAll(ctx)
	if err == nil {
		w.clients = clients
		w.projects, err = w.store.Projects.FetchAll(ctx)
	}
	if err == nil {
		w.transactions, err = w.store.Transactions.FetchAll(ctx)
	}
	if err == nil {
		w.archives, err = w.store.Archives.FetchAll(ctx)
	}
	if err != nil {
		w.clients, w.projects, w.transactions, w.archives = nil, nil, nil, nil
		return fmt.Errorf("load workspace: %w", err)
	}
	w.log.Info().
		Int("clients", len(w.clients)).
		Int("projects", len(w.projects)).
		Int("transactions", len(w.transactions)).
		Int("archives", len(w.archives)).
		Msg("workspace loaded")
	return nil
}

func (w *Workspace) yearAA() string { return numbering.YearAA(w.clock()) }

func (w *Workspace) traceID(scope string, res numbering.Result) {
	if res.Skipped > 0 {
		w.log.Warn().Str("scope", scope).Int("skipped", res.Skipped).Msg("ignored malformed structured ids")
	}
	w.log.Debug().Str("scope", scope).Str("id", res.ID).Int("max", res.Max).Msg("generated structured id")
}

// ClientInput is the payload for CreateClient.
type ClientInput struct {
	LastName  string `json:"last_name"`
	FirstName string `json:"first_name"`
	Phone     string `json:"phone"`
}

// CreateClient validates in, numbers the client and stores it.
func (w *Workspace) CreateClient(ctx context.Context, in ClientInput) (models.Client, error) {
	v := make(validation.Violations)
	validation.Required("last_name", in.LastName, v)
	validation.Required("first_name", in.FirstName, v)
	if err := v.Err(); err != nil {
		return models.Client{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	res := numbering.ClientID(w.yearAA(), w.clients)
	w.traceID("client", res)
	c := models.Client{
		StructuredID: res.ID,
		LastName:     strings.TrimSpace(in.LastName),
		FirstName:    strings.TrimSpace(in.FirstName),
		Phone:        strings.TrimSpace(in.Phone),
	}
	if _, err := w.store.Clients.Insert(ctx, &c); err != nil {
		return models.Client{}, err
	}
	w.clients = append(w.clients, c)
	return c, nil
}

// ProjectInput is the payload for CreateProject.
type ProjectInput struct {
	ClientID  string               `json:"client_id"`
	Name      string               `json:"name"`
	Type      string               `json:"type"`
	StartDate string               `json:"start_date"`
	Cost      decimal.NullDecimal  `json:"cost"`
	Status    models.ProjectStatus `json:"status"`
}

func statusNames() []string {
	names := make([]string, len(models.ProjectStatuses))
	for i, s := range models.ProjectStatuses {
		names[i] = string(s)
	}
	return names
}

// CreateProject numbers the project under its client and stores it.
func (w *Workspace) CreateProject(ctx context.Context, in ProjectInput) (models.Project, error) {
	v := make(validation.Violations)
	validation.Required("client_id", in.ClientID, v)
	validation.Required("name", in.Name, v)
	validation.Required("type", in.Type, v)
	validation.Date("start_date", in.StartDate, v)
	validation.NonNegativeDecimal("cost", in.Cost, v)
	validation.OneOf("status", string(in.Status), statusNames(), v)
	if err := v.Err(); err != nil {
		return models.Project{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	client, ok := w.findClient(in.ClientID)
	if !ok {
		return models.Project{}, validation.Violations{"client_id": validation.CodeUnknown}.Err()
	}
	res := numbering.ProjectID(w.yearAA(), client.StructuredID, w.projects)
	w.traceID("project", res)
	p := models.Project{
		StructuredID: res.ID,
		ClientID:     client.ID,
		Name:         strings.TrimSpace(in.Name),
		Type:         strings.TrimSpace(in.Type),
		StartDate:    in.StartDate,
		Cost:         in.Cost.Decimal,
		Status:       in.Status,
	}
	if _, err := w.store.Projects.Insert(ctx, &p); err != nil {
		return models.Project{}, err
	}
	w.projects = append(w.projects, p)
	return p, nil
}

// TransactionInput is the payload for RecordTransaction.
type TransactionInput struct {
	ProjectID string              `json:"project_id"`
	Amount    decimal.NullDecimal `json:"amount"`
	Date      string              `json:"date"`
}

// RecordTransaction numbers a payment under its project and stores it.
func (w *Workspace) RecordTransaction(ctx context.Context, in TransactionInput) (models.Transaction, error) {
	v := make(validation.Violations)
	validation.Required("project_id", in.ProjectID, v)
	validation.PositiveDecimal("amount", in.Amount, v)
	validation.Date("date", in.Date, v)
	if err := v.Err(); err != nil {
		return models.Transaction{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	project, ok := w.findProject(in.ProjectID)
	if !ok {
		return models.Transaction{}, validation.Violations{"project_id": validation.CodeUnknown}.Err()
	}
	res := numbering.TransactionID(w.yearAA(), project.StructuredID, w.transactions)
	w.traceID("transaction", res)
	tx := models.Transaction{
		StructuredID: res.ID,
		ProjectID:    project.ID,
		Amount:       in.Amount,
		Date:         in.Date,
	}
	if _, err := w.store.Transactions.Insert(ctx, &tx); err != nil {
		return models.Transaction{}, err
	}
	w.transactions = append(w.transactions, tx)
	return tx, nil
}

// DeleteClient removes a client that no project references.
func (w *Workspace) DeleteClient(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.findClient(id); !ok {
		return fmt.Errorf("client %s: %w", id, ErrNotFound)
	}
	if slices.ContainsFunc(w.projects, func(p models.Project) bool { return p.ClientID == id }) {
		return fmt.Errorf("client %s: %w", id, ErrClientHasProjects)
	}
	if err := w.store.Clients.DeleteByID(ctx, id); err != nil {
		return err
	}
	w.clients = slices.DeleteFunc(w.clients, func(c models.Client) bool { return c.ID == id })
	return nil
}

// DeleteProject removes the project, then its transactions, in two separate
// store calls. If the second call fails the project stays deleted and
// ErrOrphanedTransactions is returned. It reports how many transactions
// were removed.
func (w *Workspace) DeleteProject(ctx context.Context, id string) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.findProject(id); !ok {
		return 0, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err := w.store.Projects.DeleteByID(ctx, id); err != nil {
		return 0, err
	}
	w.projects = slices.DeleteFunc(w.projects, func(p models.Project) bool { return p.ID == id })

	n, err := w.store.Transactions.DeleteWhere(ctx, "project_id", id)
	if err != nil {
		w.log.Error().Err(err).Str("project", id).Msg("project deleted but its transactions were not")
		return 0, fmt.Errorf("%w: %v", ErrOrphanedTransactions, err)
	}
	w.transactions = slices.DeleteFunc(w.transactions, func(t models.Transaction) bool { return t.ProjectID == id })
	return n, nil
}

// DeleteTransaction removes one payment.
func (w *Workspace) DeleteTransaction(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !slices.ContainsFunc(w.transactions, func(t models.Transaction) bool { return t.ID == id }) {
		return fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err := w.store.Transactions.DeleteByID(ctx, id); err != nil {
		return err
	}
	w.transactions = slices.DeleteFunc(w.transactions, func(t models.Transaction) bool { return t.ID == id })
	return nil
}

// DeleteArchive removes an archived document.
func (w *Workspace) DeleteArchive(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !slices.ContainsFunc(w.archives, func(a models.Archive) bool { return a.ID == id }) {
		return fmt.Errorf("archive %s: %w", id, ErrNotFound)
	}
	if err := w.store.Archives.DeleteByID(ctx, id); err != nil {
		return err
	}
	w.archives = slices.DeleteFunc(w.archives, func(a models.Archive) bool { return a.ID == id })
	return nil
}

func (w *Workspace) findClient(id string) (models.Client, bool) {
	i := slices.IndexFunc(w.clients, func(c models.Client) bool { return c.ID == id })
	if i < 0 {
		return models.Client{}, false
	}
	return w.clients[i], true
}

func (w *Workspace) findProject(id string) (models.Project, bool) {
	i := slices.IndexFunc(w.projects, func(p models.Project) bool { return p.ID == id })
	if i < 0 {
		return models.Project{}, false
	}
	return w.projects[i], true
}

// Clients returns a copy of the client snapshot.
func (w *Workspace) Clients() []models.Client {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Client{}, w.clients...)
}

// Projects returns a copy of the project snapshot.
func (w *Workspace) Projects() []models.Project {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return append([]models.Project{}, w.projects...)
}

// Transactions returns the transactions of projectID, or all of them when
// projectID is empty.
func (w *Workspace) Transactions(projectID string) []models.Transaction {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if projectID == "" {
		return slices.Clone(w.transactions)
	}
	var out []models.Transaction
	for _, t := range w.transactions {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}

// Archives returns archives newest first, optionally filtered by type.
// The HTML content is left out; use Archive to read one document.
func (w *Workspace) Archives(t models.ArchiveType) []models.Archive {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]models.Archive, 0, len(w.archives))
	for _, a := range w.archives {
		if t != "" && a.Type != t {
			continue
		}
		a.HTMLContent = ""
		out = append(out, a)
	}
	return out
}

// Archive returns one archived document with its content.
func (w *Workspace) Archive(id string) (models.Archive, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	i := slices.IndexFunc(w.archives, func(a models.Archive) bool { return a.ID == id })
	if i < 0 {
		return models.Archive{}, fmt.Errorf("archive %s: %w", id, ErrNotFound)
	}
	return w.archives[i], nil
}

// ProjectBalance is the financial position of one project.
type ProjectBalance struct {
	Project models.Project  `json:"project"`
	Paid    decimal.Decimal `json:"paid"`
	Balance decimal.Decimal `json:"balance"`
}

// Balance reports what was paid and what remains due on a project.
func (w *Workspace) Balance(projectID string) (ProjectBalance, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.findProject(projectID)
	if !ok {
		return ProjectBalance{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	l := ledger.New(ledger.FilterProject(w.transactions, p.ID), w.log)
	return ProjectBalance{Project: p, Paid: l.PaidTotal(p.ID), Balance: l.Balance(p)}, nil
}

// Dashboard summarises revenue and project count at now.
func (w *Workspace) Dashboard(now time.Time) ledger.Summary {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return ledger.New(w.transactions, w.log).Summarize(now, w.chartYear, len(w.projects))
}
