package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/diewo77/go-gestion/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func defaultCompany() models.CompanySettings {
	return models.CompanySettings{Name: "NGnior Conception", Signatory: "SANOU Mohamed Yacine"}
}

func newWorkspace(t *testing.T) (*Workspace, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	w := NewWorkspace(store.New(db), NewCompanyService(db, defaultCompany()), zerolog.Nop(),
		WithClock(func() time.Time { return testNow }))
	require.NoError(t, w.Load(context.Background()))
	return w, db
}

func amount(n int64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromInt(n))
}

// seed creates one client with one project costing 100000.
func seed(t *testing.T, w *Workspace) (models.Client, models.Project) {
	t.Helper()
	ctx := context.Background()
	c, err := w.CreateClient(ctx, ClientInput{LastName: "Kabore", FirstName: "Issa", Phone: "+226 70 00 00 00"})
	require.NoError(t, err)
	p, err := w.CreateProject(ctx, ProjectInput{ClientID: c.ID, Name: "Villa R+1", Type: "Conception", StartDate: "2025-01-10", Cost: amount(100000)})
	require.NoError(t, err)
	return c, p
}

func TestCreateChainNumbering(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	c1, p1 := seed(t, w)
	assert.Equal(t, "CL-25-01", c1.StructuredID)
	assert.Equal(t, "P-25-CL-25-01-01", p1.StructuredID)
	assert.Equal(t, models.ProjectStatusOngoing, p1.Status)

	c2, err := w.CreateClient(ctx, ClientInput{LastName: "Ouedraogo", FirstName: "Awa"})
	require.NoError(t, err)
	assert.Equal(t, "CL-25-02", c2.StructuredID)

	p2, err := w.CreateProject(ctx, ProjectInput{ClientID: c1.ID, Name: "Etude sol", Type: "Etude", StartDate: "2025-02-01", Cost: amount(0)})
	require.NoError(t, err)
	assert.Equal(t, "P-25-CL-25-01-02", p2.StructuredID)

	p3, err := w.CreateProject(ctx, ProjectInput{ClientID: c2.ID, Name: "Suivi", Type: "Suivi", StartDate: "2025-02-01", Cost: amount(5)})
	require.NoError(t, err)
	assert.Equal(t, "P-25-CL-25-02-01", p3.StructuredID)

	tx1, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p1.ID, Amount: amount(30000), Date: "2025-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "TR-25-P-25-CL-25-01-01-001", tx1.StructuredID)
	tx2, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p1.ID, Amount: amount(20000), Date: "2025-06-02"})
	require.NoError(t, err)
	assert.Equal(t, "TR-25-P-25-CL-25-01-01-002", tx2.StructuredID)
}

func TestSnapshotSurvivesReload(t *testing.T) {
	w, db := newWorkspace(t)
	ctx := context.Background()
	seed(t, w)

	fresh := NewWorkspace(store.New(db), NewCompanyService(db, defaultCompany()), zerolog.Nop(),
		WithClock(func() time.Time { return testNow }))
	require.NoError(t, fresh.Load(ctx))
	require.Len(t, fresh.Clients(), 1)
	require.Len(t, fresh.Projects(), 1)

	c, err := fresh.CreateClient(ctx, ClientInput{LastName: "Sawadogo", FirstName: "Ali"})
	require.NoError(t, err)
	assert.Equal(t, "CL-25-02", c.StructuredID)
}

func TestValidationErrors(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)

	var verr *validation.Error
	_, err := w.CreateClient(ctx, ClientInput{LastName: "Kabore"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeRequired, verr.Violations["first_name"])

	_, err = w.CreateProject(ctx, ProjectInput{ClientID: "nope", Name: "X", Type: "Etude", StartDate: "2025-01-01", Cost: amount(-1)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeNegative, verr.Violations["cost"])

	_, err = w.CreateProject(ctx, ProjectInput{ClientID: "nope", Name: "X", Type: "Etude", StartDate: "2025-01-01", Cost: amount(1)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeUnknown, verr.Violations["client_id"])

	_, err = w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(0)})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeMustBePositive, verr.Violations["amount"])
	assert.Equal(t, validation.CodeRequired, verr.Violations["date"])

	assert.Len(t, w.Transactions(""), 0, "rejected operations must not write")
}

func TestEmptySnapshotListsAreNotNil(t *testing.T) {
	w, _ := newWorkspace(t)
	assert.NotNil(t, w.Clients())
	assert.NotNil(t, w.Projects())
	assert.Empty(t, w.Clients())
}

func TestCreateProjectChecksStatusAndPrecision(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	c, _ := seed(t, w)

	var verr *validation.Error
	_, err := w.CreateProject(ctx, ProjectInput{ClientID: c.ID, Name: "X", Type: "Etude", StartDate: "2025-01-01", Cost: amount(1), Status: "Fini"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeInvalidChoice, verr.Violations["status"])

	precise := decimal.NewNullDecimal(decimal.RequireFromString("100.005"))
	_, err = w.CreateProject(ctx, ProjectInput{ClientID: c.ID, Name: "X", Type: "Etude", StartDate: "2025-01-01", Cost: precise})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeTooPrecise, verr.Violations["cost"])

	p, err := w.CreateProject(ctx, ProjectInput{ClientID: c.ID, Name: "X", Type: "Etude", StartDate: "2025-01-01", Cost: amount(1), Status: models.ProjectStatusOnHold})
	require.NoError(t, err)
	assert.Equal(t, models.ProjectStatusOnHold, p.Status)

	_, err = w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: decimal.NewNullDecimal(decimal.RequireFromString("0.001")), Date: "2025-02-01"})
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, validation.CodeTooPrecise, verr.Violations["amount"])
}

func TestDeleteClientGuard(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	c, p := seed(t, w)

	err := w.DeleteClient(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrClientHasProjects), "got %v", err)

	_, err = w.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, w.DeleteClient(ctx, c.ID))
	assert.Empty(t, w.Clients())

	err = w.DeleteClient(ctx, c.ID)
	assert.True(t, errors.Is(err, ErrNotFound), "got %v", err)
}

func TestDeleteProjectCascades(t *testing.T) {
	w, db := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	for i := 0; i < 3; i++ {
		_, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(1000), Date: "2025-06-01"})
		require.NoError(t, err)
	}

	n, err := w.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Empty(t, w.Projects())
	assert.Empty(t, w.Transactions(""))

	var count int64
	require.NoError(t, db.Model(&models.Transaction{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteProjectLeavesOrphansWhenSecondStepFails(t *testing.T) {
	w, db := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	_, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(1000), Date: "2025-06-01"})
	require.NoError(t, err)

	require.NoError(t, db.Migrator().DropTable(&models.Transaction{}))
	_, err = w.DeleteProject(ctx, p.ID)
	assert.True(t, errors.Is(err, ErrOrphanedTransactions), "got %v", err)
	assert.Empty(t, w.Projects(), "project removal is not rolled back")
	assert.Len(t, w.Transactions(""), 1)
}

func TestDeleteTransaction(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	tx, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(1000), Date: "2025-06-01"})
	require.NoError(t, err)

	require.NoError(t, w.DeleteTransaction(ctx, tx.ID))
	assert.Empty(t, w.Transactions(p.ID))
	assert.True(t, errors.Is(w.DeleteTransaction(ctx, tx.ID), ErrNotFound))
}

func TestBalanceAndDashboard(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	_, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(30000), Date: "2025-06-01"})
	require.NoError(t, err)
	_, err = w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(20000), Date: "2025-01-05"})
	require.NoError(t, err)

	b, err := w.Balance(p.ID)
	require.NoError(t, err)
	assert.True(t, b.Paid.Equal(decimal.NewFromInt(50000)))
	assert.True(t, b.Balance.Equal(decimal.NewFromInt(50000)))

	d := w.Dashboard(testNow)
	assert.Equal(t, 1, d.Projects)
	assert.True(t, d.MonthRevenue.Equal(decimal.NewFromInt(30000)))
	assert.True(t, d.YearRevenue.Equal(decimal.NewFromInt(50000)))
	assert.True(t, d.MonthlySeries[0].Equal(decimal.NewFromInt(20000)))

	_, err = w.Balance("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestPrepareAndSaveArchive(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	user := auth.CurrentUser{ID: 7, DisplayName: "Awa", Role: models.RoleAccountant, IsLoggedIn: true}

	d, err := w.PrepareDocument(ctx, models.ArchiveInvoice, p.ID, user)
	require.NoError(t, err)
	assert.Equal(t, "F-25-P-25-CL-25-01-01-001", d.ArchiveID)
	assert.Contains(t, d.Content, "Le Comptable")
	assert.Empty(t, w.Archives(""), "preparing a document writes nothing")

	a, err := w.SaveArchive(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, d.ArchiveID, a.ArchiveID)
	assert.Equal(t, p.StructuredID, a.ProjectStructuredID)
	_, pending := w.PendingDraft(user.ID)
	assert.False(t, pending)

	_, err = w.SaveArchive(ctx, user.ID)
	assert.True(t, errors.Is(err, ErrNoDraft))

	next, err := w.PrepareDocument(ctx, models.ArchiveInvoice, p.ID, user)
	require.NoError(t, err)
	assert.Equal(t, "F-25-P-25-CL-25-01-01-002", next.ArchiveID)

	r, err := w.PrepareDocument(ctx, models.ArchiveReceipt, p.ID, user)
	require.NoError(t, err)
	assert.Equal(t, "R-25-P-25-CL-25-01-01-001", r.ArchiveID)

	got, err := w.Archive(a.ID)
	require.NoError(t, err)
	assert.Equal(t, d.Content, got.HTMLContent)
	assert.Empty(t, w.Archives(models.ArchiveInvoice)[0].HTMLContent)

	require.NoError(t, w.DeleteArchive(ctx, a.ID))
	_, err = w.Archive(a.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDuplicateArchiveGuard(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	alice := auth.CurrentUser{ID: 1, DisplayName: "Alice", Role: models.RoleDirector, IsLoggedIn: true}
	bob := auth.CurrentUser{ID: 2, DisplayName: "Bob", IsLoggedIn: true}

	da, err := w.PrepareDocument(ctx, models.ArchiveReceipt, p.ID, alice)
	require.NoError(t, err)
	db, err := w.PrepareDocument(ctx, models.ArchiveReceipt, p.ID, bob)
	require.NoError(t, err)
	require.Equal(t, da.ArchiveID, db.ArchiveID, "both drafts read the same snapshot")

	_, err = w.SaveArchive(ctx, alice.ID)
	require.NoError(t, err)
	_, err = w.SaveArchive(ctx, bob.ID)
	assert.True(t, errors.Is(err, ErrArchiveExists), "got %v", err)
	assert.Len(t, w.Archives(""), 1)
}

func TestPrepareDocumentErrors(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, err := w.PrepareDocument(ctx, models.ArchiveInvoice, "missing", auth.CurrentUser{})
	assert.True(t, errors.Is(err, ErrNotFound))
	_, err = w.PrepareDocument(ctx, "Z", "missing", auth.CurrentUser{})
	assert.Error(t, err)
}

func TestPrepareDocumentUsesSavedLetterhead(t *testing.T) {
	w, db := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	_, err := NewCompanyService(db, defaultCompany()).Save(ctx, models.CompanySettings{Name: "Atelier Faso"})
	require.NoError(t, err)

	d, err := w.PrepareDocument(ctx, models.ArchiveInvoice, p.ID, auth.CurrentUser{})
	require.NoError(t, err)
	assert.Contains(t, d.Content, "Atelier Faso")
}

func TestSearch(t *testing.T) {
	w, _ := newWorkspace(t)
	ctx := context.Background()
	_, p := seed(t, w)
	_, err := w.RecordTransaction(ctx, TransactionInput{ProjectID: p.ID, Amount: amount(1000), Date: "2025-06-01"})
	require.NoError(t, err)

	res := w.Search("kabore iss")
	assert.Len(t, res.Clients, 1)
	assert.Empty(t, res.Projects)

	res = w.Search("villa")
	assert.Len(t, res.Projects, 1)

	res = w.Search("cl-25-01")
	assert.Len(t, res.Clients, 1)
	assert.Len(t, res.Projects, 1)
	assert.Len(t, res.Transactions, 1)

	res = w.Search("   ")
	assert.Empty(t, res.Clients)
}
