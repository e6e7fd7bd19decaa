package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/internal/handlers"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/diewo77/go-gestion/internal/store"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

func setupApp(t *testing.T) *App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	auth.SetUserResolver(handlers.UserResolver(db))
	t.Cleanup(func() { auth.SetUserResolver(nil) })

	clock := func() time.Time { return testNow }
	company := services.NewCompanyService(db, models.CompanySettings{Name: "NGnior Conception", Signatory: "SANOU Mohamed Yacine"})
	ws := services.NewWorkspace(store.New(db), company, zerolog.Nop(), services.WithClock(clock))
	require.NoError(t, ws.Load(context.Background()))
	return NewApp(Deps{DB: db, Workspace: ws, Company: company, Clock: clock}, zerolog.Nop())
}

type client struct {
	t       *testing.T
	app     *App
	cookies []*http.Cookie
}

func (c *client) do(method, path string, body any, header ...string) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rr := httptest.NewRecorder()
	c.app.ServeHTTP(rr, req)
	for _, set := range rr.Result().Cookies() {
		c.cookies = slices.DeleteFunc(c.cookies, func(old *http.Cookie) bool { return old.Name == set.Name })
		if set.Value != "" {
			c.cookies = append(c.cookies, set)
		}
	}
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func signedIn(t *testing.T, app *App) *client {
	t.Helper()
	c := &client{t: t, app: app}
	rr := c.do(http.MethodPost, "/signup", map[string]string{
		"email": "yacine@example.com", "password": "secret", "name": "Yacine", "title": models.RoleDirector,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return c
}

func TestHealthz(t *testing.T) {
	app := setupApp(t)
	rr := (&client{t: t, app: app}).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	app := setupApp(t)
	anon := &client{t: t, app: app}
	for _, path := range []string{"/clients", "/projects", "/dashboard", "/archives", "/settings"} {
		rr := anon.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}
}

func TestAuthFlow(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)

	me := decode[auth.CurrentUser](t, c.do(http.MethodGet, "/me", nil))
	assert.True(t, me.IsLoggedIn)
	assert.Equal(t, "Yacine", me.DisplayName)
	assert.Equal(t, models.RoleDirector, me.Role)

	dup := (&client{t: t, app: app}).do(http.MethodPost, "/signup", map[string]string{"email": "yacine@example.com", "password": "x", "name": "Autre"})
	assert.Equal(t, http.StatusConflict, dup.Code)

	bad := (&client{t: t, app: app}).do(http.MethodPost, "/login", map[string]string{"email": "yacine@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	other := &client{t: t, app: app}
	ok := other.do(http.MethodPost, "/login", map[string]string{"email": "YACINE@example.com", "password": "secret"})
	assert.Equal(t, http.StatusOK, ok.Code)
	assert.Equal(t, http.StatusOK, other.do(http.MethodGet, "/clients", nil).Code)
}

func TestSignupRequiresName(t *testing.T) {
	app := setupApp(t)
	rr := (&client{t: t, app: app}).do(http.MethodPost, "/signup", map[string]string{"email": "dir@example.com", "password": "secret"})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	details := decode[map[string]any](t, rr)["details"].(map[string]any)
	assert.Equal(t, "Requis", details["name"])
}

func TestEmptyListsAreArrays(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)
	for _, path := range []string{"/clients", "/projects", "/transactions", "/archives"} {
		rr := c.do(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, rr.Code, path)
		assert.JSONEq(t, "[]", rr.Body.String(), path)
	}
}

func TestValidationErrorsAreTranslated(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)

	rr := c.do(http.MethodPost, "/clients", map[string]string{"last_name": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	body := decode[map[string]any](t, rr)
	assert.Equal(t, "validation_failed", body["error"])
	details := body["details"].(map[string]any)
	assert.Equal(t, "Requis", details["last_name"])

	rr = c.do(http.MethodPost, "/clients?lang=en", map[string]string{"last_name": ""})
	details = decode[map[string]any](t, rr)["details"].(map[string]any)
	assert.Equal(t, "Required", details["first_name"])
}

func TestUnknownFieldIsBadRequest(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)
	rr := c.do(http.MethodPost, "/clients", map[string]string{"nom": "X"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestLedgerAndDocumentFlow(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)

	rr := c.do(http.MethodPost, "/clients", map[string]string{"last_name": "Kabore", "first_name": "Issa", "phone": "70 00 00 00"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	cl := decode[models.Client](t, rr)
	assert.Equal(t, "CL-25-01", cl.StructuredID)

	rr = c.do(http.MethodPost, "/projects", map[string]any{
		"client_id": cl.ID, "name": "Villa", "type": "Conception", "start_date": "2025-01-10", "cost": "100000",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	p := decode[models.Project](t, rr)
	assert.Equal(t, "P-25-CL-25-01-01", p.StructuredID)

	rr = c.do(http.MethodPost, "/transactions", map[string]any{"project_id": p.ID, "amount": 40000, "date": "2025-06-02"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	tx := decode[models.Transaction](t, rr)
	assert.Equal(t, "TR-25-P-25-CL-25-01-01-001", tx.StructuredID)

	txs := decode[[]models.Transaction](t, c.do(http.MethodGet, "/transactions?project="+p.ID, nil))
	assert.Len(t, txs, 1)

	bal := decode[map[string]any](t, c.do(http.MethodGet, "/projects/"+p.ID+"/balance", nil))
	assert.Equal(t, "60000", bal["balance"])

	// Deleting a client with projects is refused.
	assert.Equal(t, http.StatusConflict, c.do(http.MethodDelete, "/clients/"+cl.ID, nil).Code)

	// Receipt as HTML.
	rr = c.do(http.MethodPost, "/documents/receipt?project="+p.ID, nil, "Accept", "text/html")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rr.Body.String(), "R-25-P-25-CL-25-01-01-001")

	rr = c.do(http.MethodPost, "/archives", nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	arch := decode[models.Archive](t, rr)
	assert.Equal(t, "R-25-P-25-CL-25-01-01-001", arch.ArchiveID)

	// Nothing pending any more.
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/archives", nil).Code)

	list := decode[[]models.Archive](t, c.do(http.MethodGet, "/archives?type=receipt", nil))
	require.Len(t, list, 1)
	assert.Empty(t, list[0].HTMLContent)
	assert.Empty(t, decode[[]models.Archive](t, c.do(http.MethodGet, "/archives?type=invoice", nil)))

	view := c.do(http.MethodGet, "/archives/"+arch.ID, nil)
	assert.Equal(t, http.StatusOK, view.Code)
	assert.True(t, strings.Contains(view.Body.String(), "<html") || strings.Contains(view.Body.String(), "<!DOCTYPE"))

	dash := decode[map[string]any](t, c.do(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, float64(1), dash["projects"])
	assert.Equal(t, "40000", dash["month_revenue"])

	found := decode[services.SearchResults](t, c.do(http.MethodGet, "/search?q=kabore", nil))
	assert.Len(t, found.Clients, 1)

	assert.Equal(t, http.StatusOK, c.do(http.MethodPost, "/reload", nil).Code)

	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/archives/"+arch.ID, nil).Code)
	del := decode[map[string]float64](t, c.do(http.MethodDelete, "/projects/"+p.ID, nil))
	assert.Equal(t, float64(1), del["deleted_transactions"])
	assert.Equal(t, http.StatusNoContent, c.do(http.MethodDelete, "/clients/"+cl.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, c.do(http.MethodDelete, "/clients/"+cl.ID, nil).Code)
}

func TestUnknownDocumentKind(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)
	rr := c.do(http.MethodPost, "/documents/quote?project=x", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "unknown_document_type", decode[map[string]any](t, rr)["error"])
}

func TestSettings(t *testing.T) {
	app := setupApp(t)
	c := signedIn(t, app)

	got := decode[models.CompanySettings](t, c.do(http.MethodGet, "/settings", nil))
	assert.Equal(t, "NGnior Conception", got.Name)

	rr := c.do(http.MethodPost, "/settings", map[string]string{"name": "Atelier Faso", "rccm": "BF-1"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	got = decode[models.CompanySettings](t, c.do(http.MethodGet, "/settings", nil))
	assert.Equal(t, "Atelier Faso", got.Name)
	assert.Equal(t, "BF-1", got.RCCM)
}

func TestWithPreferences(t *testing.T) {
	var seen string
	h := withPreferences(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = langOf(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", seen)

	req = httptest.NewRequest(http.MethodGet, "/?lang=de", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "fr", seen)

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "lang", Value: "en"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "en", seen)
}
