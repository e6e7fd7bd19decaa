package main

import (
	"net/http"
	"time"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/handlers"
	"github.com/diewo77/go-gestion/internal/logging"
	"github.com/diewo77/go-gestion/internal/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps are the long-lived services the routes are built on.
type Deps struct {
	DB        *gorm.DB
	Workspace *services.Workspace
	Company   *services.CompanyService
	// Clock drives the dashboard's current month. Defaults to time.Now.
	Clock func() time.Time
}

// App is the main application handler that sets up all routes.
type App struct {
	mux     *http.ServeMux
	handler http.Handler
	log     zerolog.Logger
}

// NewApp creates a new application with all routes configured.
func NewApp(d Deps, log zerolog.Logger) *App {
	app := &App{mux: http.NewServeMux(), log: log}
	app.setupRoutes(d)
	// Global middleware: request log, session user, language.
	app.handler = logging.Middleware(log, auth.Middleware(withPreferences(app.mux)))
	return app
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}

func (a *App) setupRoutes(d Deps) {
	// Public routes
	ah := handlers.NewAuthHandler(d.DB, a.log)
	a.mux.HandleFunc("POST /signup", ah.Signup)
	a.mux.HandleFunc("POST /login", ah.Login)
	a.mux.HandleFunc("POST /logout", ah.Logout)
	a.mux.HandleFunc("GET /me", ah.Me)
	a.mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Authenticated routes
	ch := handlers.NewClientHandler(d.Workspace, a.log)
	a.protect("GET /clients", ch.List)
	a.protect("POST /clients", ch.Create)
	a.protect("DELETE /clients/{id}", ch.Delete)

	ph := handlers.NewProjectHandler(d.Workspace, a.log)
	a.protect("GET /projects", ph.List)
	a.protect("POST /projects", ph.Create)
	a.protect("DELETE /projects/{id}", ph.Delete)
	a.protect("GET /projects/{id}/balance", ph.Balance)

	th := handlers.NewTransactionHandler(d.Workspace, a.log)
	a.protect("GET /transactions", th.List)
	a.protect("POST /transactions", th.Create)
	a.protect("DELETE /transactions/{id}", th.Delete)

	dh := handlers.NewDocumentHandler(d.Workspace, a.log)
	a.protect("POST /documents/{kind}", dh.Generate)
	a.protect("POST /archives", dh.Save)
	a.protect("GET /archives", dh.List)
	a.protect("GET /archives/{id}", dh.View)
	a.protect("DELETE /archives/{id}", dh.Delete)

	sh := handlers.NewDashboardHandler(d.Workspace, a.log, d.Clock)
	a.protect("GET /dashboard", sh.Summary)
	a.protect("GET /search", sh.Search)
	a.protect("POST /reload", sh.Reload)

	co := handlers.NewCompanyHandler(d.Company, a.log)
	a.protect("GET /settings", co.Get)
	a.protect("POST /settings", co.Update)
}

func (a *App) protect(pattern string, h http.HandlerFunc) {
	a.mux.Handle(pattern, auth.RequireAuth(h))
}

// withPreferences picks the response language: cookie, then ?lang= (which
// is remembered in a cookie), then Accept-Language.
func withPreferences(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lang := ""
		if c, err := r.Cookie("lang"); err == nil && c.Value != "" {
			lang = c.Value
		}
		if q := r.URL.Query().Get("lang"); q != "" {
			lang = q
			http.SetCookie(w, &http.Cookie{
				Name:     "lang",
				Value:    lang,
				Path:     "/",
				MaxAge:   86400 * 365,
				HttpOnly: true,
			})
		}
		if lang == "" {
			lang = r.Header.Get("Accept-Language")
		}
		// DetectLanguage falls back to French for anything unsupported.
		lang = i18n.DetectLanguage(lang)
		next.ServeHTTP(w, r.WithContext(i18n.WithLang(r.Context(), lang)))
	})
}
