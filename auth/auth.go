// Package auth issues HMAC-signed session cookies and resolves the current
// user attached to a request.
package auth

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/diewo77/go-gestion/httpx"
)

type ctxKey string

const (
	sessionCookieName = "session"
	userIDCtxKey      = ctxKey("userID")
	sessionTTL        = 14 * 24 * time.Hour
)

// CurrentUser is the summary other components see of the logged-in user.
// The zero value is an anonymous visitor.
type CurrentUser struct {
	ID uint `json:"id,omitempty"`
	// DisplayName is the user's own name. It is empty when none was given,
	// so documents can fall back to the company signatory.
	DisplayName string `json:"display_name"`
	Email       string `json:"email,omitempty"`
	Role        string `json:"role"`
	IsLoggedIn  bool   `json:"is_logged_in"`
}

// UserResolver loads the user behind a session. It returns false when the
// user no longer exists.
type UserResolver func(ctx context.Context, uid uint) (CurrentUser, bool)

var (
	secret   = []byte("devsessionsecret")
	resolver UserResolver
)

// SetSecret sets the HMAC key used to sign session cookies.
func SetSecret(s string) {
	if s != "" {
		secret = []byte(s)
	}
}

// SetUserResolver configures how sessions are turned into users. When nil,
// a valid session is trusted as-is.
func SetUserResolver(r UserResolver) { resolver = r }

func sign(uidStr string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(uidStr))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// CreateSession sets a signed cookie with the user id.
func CreateSession(w http.ResponseWriter, userID uint) {
	uidStr := strconv.FormatUint(uint64(userID), 10)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    uidStr + "." + sign(uidStr),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
}

// ClearSession deletes the session cookie.
func ClearSession(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, SameSite: http.SameSiteLaxMode})
}

// ParseSession validates the cookie and returns the user id.
func ParseSession(r *http.Request) (uint, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return 0, false
	}
	uidStr, sig, ok := strings.Cut(c.Value, ".")
	if !ok || !hmac.Equal([]byte(sig), []byte(sign(uidStr))) {
		return 0, false
	}
	id64, err := strconv.ParseUint(uidStr, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id64), true
}

type userCtxKey struct{}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDCtxKey).(uint)
	return id, ok
}

// WithUser stores the resolved user in ctx, along with its id.
func WithUser(ctx context.Context, u CurrentUser) context.Context {
	ctx = context.WithValue(ctx, userCtxKey{}, u)
	if u.IsLoggedIn {
		ctx = WithUserID(ctx, u.ID)
	}
	return ctx
}

// Current returns the user attached to ctx, or an anonymous user.
func Current(ctx context.Context) CurrentUser {
	u, _ := ctx.Value(userCtxKey{}).(CurrentUser)
	return u
}

// Middleware resolves the session, if any, and attaches the user to the
// request context. Sessions pointing at deleted users are cleared.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid, ok := ParseSession(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}
		u := CurrentUser{ID: uid, IsLoggedIn: true}
		if resolver != nil {
			resolved, found := resolver(r.Context(), uid)
			if !found {
				ClearSession(w)
				next.ServeHTTP(w, r)
				return
			}
			u = resolved
			u.ID, u.IsLoggedIn = uid, true
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// RequireAuth answers 401 when the request carries no valid session.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}
