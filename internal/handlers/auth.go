package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/go-gestion/auth"
	"github.com/diewo77/go-gestion/httpx"
	"github.com/diewo77/go-gestion/i18n"
	"github.com/diewo77/go-gestion/internal/models"
	"github.com/diewo77/go-gestion/validation"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db  *gorm.DB
	log zerolog.Logger
}

func NewAuthHandler(db *gorm.DB, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{db: db, log: log}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Title    string `json:"title,omitempty"`
}

// Signup creates a user and opens a session for it.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	v := make(validation.Violations)
	validation.Required("email", in.Email, v)
	validation.Required("password", in.Password, v)
	validation.Required("name", in.Name, v)
	if err := v.Err(); err != nil {
		writeError(w, r, h.log, err)
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, r, h.log, err)
		return
	}
	user := models.User{
		Email:    in.Email,
		Password: string(hashed),
		Name:     strings.TrimSpace(in.Name),
		Title:    strings.TrimSpace(in.Title),
	}
	if err := h.db.WithContext(r.Context()).Create(&user).Error; err != nil {
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONErrorMessage(w, http.StatusConflict, "email_taken", i18n.T(lang, "email_taken"), nil)
		return
	}

	h.log.Info().Uint("user", user.ID).Msg("user signed up")
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusCreated, currentUser(user))
}

// Login checks the password and opens a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in credentials
	if err := httpx.DecodeJSON(r, &in); err != nil {
		badBody(w, r, err)
		return
	}
	var user models.User
	err := h.db.WithContext(r.Context()).Where("email = ?", strings.ToLower(strings.TrimSpace(in.Email))).First(&user).Error
	if err == nil {
		err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password))
	}
	if err != nil {
		lang := i18n.LangFromContext(r.Context())
		httpx.JSONErrorMessage(w, http.StatusUnauthorized, "invalid_credentials", i18n.T(lang, "invalid_credentials"), nil)
		return
	}
	auth.CreateSession(w, user.ID)
	httpx.JSON(w, http.StatusOK, currentUser(user))
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSession(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the user attached to the request, anonymous or not.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, auth.Current(r.Context()))
}

// UserResolver loads session users from the users table.
func UserResolver(db *gorm.DB) auth.UserResolver {
	return func(ctx context.Context, uid uint) (auth.CurrentUser, bool) {
		var user models.User
		if err := db.WithContext(ctx).First(&user, uid).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				zerolog.Ctx(ctx).Warn().Err(err).Uint("user", uid).Msg("resolve session user")
			}
			return auth.CurrentUser{}, false
		}
		return currentUser(user), true
	}
}

func currentUser(u models.User) auth.CurrentUser {
	return auth.CurrentUser{
		ID:          u.ID,
		DisplayName: strings.TrimSpace(u.Name),
		Email:       u.Email,
		Role:        u.RoleTitle(),
		IsLoggedIn:  true,
	}
}
