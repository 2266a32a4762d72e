package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"gitea.com/go-chi/session"

	"github.com/blogem/intern-timetracker/authenticator"
	"github.com/blogem/intern-timetracker/models"
	"github.com/blogem/intern-timetracker/userctx"
)

// AuthController handles admin login and logout
type AuthController struct {
	oidc  authenticator.Provider
	local *authenticator.LocalAdmin
	responder
}

// NewAuthController creates a new auth controller; either provider may be nil
func NewAuthController(oidc authenticator.Provider, local *authenticator.LocalAdmin, r responder) *AuthController {
	return &AuthController{oidc: oidc, local: local, responder: r}
}

// Login handles GET /admin/login by redirecting to the OIDC provider
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if ac.oidc == nil {
		ac.status(w, http.StatusNotFound, models.StatusError, models.TitleLoginFailed, "Single sign-on is not configured.")
		return
	}

	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		ac.fail(w, r, err)
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	if err := sess.Set(userctx.SessionState, state); err != nil {
		ac.fail(w, r, err)
		return
	}

	http.Redirect(w, r, ac.oidc.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// Callback handles GET /admin/callback from the OIDC provider
func (ac *AuthController) Callback(w http.ResponseWriter, r *http.Request) {
	if ac.oidc == nil {
		ac.status(w, http.StatusNotFound, models.StatusError, models.TitleLoginFailed, "Single sign-on is not configured.")
		return
	}

	sess := session.GetSession(r)

	// Verify state
	storedState, ok := sess.Get(userctx.SessionState).(string)
	if !ok || storedState == "" || r.URL.Query().Get("state") != storedState {
		ac.status(w, http.StatusBadRequest, models.StatusError, models.TitleLoginFailed, "Invalid state parameter.")
		return
	}
	sess.Delete(userctx.SessionState)

	// Exchange the code for a token
	token, err := ac.oidc.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		slog.Warn("admin login failed", "error", err)
		ac.status(w, http.StatusUnauthorized, models.StatusError, models.TitleLoginFailed, "Could not complete sign-on.")
		return
	}

	claims, err := ac.oidc.GetClaims(r.Context(), token)
	if err != nil {
		slog.Warn("admin login failed", "error", err)
		ac.status(w, http.StatusUnauthorized, models.StatusError, models.TitleLoginFailed, "Could not verify sign-on.")
		return
	}

	if err := sess.Set(userctx.SessionAdmin, claims.Email()); err != nil {
		ac.fail(w, r, err)
		return
	}
	slog.Info("admin logged in", "admin", claims.Email(), "method", "oidc")

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// LocalLogin handles POST /admin/login with a username and password (JSON or form encoded)
func (ac *AuthController) LocalLogin(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(w, r, &creds); err != nil {
			ac.badRequest(w, err.Error())
			return
		}
	} else {
		creds.Username = r.PostFormValue("username")
		creds.Password = r.PostFormValue("password")
	}

	admin, err := ac.local.Verify(creds.Username, creds.Password)
	switch {
	case errors.Is(err, authenticator.ErrLoginDisabled):
		ac.status(w, http.StatusNotFound, models.StatusError, models.TitleLoginFailed, "Password login is not configured.")
		return
	case errors.Is(err, authenticator.ErrInvalidCredentials):
		slog.Warn("admin login failed", "username", creds.Username)
		ac.status(w, http.StatusUnauthorized, models.StatusError, models.TitleLoginFailed, "Incorrect username or password.")
		return
	case err != nil:
		ac.fail(w, r, err)
		return
	}

	sess := session.GetSession(r)
	if err := sess.Set(userctx.SessionAdmin, admin); err != nil {
		ac.fail(w, r, err)
		return
	}
	slog.Info("admin logged in", "admin", admin, "method", "password")

	ac.status(w, http.StatusOK, models.StatusSuccess, "Logged In", "Welcome, "+admin+".")
}

// Logout handles POST /admin/logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	sess.Delete(userctx.SessionAdmin)
	ac.status(w, http.StatusOK, models.StatusInfo, "Logged Out", "You have been logged out.")
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
