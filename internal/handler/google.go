package handler

import (
	"log/slog"
	"net/http"

	"github.com/rs/xid"

	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/service"
)

const stateCookieName = "oauth_state"

// GoogleHandler runs the browser-facing Google OAuth flow for deployments
// that manage accounts locally instead of delegating to a hosted identity
// backend. The hosted flow never touches these routes; its provider runs
// OAuth on its own side and the frontend posts the resulting bearer token
// to the callback reconciliation endpoint.
type GoogleHandler struct {
	google   *identity.GoogleProvider
	accounts *identity.LocalProvider
	auth     *service.AuthService
	logger   *slog.Logger
}

func NewGoogleHandler(
	google *identity.GoogleProvider,
	accounts *identity.LocalProvider,
	auth *service.AuthService,
	logger *slog.Logger,
) *GoogleHandler {
	return &GoogleHandler{
		google:   google,
		accounts: accounts,
		auth:     auth,
		logger:   logger,
	}
}

// HandleLogin redirects the browser to Google's consent page.
//
// HTTP: GET /auth/google/login
//
// The random state value is stored in a short-lived HttpOnly cookie and
// checked again on callback, which ties the callback to a flow this server
// started.
func (h *GoogleHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	state := xid.New().String()

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		MaxAge:   600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.google.AuthURL(state), http.StatusTemporaryRedirect)
}

// HandleCallback completes the OAuth flow: it checks the state, exchanges
// the code for the Google profile, upserts the local account, ensures a
// wardrobe profile exists, and returns the session as JSON.
//
// HTTP: GET /auth/google/callback?code=xxx&state=yyy
func (h *GoogleHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		h.logger.Warn("oauth callback: state check failed")
		http.Error(w, "invalid OAuth state", http.StatusBadRequest)
		return
	}

	// Single-use: clear the state cookie before anything else.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	if errParam := r.URL.Query().Get("error"); errParam != "" {
		h.logger.Info("oauth callback: consent denied", "error", errParam)
		http.Error(w, "authorization denied", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "missing OAuth code", http.StatusBadRequest)
		return
	}

	gu, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth callback: code exchange failed", "error", err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	ident, session, err := h.accounts.SignInWithGoogle(r.Context(), gu)
	if err != nil {
		h.logger.Error("oauth callback: account upsert failed", "email", gu.Email, "error", err)
		http.Error(w, "authentication failed", http.StatusInternalServerError)
		return
	}

	profile, err := h.auth.ReconcileOAuth(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}

	h.logger.Info("user authenticated via Google", "userID", ident.ID, "email", ident.Email)

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    ident,
		"session": session,
		"profile": profile,
		"message": "OAuth authentication successful",
	})
}
