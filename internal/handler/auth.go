package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/service"
)

// AuthHandler owns the authentication endpoints under /api/auth.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type signupRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleSignup registers a new user and creates their profile.
//
// HTTP: POST /api/auth/signup (no auth)
// Body: {"email": ..., "password": ..., "display_name"?: ...}
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, apperror.ValidationFailed("", "email and password are required"))
		return
	}

	result, err := h.auth.Signup(r.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    result.User,
		"session": result.Session,
		"profile": result.Profile,
		"message": "Account created successfully",
	})
}

// HandleLogin checks the password and returns the session. Failures are
// deliberately indistinguishable: same status, same message.
//
// HTTP: POST /api/auth/login (no auth)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    result.User,
		"session": result.Session,
		"profile": result.Profile,
		"message": "Logged in successfully",
	})
}

// HandleLogout revokes the session behind the request's bearer token.
//
// HTTP: POST /api/auth/logout (bearer)
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	token, ok := identity.TokenFromContext(r.Context())
	if !ok {
		// unreachable behind RequireUser; kept for safety
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// HandleOAuthCallback reconciles a profile for an identity that completed
// OAuth on the frontend. The middleware has already verified the token, so
// the identity provider considers this user established; all that may be
// missing is our profile row.
//
// HTTP: POST /api/auth/oauth/callback (bearer)
func (h *AuthHandler) HandleOAuthCallback(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	profile, err := h.auth.ReconcileOAuth(r.Context(), ident)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    ident,
		"profile": profile,
		"message": "OAuth authentication successful",
	})
}
