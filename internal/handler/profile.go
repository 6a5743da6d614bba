package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/service"
)

// ProfileHandler owns the profile endpoints. All of them sit behind
// RequireUser, so the verified identity is always in the request context.
type ProfileHandler struct {
	profiles *service.ProfileService
	logger   *slog.Logger
}

func NewProfileHandler(profiles *service.ProfileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, logger: logger}
}

// HandleGetMe returns the caller's identity and profile.
//
// HTTP: GET /api/auth/me (bearer)
// 404 when the profile has not been created yet.
func (h *ProfileHandler) HandleGetMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	profile, err := h.profiles.Fetch(r.Context(), ident.ID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			writeError(w, apperror.NotFound("profile", ident.ID))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    ident,
		"profile": profile,
	})
}

// HandleUpdateMe applies a partial profile update.
//
// HTTP: PATCH /api/auth/me (bearer)
//
// The body is decoded as a plain JSON object. Explicit nulls are stripped
// before the update — "field": null means "leave it alone", matching the
// original API's exclude-none semantics. Key filtering (the allowlist) is the
// service's job, so a payload of nothing but disallowed keys still reaches it
// and fails with the proper validation error.
func (h *ProfileHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	var requested map[string]any
	if err := json.NewDecoder(r.Body).Decode(&requested); err != nil {
		writeError(w, apperror.ValidationFailed("", "invalid JSON body"))
		return
	}

	for k, v := range requested {
		if v == nil {
			delete(requested, k)
		}
	}

	profile, err := h.profiles.Update(r.Context(), ident.ID, requested)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"profile": profile,
		"message": "Profile updated successfully",
	})
}

// HandleOnboardingStatus reports which onboarding steps are complete.
//
// HTTP: GET /api/auth/onboarding-status (bearer)
// A user without a profile gets all-false steps, not an error.
func (h *ProfileHandler) HandleOnboardingStatus(w http.ResponseWriter, r *http.Request) {
	ident, ok := identity.FromContext(r.Context())
	if !ok {
		writeError(w, apperror.Unauthorized("missing bearer token"))
		return
	}

	status, err := h.profiles.OnboardingStatus(r.Context(), ident.ID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, status)
}
