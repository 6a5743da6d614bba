package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/model"
)

// AuthService orchestrates the identity provider and the profile store:
// signup and OAuth logins must leave a profile behind, logins must not reveal
// why they failed.
type AuthService struct {
	ids      identity.Service
	profiles *ProfileService
	logger   *slog.Logger
}

func NewAuthService(ids identity.Service, profiles *ProfileService, logger *slog.Logger) *AuthService {
	return &AuthService{ids: ids, profiles: profiles, logger: logger}
}

// AuthResult bundles what the auth endpoints return: the provider's identity,
// the issued session (nil when the provider withheld one, e.g. signup with
// email confirmation), and the application profile (nil when not yet
// created).
type AuthResult struct {
	User    *identity.Identity `json:"user"`
	Session *identity.Session  `json:"session"`
	Profile *model.Profile     `json:"profile"`
}

// Signup registers a new user with the identity provider, then creates the
// application profile. The provider's rejection reason is surfaced verbatim —
// "already registered" and "weak password" are actionable for the caller.
//
// Identity creation and profile creation are not transactional: if the
// profile insert fails, the identity still exists. That state is accepted —
// the next OAuth callback or signup attempt repairs it via create-if-absent.
func (s *AuthService) Signup(ctx context.Context, email, password, displayName string) (*AuthResult, error) {
	ident, session, err := s.ids.SignUp(ctx, email, password)
	if err != nil {
		return nil, apperror.SignupRejected(err.Error())
	}

	profile, err := s.profiles.CreateIfAbsent(ctx, ident.ID, email, displayName, "")
	if err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", slog.String("userID", ident.ID))
	return &AuthResult{User: ident, Session: session, Profile: profile}, nil
}

// Login performs the password check. Every failure — unknown email, wrong
// password, provider error — collapses into the same generic rejection so
// the response cannot be used to probe which addresses are registered.
//
// A missing profile is not a failure: the user may have authenticated before
// ever completing onboarding. The result carries a nil profile in that case.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	ident, session, err := s.ids.SignIn(ctx, email, password)
	if err != nil {
		s.logger.Info("login rejected", slog.String("email", email))
		return nil, apperror.InvalidCredentials()
	}

	profile, err := s.profiles.Fetch(ctx, ident.ID)
	if err != nil {
		if !errors.Is(err, apperror.ErrNotFound) {
			// Profile store trouble must not block a valid login.
			s.logger.Warn("profile fetch failed during login",
				slog.String("userID", ident.ID),
				slog.String("error", err.Error()),
			)
		}
		profile = nil
	}

	s.logger.Info("user logged in", slog.String("userID", ident.ID))
	return &AuthResult{User: ident, Session: session, Profile: profile}, nil
}

// Logout revokes the session behind the given access token. Provider errors
// surface with their message; the caller maps them to a 400.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if err := s.ids.SignOut(ctx, token); err != nil {
		return apperror.ValidationFailed("", err.Error())
	}
	return nil
}

// ReconcileOAuth ensures a profile exists for an identity that authenticated
// through an OAuth provider on the frontend. The provider metadata's full
// name and avatar seed the profile on first login; on later logins the
// existing profile is returned untouched.
func (s *AuthService) ReconcileOAuth(ctx context.Context, ident *identity.Identity) (*model.Profile, error) {
	if ident == nil || ident.ID == "" {
		return nil, apperror.Unauthorized("no verified identity")
	}

	return s.profiles.CreateIfAbsent(ctx,
		ident.ID,
		ident.Email,
		ident.MetadataString("full_name"),
		ident.MetadataString("avatar_url"),
	)
}
