// Package service holds the business logic between the HTTP handlers and the
// identity/storage adapters.
//
//	handlers (HTTP) → services (rules) → identity.Service / repositories
//
// Services know nothing about HTTP; they return apperror values and the
// handler layer maps those to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/repository"
	"github.com/amira/wardrobe-api/internal/taxonomy"
)

// ProfileService implements the profile policy: lazy creation with defaults,
// the write allowlist, field validation against the taxonomy, and the
// onboarding derivation.
type ProfileService struct {
	profiles repository.ProfileRepository
	logger   *slog.Logger
}

func NewProfileService(profiles repository.ProfileRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, logger: logger}
}

// Fetch returns the profile for userID. Absence surfaces as
// apperror.ErrNotFound; callers decide whether that matters (login treats it
// as "not onboarded yet", GET /me treats it as a 404).
func (s *ProfileService) Fetch(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, apperror.Persistence("fetch user profile", err)
	}
	return profile, nil
}

// CreateIfAbsent returns the existing profile for userID, or creates one.
//
// Creation defaults: display name falls back to the email local-part when
// empty; sass level starts at model.DefaultSassLevel; everything else stays
// empty. The operation is idempotent — a concurrent create losing the insert
// race re-reads the winner's row (the store's key constraint guarantees there
// is exactly one).
func (s *ProfileService) CreateIfAbsent(ctx context.Context, userID, email, displayName, avatarURL string) (*model.Profile, error) {
	existing, err := s.profiles.Get(ctx, userID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, apperror.Persistence("fetch user profile", err)
	}

	if displayName == "" {
		displayName, _, _ = strings.Cut(email, "@")
	}

	profile := &model.Profile{
		ID:          userID,
		Email:       email,
		DisplayName: displayName,
		AvatarURL:   avatarURL,
		SassLevel:   model.DefaultSassLevel,
	}

	if err := s.profiles.Insert(ctx, profile); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// lost a create race — the row exists now, return it
			return s.Fetch(ctx, userID)
		}
		return nil, apperror.Persistence("create user profile", err)
	}

	s.logger.Info("profile created",
		slog.String("userID", userID),
		slog.String("displayName", profile.DisplayName),
	)
	return profile, nil
}

// Update applies a partial profile update.
//
// The requested fields pass through the fixed allowlist first — disallowed
// keys are dropped silently, and an update left empty by the filter fails
// with a validation error before any store call. Allowlisted values are then
// checked against the taxonomy where a vocabulary exists.
func (s *ProfileService) Update(ctx context.Context, userID string, requested map[string]any) (*model.Profile, error) {
	fields := model.FilterUpdate(requested)
	if len(fields) == 0 {
		return nil, apperror.NoFieldsToUpdate()
	}

	if err := validateUpdate(fields); err != nil {
		return nil, err
	}

	profile, err := s.profiles.Update(ctx, userID, fields)
	if err != nil {
		return nil, apperror.Persistence("update profile", err)
	}

	s.logger.Info("profile updated",
		slog.String("userID", userID),
		slog.Int("fields", len(fields)),
	)
	return profile, nil
}

// OnboardingSteps reports which onboarding steps a user has completed.
type OnboardingSteps struct {
	DisplayName bool `json:"display_name"`
	BodyPhotos  bool `json:"body_photos"`
	Preferences bool `json:"preferences"`
}

// OnboardingStatus is the derived onboarding state. Completed requires only
// the display-name step — the weakest gate, deliberately.
type OnboardingStatus struct {
	Completed bool            `json:"completed"`
	Steps     OnboardingSteps `json:"steps"`
	Profile   *model.Profile  `json:"profile,omitempty"`
}

// OnboardingStatus derives the onboarding booleans from the profile. A
// missing profile is not an error: every step is simply incomplete.
func (s *ProfileService) OnboardingStatus(ctx context.Context, userID string) (*OnboardingStatus, error) {
	profile, err := s.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return &OnboardingStatus{}, nil
		}
		return nil, apperror.Persistence("fetch user profile", err)
	}

	steps := OnboardingSteps{
		DisplayName: profile.DisplayName != "",
		BodyPhotos:  len(profile.BodyReferencePhotos) > 0,
		Preferences: profile.GenderStyle != "" || profile.Location != "",
	}

	return &OnboardingStatus{
		Completed: steps.DisplayName,
		Steps:     steps,
		Profile:   profile,
	}, nil
}

// validateUpdate checks allowlisted values against their vocabularies:
// sass_level bounds, gender_style membership, and default_occasions against
// the occasion tag group. Fields without a vocabulary pass through untouched.
func validateUpdate(fields map[string]any) error {
	if v, ok := fields["sass_level"]; ok {
		n, ok := intValue(v)
		if !ok {
			return apperror.ValidationFailed("sass_level", "sass_level must be an integer")
		}
		if n < model.MinSassLevel || n > model.MaxSassLevel {
			return apperror.ValidationFailed("sass_level",
				fmt.Sprintf("sass_level must be between %d and %d", model.MinSassLevel, model.MaxSassLevel))
		}
	}

	if v, ok := fields["gender_style"]; ok {
		s, ok := v.(string)
		if !ok || !taxonomy.IsValidGenderStyle(s) {
			return apperror.ValidationFailed("gender_style",
				fmt.Sprintf("gender_style must be one of: %s", strings.Join(taxonomy.GenderStyles(), ", ")))
		}
	}

	if v, ok := fields["default_occasions"]; ok {
		occasions, ok := stringSlice(v)
		if !ok {
			return apperror.ValidationFailed("default_occasions", "default_occasions must be a list of strings")
		}
		valid := make(map[string]struct{})
		for _, tag := range taxonomy.TagsInGroup("occasion") {
			valid[tag] = struct{}{}
		}
		for _, occ := range occasions {
			if _, ok := valid[occ]; !ok {
				return apperror.ValidationFailed("default_occasions",
					fmt.Sprintf("%q is not a known occasion tag", occ))
			}
		}
	}

	return nil
}

// intValue accepts the integer encodings an update can arrive with: native
// ints from Go callers, float64 from JSON decoding.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != float64(int(n)) {
			return 0, false
		}
		return int(n), true
	default:
		return 0, false
	}
}

// stringSlice accepts []string from Go callers and []any from JSON decoding.
func stringSlice(v any) ([]string, bool) {
	switch vs := v.(type) {
	case []string:
		return vs, true
	case []any:
		out := make([]string, 0, len(vs))
		for _, item := range vs {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}
