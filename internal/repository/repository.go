// Package repository defines the storage ports. Adapters live in the
// subpackages: sqlite (embedded mode) and postgrest (hosted mode).
package repository

import (
	"context"

	"github.com/amira/wardrobe-api/internal/model"
)

// ProfileRepository stores user profiles keyed by the identity service's
// user id. Exactly one profile exists per id; the key constraint is enforced
// by the store, which is what makes concurrent create-if-absent safe.
type ProfileRepository interface {
	// Get returns the profile for userID, or apperror.ErrNotFound when no
	// profile has been created yet. Absence is an expected state, not a
	// failure — the caller decides whether it matters.
	Get(ctx context.Context, userID string) (*model.Profile, error)

	// Insert creates a new profile row. A duplicate key yields
	// apperror.ErrConflict so idempotent-create callers can re-read.
	Insert(ctx context.Context, profile *model.Profile) error

	// Update applies a partial update and returns the updated record.
	// fields must already be filtered through the allowlist; keys are column
	// names. Returns an error when no row matches userID.
	Update(ctx context.Context, userID string, fields map[string]any) (*model.Profile, error)

	// Ping reports whether the store is reachable. Used by /api/health.
	Ping(ctx context.Context) error
}

// AccountRepository stores embedded-mode login accounts. Hosted mode has no
// use for it — accounts live in the external identity service there.
type AccountRepository interface {
	// Create inserts a new account. A duplicate email yields
	// apperror.ErrConflict.
	Create(ctx context.Context, account *model.Account) error

	GetByID(ctx context.Context, id string) (*model.Account, error)
	GetByEmail(ctx context.Context, email string) (*model.Account, error)

	// UpsertByEmail creates the account on first OAuth login and refreshes
	// the provider metadata (full name, avatar) on subsequent logins. The
	// password hash is left untouched for existing accounts.
	UpsertByEmail(ctx context.Context, account *model.Account) error
}
