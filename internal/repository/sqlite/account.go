package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/repository"
)

// compile-time check that *DB implements repository.AccountRepository
var _ repository.AccountRepository = (*DB)(nil)

// Create inserts a new account. A duplicate email yields apperror.ErrConflict.
func (db *DB) Create(ctx context.Context, account *model.Account) error {
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO accounts (id, email, password_hash, full_name, avatar_url, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		account.ID,
		account.Email,
		account.PasswordHash,
		account.FullName,
		account.AvatarURL,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return apperror.Conflict("account", account.Email)
		}
		return fmt.Errorf("sqlite: inserting account %s: %w", account.Email, err)
	}
	return nil
}

// GetByID retrieves an account by id. Returns apperror.ErrNotFound if absent.
func (db *DB) GetByID(ctx context.Context, id string) (*model.Account, error) {
	return db.getAccount(ctx, `WHERE id = ?`, id)
}

// GetByEmail retrieves an account by email. Returns apperror.ErrNotFound if
// absent.
func (db *DB) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	return db.getAccount(ctx, `WHERE email = ?`, email)
}

// UpsertByEmail creates the account on first OAuth login; on later logins it
// keeps the existing id and password hash and refreshes the provider
// metadata. The caller's struct is updated in place with the canonical row.
func (db *DB) UpsertByEmail(ctx context.Context, account *model.Account) error {
	existing, err := db.GetByEmail(ctx, account.Email)
	switch {
	case err == nil:
		existing.FullName = account.FullName
		existing.AvatarURL = account.AvatarURL
		existing.UpdatedAt = time.Now()
		_, err = db.conn.ExecContext(ctx,
			`UPDATE accounts SET full_name = ?, avatar_url = ?, updated_at = ? WHERE id = ?`,
			existing.FullName, existing.AvatarURL, existing.UpdatedAt, existing.ID,
		)
		if err != nil {
			return fmt.Errorf("sqlite: updating account %s: %w", existing.ID, err)
		}
		*account = *existing
		return nil

	case errors.Is(err, apperror.ErrNotFound):
		return db.Create(ctx, account)

	default:
		return err
	}
}

func (db *DB) getAccount(ctx context.Context, where string, arg any) (*model.Account, error) {
	var a model.Account

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, email, password_hash, full_name, avatar_url, created_at, updated_at
		 FROM accounts `+where, arg,
	).Scan(
		&a.ID,
		&a.Email,
		&a.PasswordHash,
		&a.FullName,
		&a.AvatarURL,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("account", fmt.Sprint(arg))
		}
		return nil, fmt.Errorf("sqlite: getting account: %w", err)
	}
	return &a, nil
}
