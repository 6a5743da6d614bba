package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
)

func createTestAccount(t *testing.T, db *DB, id, email string) *model.Account {
	t.Helper()
	account := &model.Account{
		ID:           id,
		Email:        email,
		PasswordHash: "$2a$04$fakehash",
	}
	if err := db.Create(context.Background(), account); err != nil {
		t.Fatalf("failed to create test account: %v", err)
	}
	return account
}

func TestAccountCreateAndGet(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "acc-1", "ada@example.com")

	byID, err := db.GetByID(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if byID.Email != "ada@example.com" || byID.PasswordHash != "$2a$04$fakehash" {
		t.Errorf("got %+v", byID)
	}

	byEmail, err := db.GetByEmail(context.Background(), "ada@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if byEmail.ID != "acc-1" {
		t.Errorf("ID = %q", byEmail.ID)
	}
}

func TestAccountGet_NotFound(t *testing.T) {
	db := newTestDB(t)

	if _, err := db.GetByID(context.Background(), "ghost"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByID() error = %v, want not-found", err)
	}
	if _, err := db.GetByEmail(context.Background(), "ghost@example.com"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetByEmail() error = %v, want not-found", err)
	}
}

func TestAccountCreate_DuplicateEmailIsConflict(t *testing.T) {
	db := newTestDB(t)
	createTestAccount(t, db, "acc-1", "ada@example.com")

	err := db.Create(context.Background(), &model.Account{ID: "acc-2", Email: "ada@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Create() error = %v, want conflict", err)
	}
}

func TestAccountUpsertByEmail(t *testing.T) {
	db := newTestDB(t)

	t.Run("creates on first login", func(t *testing.T) {
		account := &model.Account{ID: "acc-1", Email: "ada@example.com", FullName: "Ada"}
		if err := db.UpsertByEmail(context.Background(), account); err != nil {
			t.Fatalf("UpsertByEmail() error = %v", err)
		}

		stored, err := db.GetByEmail(context.Background(), "ada@example.com")
		if err != nil {
			t.Fatalf("GetByEmail() error = %v", err)
		}
		if stored.FullName != "Ada" {
			t.Errorf("FullName = %q", stored.FullName)
		}
	})

	t.Run("keeps id and password, refreshes metadata", func(t *testing.T) {
		// Simulate a user who also has a password set.
		if _, err := db.conn.Exec(`UPDATE accounts SET password_hash = 'secret-hash' WHERE id = 'acc-1'`); err != nil {
			t.Fatalf("seeding password: %v", err)
		}

		account := &model.Account{ID: "acc-other", Email: "ada@example.com", FullName: "Ada Lovelace", AvatarURL: "https://img/ada.png"}
		if err := db.UpsertByEmail(context.Background(), account); err != nil {
			t.Fatalf("UpsertByEmail() error = %v", err)
		}

		// The caller's struct now carries the canonical row.
		if account.ID != "acc-1" {
			t.Errorf("ID = %q, want the existing id", account.ID)
		}
		if account.PasswordHash != "secret-hash" {
			t.Errorf("PasswordHash = %q, want preserved", account.PasswordHash)
		}
		if account.FullName != "Ada Lovelace" || account.AvatarURL == "" {
			t.Errorf("metadata not refreshed: %+v", account)
		}
	})
}
