package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
)

// newTestDB opens a fresh in-memory database per test. ":memory:" is fast,
// isolated, and destroyed when the connection closes.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func insertTestProfile(t *testing.T, db *DB, id string) *model.Profile {
	t.Helper()
	profile := &model.Profile{
		ID:          id,
		Email:       id + "@example.com",
		DisplayName: "Ada",
		SassLevel:   model.DefaultSassLevel,
	}
	if err := db.Insert(context.Background(), profile); err != nil {
		t.Fatalf("failed to insert test profile: %v", err)
	}
	return profile
}

// =========================================================================
// INSERT / GET TESTS
// =========================================================================

func TestProfileInsertAndGet(t *testing.T) {
	db := newTestDB(t)

	inserted := &model.Profile{
		ID:          "user-1",
		Email:       "ada@example.com",
		DisplayName: "Ada",
		HeightCm:    168,
		GenderStyle: "unisex",
		Notes:       []string{"prefers natural fibres"},
		TypicalSchedule: map[string]any{
			"monday": "office",
		},
		DefaultOccasions:    []string{"work", "casual"},
		WorksFromHome:       true,
		SassLevel:           4,
		Location:            "London",
		BodyReferencePhotos: []string{"https://img/1.jpg"},
	}
	if err := db.Insert(context.Background(), inserted); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := db.Get(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}

	if got.Email != "ada@example.com" || got.DisplayName != "Ada" {
		t.Errorf("got %+v", got)
	}
	if got.HeightCm != 168 || got.SassLevel != 4 {
		t.Errorf("numeric columns: height=%d sass=%d", got.HeightCm, got.SassLevel)
	}
	if !got.WorksFromHome || got.HasDressCode {
		t.Errorf("bool columns: wfh=%v dressCode=%v", got.WorksFromHome, got.HasDressCode)
	}
	if len(got.Notes) != 1 || got.Notes[0] != "prefers natural fibres" {
		t.Errorf("Notes = %v", got.Notes)
	}
	if got.TypicalSchedule["monday"] != "office" {
		t.Errorf("TypicalSchedule = %v", got.TypicalSchedule)
	}
	if len(got.DefaultOccasions) != 2 || got.DefaultOccasions[0] != "work" {
		t.Errorf("DefaultOccasions = %v", got.DefaultOccasions)
	}
	if len(got.BodyReferencePhotos) != 1 {
		t.Errorf("BodyReferencePhotos = %v", got.BodyReferencePhotos)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Error("timestamps were not set")
	}
}

func TestProfileGet_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Get(context.Background(), "ghost")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("Get() error = %v, want not-found", err)
	}
}

func TestProfileInsert_DuplicateIDIsConflict(t *testing.T) {
	db := newTestDB(t)
	insertTestProfile(t, db, "user-1")

	err := db.Insert(context.Background(), &model.Profile{ID: "user-1", Email: "other@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("Insert() error = %v, want conflict", err)
	}
}

// =========================================================================
// UPDATE TESTS
// =========================================================================

func TestProfileUpdate(t *testing.T) {
	db := newTestDB(t)
	insertTestProfile(t, db, "user-1")

	// Values arrive as JSON-decoded types: float64 numbers, []any slices.
	updated, err := db.Update(context.Background(), "user-1", map[string]any{
		"display_name":      "Countess",
		"sass_level":        float64(5),
		"works_from_home":   true,
		"default_occasions": []any{"formal", "party"},
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if updated.DisplayName != "Countess" {
		t.Errorf("DisplayName = %q", updated.DisplayName)
	}
	if updated.SassLevel != 5 {
		t.Errorf("SassLevel = %d", updated.SassLevel)
	}
	if !updated.WorksFromHome {
		t.Error("WorksFromHome = false")
	}
	if len(updated.DefaultOccasions) != 2 || updated.DefaultOccasions[0] != "formal" {
		t.Errorf("DefaultOccasions = %v", updated.DefaultOccasions)
	}
	// Untouched columns keep their values.
	if updated.Email != "user-1@example.com" {
		t.Errorf("Email = %q, want untouched", updated.Email)
	}
}

func TestProfileUpdate_MissingRow(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Update(context.Background(), "ghost", map[string]any{"display_name": "X"})
	if err == nil {
		t.Fatal("Update() succeeded for a missing row")
	}
}

func TestProfilePing(t *testing.T) {
	db := newTestDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}
