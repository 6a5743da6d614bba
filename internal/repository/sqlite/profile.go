package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/repository"
)

// compile-time check that *DB implements repository.ProfileRepository
var _ repository.ProfileRepository = (*DB)(nil)

// profileColumns is the canonical column order used by every SELECT, matched
// by scanProfile.
const profileColumns = `id, email, display_name, avatar_url, body_type, height_cm, weight_kg,
	gender_style, notes, typical_schedule, default_occasions, works_from_home,
	has_dress_code, dress_code_notes, sass_level, location, body_reference_photos,
	created_at, updated_at`

// jsonColumns are stored as JSON-encoded TEXT. Slices and maps round-trip
// through encoding/json; everything else is a native SQLite type.
var jsonColumns = map[string]bool{
	"notes":                 true,
	"typical_schedule":      true,
	"default_occasions":     true,
	"body_reference_photos": true,
}

// updateColumnOrder fixes the SET-clause order so generated SQL is
// deterministic (map iteration order is not).
var updateColumnOrder = []string{
	"display_name", "avatar_url", "body_type", "height_cm", "weight_kg",
	"gender_style", "notes", "typical_schedule", "default_occasions",
	"works_from_home", "has_dress_code", "dress_code_notes", "sass_level",
	"location", "body_reference_photos",
}

// Get returns the profile for userID, or apperror.ErrNotFound when absent.
func (db *DB) Get(ctx context.Context, userID string) (*model.Profile, error) {
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM user_profiles WHERE id = ?`, userID)

	profile, err := scanProfile(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("profile", userID)
		}
		return nil, fmt.Errorf("sqlite: getting profile %s: %w", userID, err)
	}
	return profile, nil
}

// Insert creates a new profile row. Duplicate ids yield apperror.ErrConflict.
func (db *DB) Insert(ctx context.Context, p *model.Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	notes, _ := json.Marshal(p.Notes)
	schedule, _ := json.Marshal(p.TypicalSchedule)
	occasions, _ := json.Marshal(p.DefaultOccasions)
	photos, _ := json.Marshal(p.BodyReferencePhotos)

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO user_profiles (`+profileColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.Email,
		p.DisplayName,
		p.AvatarURL,
		p.BodyType,
		p.HeightCm,
		p.WeightKg,
		p.GenderStyle,
		string(notes),
		string(schedule),
		string(occasions),
		boolToInt(p.WorksFromHome),
		boolToInt(p.HasDressCode),
		p.DressCodeNotes,
		p.SassLevel,
		p.Location,
		string(photos),
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") ||
			strings.Contains(err.Error(), "PRIMARY KEY constraint") {
			return apperror.Conflict("profile", p.ID)
		}
		return fmt.Errorf("sqlite: inserting profile %s: %w", p.ID, err)
	}
	return nil
}

// Update applies a partial update. fields is already allowlist-filtered; the
// keys are column names. Returns the updated record, or an error when no row
// matches userID.
func (db *DB) Update(ctx context.Context, userID string, fields map[string]any) (*model.Profile, error) {
	setClauses := make([]string, 0, len(fields)+1)
	args := make([]any, 0, len(fields)+2)

	for _, col := range updateColumnOrder {
		v, ok := fields[col]
		if !ok {
			continue
		}
		arg, err := columnValue(col, v)
		if err != nil {
			return nil, fmt.Errorf("sqlite: encoding %s: %w", col, err)
		}
		setClauses = append(setClauses, col+" = ?")
		args = append(args, arg)
	}
	if len(setClauses) == 0 {
		// The service rejects empty updates before reaching here.
		return nil, fmt.Errorf("sqlite: update with no fields for profile %s", userID)
	}

	setClauses = append(setClauses, "updated_at = ?")
	args = append(args, time.Now())
	args = append(args, userID)

	res, err := db.conn.ExecContext(ctx,
		`UPDATE user_profiles SET `+strings.Join(setClauses, ", ")+` WHERE id = ?`,
		args...,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: updating profile %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, fmt.Errorf("sqlite: no profile row for user %s", userID)
	}

	return db.Get(ctx, userID)
}

// Ping reports store reachability for the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// columnValue converts an update value into a driver-friendly argument.
// JSON columns are encoded to text; JSON numbers (float64) destined for
// INTEGER columns are passed through — SQLite coerces them.
func columnValue(col string, v any) (any, error) {
	if jsonColumns[col] {
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return v, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(row rowScanner) (*model.Profile, error) {
	var (
		p             model.Profile
		notes         string
		schedule      string
		occasions     string
		photos        string
		worksFromHome int
		hasDressCode  int
	)

	err := row.Scan(
		&p.ID,
		&p.Email,
		&p.DisplayName,
		&p.AvatarURL,
		&p.BodyType,
		&p.HeightCm,
		&p.WeightKg,
		&p.GenderStyle,
		&notes,
		&schedule,
		&occasions,
		&worksFromHome,
		&hasDressCode,
		&p.DressCodeNotes,
		&p.SassLevel,
		&p.Location,
		&photos,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.WorksFromHome = worksFromHome != 0
	p.HasDressCode = hasDressCode != 0

	if err := json.Unmarshal([]byte(notes), &p.Notes); err != nil {
		return nil, fmt.Errorf("decoding notes: %w", err)
	}
	if err := json.Unmarshal([]byte(schedule), &p.TypicalSchedule); err != nil {
		return nil, fmt.Errorf("decoding typical_schedule: %w", err)
	}
	if err := json.Unmarshal([]byte(occasions), &p.DefaultOccasions); err != nil {
		return nil, fmt.Errorf("decoding default_occasions: %w", err)
	}
	if err := json.Unmarshal([]byte(photos), &p.BodyReferencePhotos); err != nil {
		return nil, fmt.Errorf("decoding body_reference_photos: %w", err)
	}

	return &p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
