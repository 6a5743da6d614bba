// Package model defines the data structures used throughout the application.
package model

import "time"

// Profile is the application-owned user record, keyed 1:1 by the identity
// service's user id. The identity service owns authentication state; this
// record owns everything the styling frontend needs to know about a person.
//
// JSON tags are snake_case because they double as the wire format and as the
// column names in the hosted store's user_profiles table.
type Profile struct {
	ID          string `json:"id"           db:"id"`    // identity service user id
	Email       string `json:"email"        db:"email"` // copied from the identity at creation
	DisplayName string `json:"display_name" db:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty" db:"avatar_url"`

	// Physical attributes, all optional.
	BodyType string `json:"body_type,omitempty" db:"body_type"`
	HeightCm int    `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg int    `json:"weight_kg,omitempty" db:"weight_kg"`

	// GenderStyle is one of taxonomy.GenderStyles: mens|womens|unisex|all.
	GenderStyle string `json:"gender_style,omitempty" db:"gender_style"`

	// Notes is an ordered sequence of free-form observations.
	Notes []string `json:"notes,omitempty" db:"notes"`

	// TypicalSchedule is a structured mapping, e.g. {"monday": "office", ...}.
	// The shape is client-defined; the backend stores it opaquely.
	TypicalSchedule map[string]any `json:"typical_schedule,omitempty" db:"typical_schedule"`

	// DefaultOccasions holds tags from the "occasion" tag group.
	DefaultOccasions []string `json:"default_occasions,omitempty" db:"default_occasions"`

	WorksFromHome  bool   `json:"works_from_home" db:"works_from_home"`
	HasDressCode   bool   `json:"has_dress_code" db:"has_dress_code"`
	DressCodeNotes string `json:"dress_code_notes,omitempty" db:"dress_code_notes"`

	SassLevel int    `json:"sass_level" db:"sass_level"`
	Location  string `json:"location,omitempty" db:"location"`

	BodyReferencePhotos []string `json:"body_reference_photos,omitempty" db:"body_reference_photos"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// DefaultSassLevel is the sass level assigned to new profiles: how cheeky
// the assistant is allowed to be. Valid levels run 1 through 5.
const DefaultSassLevel = 3

// SassLevel bounds enforced at the update boundary.
const (
	MinSassLevel = 1
	MaxSassLevel = 5
)

// UpdatableFields is the fixed allowlist of profile fields a client may
// mutate. It is the only access-control mechanism on write: anything else in
// an update payload (including "id" and "email") is silently dropped.
var UpdatableFields = map[string]struct{}{
	"display_name":          {},
	"avatar_url":            {},
	"body_type":             {},
	"height_cm":             {},
	"weight_kg":             {},
	"gender_style":          {},
	"notes":                 {},
	"typical_schedule":      {},
	"default_occasions":     {},
	"works_from_home":       {},
	"has_dress_code":        {},
	"dress_code_notes":      {},
	"sass_level":            {},
	"location":              {},
	"body_reference_photos": {},
}

// FilterUpdate returns only the allowlisted entries of a requested update.
// Disallowed keys are dropped, not rejected. Null values are kept here — the
// HTTP layer strips them before the filter runs, so a nil reaching a store
// adapter is a deliberate "clear this field".
func FilterUpdate(requested map[string]any) map[string]any {
	filtered := make(map[string]any, len(requested))
	for k, v := range requested {
		if _, ok := UpdatableFields[k]; ok {
			filtered[k] = v
		}
	}
	return filtered
}
