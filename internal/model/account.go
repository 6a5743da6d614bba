package model

import "time"

// Account is an embedded-mode login record. In hosted mode accounts live in
// the external identity service and this type is unused; the embedded
// provider stores them locally so development and tests need no network.
//
// FullName and AvatarURL are provider metadata (populated by OAuth logins),
// not profile fields — the Profile record is still created separately, lazily,
// on first login.
type Account struct {
	ID           string    `json:"id"        db:"id"`
	Email        string    `json:"email"     db:"email"`
	PasswordHash string    `json:"-"         db:"password_hash"` // empty for OAuth-only accounts
	FullName     string    `json:"fullName"  db:"full_name"`
	AvatarURL    string    `json:"avatarUrl" db:"avatar_url"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
