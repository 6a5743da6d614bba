// Package sqlite implements the repository ports on an embedded SQLite
// database. It backs the embedded (no hosted project configured) mode and the
// repository tests, which run against ":memory:".
//
// modernc.org/sqlite is a pure-Go translation of SQLite — no CGo, no C
// toolchain, cross-compiles anywhere Go does.
package sqlite

import (
	"database/sql"
	"fmt"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements
// repository.ProfileRepository and repository.AccountRepository.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL lets reads proceed while a write is in flight; the server handles
	// concurrent requests against this one file.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}
	return db, nil
}

// Close closes the connection pool. Callers should defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	// Profiles are keyed by the identity's user id. The PRIMARY KEY is what
	// makes concurrent create-if-absent safe: the second insert loses and the
	// caller re-reads the winner's row.
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS user_profiles (
			id                    TEXT PRIMARY KEY,
			email                 TEXT NOT NULL DEFAULT '',
			display_name          TEXT NOT NULL DEFAULT '',
			avatar_url            TEXT NOT NULL DEFAULT '',
			body_type             TEXT NOT NULL DEFAULT '',
			height_cm             INTEGER NOT NULL DEFAULT 0,
			weight_kg             INTEGER NOT NULL DEFAULT 0,
			gender_style          TEXT NOT NULL DEFAULT '',
			notes                 TEXT NOT NULL DEFAULT 'null',
			typical_schedule      TEXT NOT NULL DEFAULT 'null',
			default_occasions     TEXT NOT NULL DEFAULT 'null',
			works_from_home       INTEGER NOT NULL DEFAULT 0,
			has_dress_code        INTEGER NOT NULL DEFAULT 0,
			dress_code_notes      TEXT NOT NULL DEFAULT '',
			sass_level            INTEGER NOT NULL DEFAULT 3,
			location              TEXT NOT NULL DEFAULT '',
			body_reference_photos TEXT NOT NULL DEFAULT 'null',
			created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating user_profiles table: %w", err)
	}

	// Embedded-mode login accounts. email is UNIQUE — one account per address.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS accounts (
			id            TEXT PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			full_name     TEXT NOT NULL DEFAULT '',
			avatar_url    TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating accounts table: %w", err)
	}

	return nil
}
