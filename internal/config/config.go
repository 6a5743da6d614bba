// Package config loads runtime configuration from the environment.
//
// A local .env file is honoured when present so developers don't have to
// export a dozen variables by hand; real environment variables always win
// because godotenv never overwrites existing values.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Mode says which identity/storage backend the server runs against.
type Mode string

const (
	// ModeHosted delegates auth and profile storage to a hosted Supabase
	// project (SUPABASE_URL + SUPABASE_KEY).
	ModeHosted Mode = "hosted"
	// ModeEmbedded manages accounts locally: sqlite storage, bcrypt
	// passwords, self-issued JWTs (JWT_SECRET).
	ModeEmbedded Mode = "embedded"
	// ModeUnconfigured registers only the public routes. Auth and profile
	// endpoints are absent and the health probe reports the store as not
	// configured.
	ModeUnconfigured Mode = "unconfigured"
)

// Config holds everything the server needs to start.
type Config struct {
	Port     int
	LogLevel slog.Level

	// Hosted backend.
	SupabaseURL string
	SupabaseKey string

	// Embedded backend.
	JWTSecret string
	DBPath    string

	// Optional Google OAuth for the embedded backend.
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	cfg := Config{
		Port:               8000,
		LogLevel:           slog.LevelInfo,
		SupabaseURL:        os.Getenv("SUPABASE_URL"),
		SupabaseKey:        os.Getenv("SUPABASE_KEY"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		DBPath:             "data/wardrobe.db",
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("config: invalid PORT %q: %w", portStr, err)
		}
		cfg.Port = port
	}

	if envDB := os.Getenv("DB_PATH"); envDB != "" {
		cfg.DBPath = envDB
	}

	if levelStr := os.Getenv("LOG_LEVEL"); levelStr != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(levelStr)); err != nil {
			return Config{}, fmt.Errorf("config: invalid LOG_LEVEL %q: %w", levelStr, err)
		}
		cfg.LogLevel = level
	}

	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = fmt.Sprintf("http://localhost:%d/auth/google/callback", cfg.Port)
	}

	if (cfg.SupabaseURL == "") != (cfg.SupabaseKey == "") {
		return Config{}, fmt.Errorf("config: SUPABASE_URL and SUPABASE_KEY must be set together")
	}

	return cfg, nil
}

// Mode derives the backend mode from which credentials are present. A hosted
// project takes precedence when both sets are configured.
func (c Config) Mode() Mode {
	switch {
	case c.SupabaseURL != "" && c.SupabaseKey != "":
		return ModeHosted
	case c.JWTSecret != "":
		return ModeEmbedded
	default:
		return ModeUnconfigured
	}
}

// GoogleEnabled reports whether the embedded Google OAuth flow can run.
func (c Config) GoogleEnabled() bool {
	return c.Mode() == ModeEmbedded && c.GoogleClientID != "" && c.GoogleClientSecret != ""
}
