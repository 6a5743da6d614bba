package handler

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports whether the profile store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the root greeting and the readiness probe.
type HealthHandler struct {
	store   Pinger
	version string
	logger  *slog.Logger
}

// NewHealthHandler builds a health handler. store may be nil when the
// service runs without a configured backend; the probe then reports
// "not configured" instead of probing.
func NewHealthHandler(store Pinger, version string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{store: store, version: version, logger: logger}
}

// HandleRoot is the landing greeting.
//
// HTTP: GET /
func (h *HealthHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Shade Fashion API is running!",
		"status":     "healthy",
		"shade_says": "Well, well, well... look who needs fashion advice.",
	})
}

// HandleHealth is the readiness probe. It always answers 200; the body
// carries the database state so orchestrators and humans can tell a
// degraded service from a dead one.
//
// HTTP: GET /api/health
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	database := "not configured"
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.Warn("health probe: store unreachable", "error", err)
			database = "error: " + err.Error()
		} else {
			database = "connected"
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "healthy",
		"database": database,
		"version":  h.version,
	})
}
