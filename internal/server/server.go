// Package server wires handlers, middleware, and routes into one HTTP server.
//
// This is the composition root: every dependency chain is assembled in New
// and setupRoutes, nowhere else. Which chains get built depends on the
// configured backend mode:
//
//   - hosted: Supabase GoTrue verifies tokens, PostgREST stores profiles
//   - embedded: sqlite accounts, bcrypt passwords, self-issued JWTs
//   - unconfigured: only the public routes (greeting, health, taxonomy)
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/amira/wardrobe-api/internal/config"
	"github.com/amira/wardrobe-api/internal/handler"
	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/middleware"
	"github.com/amira/wardrobe-api/internal/repository"
	"github.com/amira/wardrobe-api/internal/repository/postgrest"
	sqliteRepo "github.com/amira/wardrobe-api/internal/repository/sqlite"
	"github.com/amira/wardrobe-api/internal/service"
)

// Version is reported by /api/health.
const Version = "1.0.0"

// Server owns the router and, in embedded mode, the sqlite handle that must
// be closed on shutdown.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB // nil unless running embedded
}

// New assembles the dependency graph for the configured mode.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.setupRoutes(); err != nil {
		if s.db != nil {
			s.db.Close()
		}
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// Backend-specific pieces. ids/profiles stay nil when unconfigured,
	// which keeps the auth and profile routes off the router entirely.
	var (
		ids      identity.Service
		profiles repository.ProfileRepository
		store    handler.Pinger
		local    *identity.LocalProvider
	)

	switch mode := s.config.Mode(); mode {
	case config.ModeHosted:
		supa := identity.NewSupabaseClient(s.config.SupabaseURL, s.config.SupabaseKey)
		ids = supa
		profiles = postgrest.New(s.config.SupabaseURL, s.config.SupabaseKey)
		store = supa
		s.logger.Info("backend mode", slog.String("mode", string(mode)),
			slog.String("url", s.config.SupabaseURL))

	case config.ModeEmbedded:
		db, err := sqliteRepo.New(s.config.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		s.db = db

		tokens, err := identity.NewTokenService(s.config.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		local = identity.NewLocalProvider(db, tokens, identity.NewPasswordService(), s.logger)

		ids = local
		profiles = db
		store = db
		s.logger.Info("backend mode", slog.String("mode", string(mode)),
			slog.String("database", s.config.DBPath))

	default:
		s.logger.Warn("no identity backend configured, auth routes disabled")
	}

	healthHandler := handler.NewHealthHandler(store, Version, s.logger)
	s.router.Get("/", healthHandler.HandleRoot)

	taxonomyHandler := handler.NewTaxonomyHandler()

	var (
		profileService *service.ProfileService
		authService    *service.AuthService
	)
	if ids != nil {
		profileService = service.NewProfileService(profiles, s.logger)
		authService = service.NewAuthService(ids, profileService, s.logger)
	}

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/health", healthHandler.HandleHealth)

		r.Get("/categories", taxonomyHandler.HandleListCategories)
		r.Get("/categories/{category}", taxonomyHandler.HandleGetCategory)
		r.Get("/tags", taxonomyHandler.HandleListTags)
		r.Get("/tags/{group}", taxonomyHandler.HandleGetTagGroup)

		if ids == nil {
			return
		}

		authHandler := handler.NewAuthHandler(authService, s.logger)
		profileHandler := handler.NewProfileHandler(profileService, s.logger)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", authHandler.HandleSignup)
			r.Post("/login", authHandler.HandleLogin)

			// Routes below require a verified bearer token.
			r.Group(func(r chi.Router) {
				r.Use(identity.RequireUser(ids))
				r.Post("/logout", authHandler.HandleLogout)
				r.Post("/oauth/callback", authHandler.HandleOAuthCallback)
				r.Get("/me", profileHandler.HandleGetMe)
				r.Patch("/me", profileHandler.HandleUpdateMe)
				r.Get("/onboarding-status", profileHandler.HandleOnboardingStatus)
			})
		})
	})

	// Browser-facing Google OAuth, only when the embedded backend has
	// client credentials.
	if local != nil && s.config.GoogleEnabled() {
		google := identity.NewGoogleProvider(
			s.config.GoogleClientID,
			s.config.GoogleClientSecret,
			s.config.GoogleCallbackURL,
		)
		googleHandler := handler.NewGoogleHandler(google, local, authService, s.logger)

		s.router.Get("/auth/google/login", googleHandler.HandleLogin)
		s.router.Get("/auth/google/callback", googleHandler.HandleCallback)
		s.logger.Info("Google OAuth enabled",
			slog.String("callback", s.config.GoogleCallbackURL))
	}

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, wait up to 30 seconds for in-flight requests,
// close the database.
func (s *Server) Start() error {
	if s.db != nil {
		defer s.db.Close()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("mode", string(s.config.Mode())),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}

// Router exposes the chi mux for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
