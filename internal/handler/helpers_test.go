package handler_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/identity"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/service"
)

// Handler tests assemble real services over in-memory fakes, so each test
// exercises the full decode → policy → respond path without a backend.

type fakeProfileRepo struct {
	profiles  map[string]*model.Profile
	getErr    error
	insertErr error
	updateErr error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (f *fakeProfileRepo) Get(ctx context.Context, userID string) (*model.Profile, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, apperror.NotFound("profile", userID)
	}
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) Insert(ctx context.Context, profile *model.Profile) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if _, ok := f.profiles[profile.ID]; ok {
		return apperror.Conflict("profile", profile.ID)
	}
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	copied := *profile
	f.profiles[profile.ID] = &copied
	return nil
}

func (f *fakeProfileRepo) Update(ctx context.Context, userID string, fields map[string]any) (*model.Profile, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	p, ok := f.profiles[userID]
	if !ok {
		return nil, errors.New("no rows updated")
	}
	if v, ok := fields["display_name"].(string); ok {
		p.DisplayName = v
	}
	if v, ok := fields["location"].(string); ok {
		p.Location = v
	}
	if v, ok := fields["sass_level"]; ok {
		switch n := v.(type) {
		case int:
			p.SassLevel = n
		case float64:
			p.SassLevel = int(n)
		}
	}
	p.UpdatedAt = time.Now()
	copied := *p
	return &copied, nil
}

func (f *fakeProfileRepo) Ping(ctx context.Context) error { return nil }

// fakeIdentityService resolves one known bearer token and accepts one set of
// credentials.
type fakeIdentityService struct {
	token string
	ident *identity.Identity

	email    string
	password string

	signedOut bool
}

func (f *fakeIdentityService) Verify(ctx context.Context, token string) (*identity.Identity, error) {
	if token != f.token {
		return nil, errors.New("invalid JWT")
	}
	return f.ident, nil
}

func (f *fakeIdentityService) SignUp(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, error) {
	if email == f.email {
		return nil, nil, errors.New("User already registered")
	}
	return &identity.Identity{ID: "id-new", Email: email}, testSession(), nil
}

func (f *fakeIdentityService) SignIn(ctx context.Context, email, password string) (*identity.Identity, *identity.Session, error) {
	if email != f.email || password != f.password {
		return nil, nil, errors.New("invalid login credentials")
	}
	return f.ident, testSession(), nil
}

func (f *fakeIdentityService) SignOut(ctx context.Context, token string) error {
	if token != f.token {
		return errors.New("session not found")
	}
	f.signedOut = true
	return nil
}

func testSession() *identity.Session {
	return &identity.Session{AccessToken: "token-abc", TokenType: "bearer", ExpiresIn: 3600}
}

func testIdentityService() *fakeIdentityService {
	return &fakeIdentityService{
		token:    "token-abc",
		ident:    &identity.Identity{ID: "id-123", Email: "ada@example.com"},
		email:    "ada@example.com",
		password: "hunter22",
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testServices(ids identity.Service, repo *fakeProfileRepo) (*service.AuthService, *service.ProfileService) {
	logger := testLogger()
	profiles := service.NewProfileService(repo, logger)
	return service.NewAuthService(ids, profiles, logger), profiles
}
