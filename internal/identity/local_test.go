package identity

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
)

// fakeAccountRepo is an in-memory repository.AccountRepository.
type fakeAccountRepo struct {
	byID    map[string]*model.Account
	byEmail map[string]*model.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{
		byID:    make(map[string]*model.Account),
		byEmail: make(map[string]*model.Account),
	}
}

func (f *fakeAccountRepo) Create(ctx context.Context, account *model.Account) error {
	if _, ok := f.byEmail[account.Email]; ok {
		return apperror.Conflict("account", account.Email)
	}
	copied := *account
	f.byID[account.ID] = &copied
	f.byEmail[account.Email] = &copied
	return nil
}

func (f *fakeAccountRepo) GetByID(ctx context.Context, id string) (*model.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, apperror.NotFound("account", id)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountRepo) GetByEmail(ctx context.Context, email string) (*model.Account, error) {
	a, ok := f.byEmail[email]
	if !ok {
		return nil, apperror.NotFound("account", email)
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountRepo) UpsertByEmail(ctx context.Context, account *model.Account) error {
	if existing, ok := f.byEmail[account.Email]; ok {
		existing.FullName = account.FullName
		existing.AvatarURL = account.AvatarURL
		*account = *existing
		return nil
	}
	return f.Create(ctx, account)
}

func newTestLocalProvider(t *testing.T) (*LocalProvider, *fakeAccountRepo) {
	t.Helper()
	repo := newFakeAccountRepo()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	provider := NewLocalProvider(repo, newTestTokenService(t), NewPasswordServiceForTest(bcrypt.MinCost), logger)
	return provider, repo
}

// =========================================================================
// SignUp / SignIn TESTS
// =========================================================================

func TestLocalSignUp_IssuesSession(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	ident, session, err := provider.SignUp(context.Background(), "Ada@Example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}
	if ident.Email != "ada@example.com" {
		t.Errorf("Email = %q, want lowercased", ident.Email)
	}
	if session == nil || session.AccessToken == "" {
		t.Fatal("SignUp() issued no session")
	}
	if session.TokenType != "bearer" || session.ExpiresIn != 3600 {
		t.Errorf("session = %+v, want bearer/3600", session)
	}
}

func TestLocalSignUp_Validation(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "hunter22"},
		{"email without at-sign", "not-an-email", "hunter22"},
		{"short password", "ada@example.com", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := provider.SignUp(context.Background(), tt.email, tt.password); err == nil {
				t.Errorf("SignUp(%q, %q) accepted invalid input", tt.email, tt.password)
			}
		})
	}
}

func TestLocalSignUp_DuplicateEmail(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	if _, _, err := provider.SignUp(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("first SignUp() error = %v", err)
	}

	_, _, err := provider.SignUp(context.Background(), "ada@example.com", "different")
	if err == nil {
		t.Fatal("SignUp() accepted a duplicate email")
	}
	if err.Error() != "User already registered" {
		t.Errorf("error = %q, want the registered-user message", err.Error())
	}
}

func TestLocalSignIn_WrongCredentialsAreIndistinguishable(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	if _, _, err := provider.SignUp(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	_, _, unknownEmailErr := provider.SignIn(context.Background(), "ghost@example.com", "hunter22")
	_, _, wrongPasswordErr := provider.SignIn(context.Background(), "ada@example.com", "wrong")

	if unknownEmailErr == nil || wrongPasswordErr == nil {
		t.Fatal("SignIn() accepted bad credentials")
	}
	if unknownEmailErr.Error() != wrongPasswordErr.Error() {
		t.Errorf("errors differ: %q vs %q, responses must not reveal which part was wrong",
			unknownEmailErr.Error(), wrongPasswordErr.Error())
	}
}

func TestLocalSignIn_ThenVerify(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	if _, _, err := provider.SignUp(context.Background(), "ada@example.com", "hunter22"); err != nil {
		t.Fatalf("SignUp() error = %v", err)
	}

	signedUp, session, err := provider.SignIn(context.Background(), "ada@example.com", "hunter22")
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}

	verified, err := provider.Verify(context.Background(), session.AccessToken)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if verified.ID != signedUp.ID {
		t.Errorf("Verify() ID = %q, want %q", verified.ID, signedUp.ID)
	}
}

// =========================================================================
// Google upsert TESTS
// =========================================================================

func TestSignInWithGoogle_FirstLoginCreatesAccount(t *testing.T) {
	provider, repo := newTestLocalProvider(t)

	gu := &GoogleUser{Sub: "g-1", Email: "Ada@Example.com", Name: "Ada Lovelace", Picture: "https://img/ada.png"}
	ident, session, err := provider.SignInWithGoogle(context.Background(), gu)
	if err != nil {
		t.Fatalf("SignInWithGoogle() error = %v", err)
	}
	if session == nil || session.AccessToken == "" {
		t.Fatal("SignInWithGoogle() issued no session")
	}
	if ident.MetadataString("full_name") != "Ada Lovelace" {
		t.Errorf("full_name metadata = %q", ident.MetadataString("full_name"))
	}
	if _, ok := repo.byEmail["ada@example.com"]; !ok {
		t.Error("account was not stored under the lowercased email")
	}
}

func TestSignInWithGoogle_SecondLoginKeepsAccountID(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	gu := &GoogleUser{Sub: "g-1", Email: "ada@example.com", Name: "Ada"}
	first, _, err := provider.SignInWithGoogle(context.Background(), gu)
	if err != nil {
		t.Fatalf("first SignInWithGoogle() error = %v", err)
	}

	gu.Name = "Ada Lovelace"
	second, _, err := provider.SignInWithGoogle(context.Background(), gu)
	if err != nil {
		t.Fatalf("second SignInWithGoogle() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("ID changed across logins: %q vs %q", first.ID, second.ID)
	}
	if second.MetadataString("full_name") != "Ada Lovelace" {
		t.Error("metadata was not refreshed on the second login")
	}
}

func TestSignInWithGoogle_GoogleAccountCannotPasswordLogin(t *testing.T) {
	provider, _ := newTestLocalProvider(t)

	gu := &GoogleUser{Sub: "g-1", Email: "ada@example.com", Name: "Ada"}
	if _, _, err := provider.SignInWithGoogle(context.Background(), gu); err != nil {
		t.Fatalf("SignInWithGoogle() error = %v", err)
	}

	if _, _, err := provider.SignIn(context.Background(), "ada@example.com", "anything"); err == nil {
		t.Fatal("SignIn() succeeded against a passwordless account")
	}
}
