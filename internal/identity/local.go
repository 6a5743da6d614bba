package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/repository"
)

// LocalProvider is the embedded identity provider: accounts in the local
// store, bcrypt password checks, self-issued HS256 session tokens. It serves
// two roles — the development mode when no hosted project is configured, and
// the substitutable adapter that keeps tests off the network.
//
// Sign-out is a stateless no-op here: the access token simply expires. Only
// the hosted provider tracks sessions server-side.
type LocalProvider struct {
	accounts  repository.AccountRepository
	tokens    *TokenService
	passwords *PasswordService
	logger    *slog.Logger
}

var _ Service = (*LocalProvider)(nil)

func NewLocalProvider(
	accounts repository.AccountRepository,
	tokens *TokenService,
	passwords *PasswordService,
	logger *slog.Logger,
) *LocalProvider {
	return &LocalProvider{
		accounts:  accounts,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// Verify resolves a self-issued token back to the account it was minted for.
func (p *LocalProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	accountID, err := p.tokens.Validate(token)
	if err != nil {
		return nil, err
	}

	account, err := p.accounts.GetByID(ctx, accountID)
	if err != nil {
		// Token is valid but the account is gone — treat as unauthenticated.
		return nil, fmt.Errorf("identity: no user for token subject %s", accountID)
	}
	return accountIdentity(account), nil
}

// SignUp registers a new email/password account and issues a session.
// The validation messages match the hosted provider's wording so clients see
// consistent errors across modes.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (*Identity, *Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, nil, errors.New("A valid email address is required")
	}
	if len(password) < 6 {
		return nil, nil, errors.New("Password should be at least 6 characters")
	}

	hash, err := p.passwords.Hash(password)
	if err != nil {
		return nil, nil, err
	}

	account := &model.Account{
		ID:           xid.New().String(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := p.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			return nil, nil, errors.New("User already registered")
		}
		return nil, nil, fmt.Errorf("identity: creating account: %w", err)
	}

	p.logger.Info("account created", slog.String("accountID", account.ID))
	return p.issueSession(account)
}

// SignIn checks the password and issues a session. OAuth-only accounts have
// an empty hash; bcrypt rejects those the same way as a wrong password, so
// the caller cannot distinguish the cases.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (*Identity, *Session, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	account, err := p.accounts.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, errors.New("identity: invalid login credentials")
	}
	if err := p.passwords.Verify(account.PasswordHash, password); err != nil {
		return nil, nil, errors.New("identity: invalid login credentials")
	}
	return p.issueSession(account)
}

// SignOut is stateless for self-issued tokens; the token remains technically
// valid until it expires, the client just stops sending it.
func (p *LocalProvider) SignOut(ctx context.Context, token string) error {
	if _, err := p.tokens.Validate(token); err != nil {
		return err
	}
	p.logger.Info("session signed out")
	return nil
}

// SignInWithGoogle upserts the account for a Google login and issues a
// session. First login creates a passwordless account; later logins refresh
// the name and avatar metadata.
func (p *LocalProvider) SignInWithGoogle(ctx context.Context, gu *GoogleUser) (*Identity, *Session, error) {
	if gu == nil || gu.Email == "" {
		return nil, nil, errors.New("identity: Google login returned no email")
	}

	account := &model.Account{
		ID:        xid.New().String(), // kept only on first login; upsert preserves the existing id
		Email:     strings.ToLower(gu.Email),
		FullName:  gu.Name,
		AvatarURL: gu.Picture,
	}
	if err := p.accounts.UpsertByEmail(ctx, account); err != nil {
		return nil, nil, fmt.Errorf("identity: upserting Google account: %w", err)
	}

	p.logger.Info("account authenticated via Google", slog.String("accountID", account.ID))
	return p.issueSession(account)
}

func (p *LocalProvider) issueSession(account *model.Account) (*Identity, *Session, error) {
	token, err := p.tokens.Generate(account.ID)
	if err != nil {
		return nil, nil, err
	}
	session := &Session{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(accessTokenTTL.Seconds()),
		// Opaque and unusable: the embedded provider has no refresh grant.
		// Present so client code that stores it keeps working across modes.
		RefreshToken: xid.New().String(),
	}
	return accountIdentity(account), session, nil
}

func accountIdentity(account *model.Account) *Identity {
	metadata := map[string]any{}
	if account.FullName != "" {
		metadata["full_name"] = account.FullName
	}
	if account.AvatarURL != "" {
		metadata["avatar_url"] = account.AvatarURL
	}
	return &Identity{
		ID:       account.ID,
		Email:    account.Email,
		Metadata: metadata,
	}
}
