// Package identity abstracts the external identity provider.
//
// The application never owns authentication state: token issuance, password
// hashing and session rotation belong to the provider behind the Service
// interface. Two adapters exist:
//
//   - SupabaseClient (supabase.go) — the hosted GoTrue API, used in production
//   - LocalProvider (local.go)     — an embedded provider backed by the local
//     account store, used for development and tests
//
// Handlers depend only on the interfaces, so the two are interchangeable at
// wiring time (internal/server).
package identity

import "context"

// Identity is the provider's view of an authenticated user. The application
// reads it after verification and never mutates it.
type Identity struct {
	ID       string         `json:"id"`
	Email    string         `json:"email"`
	Metadata map[string]any `json:"user_metadata,omitempty"` // provider metadata, e.g. full_name, avatar_url from OAuth
}

// MetadataString returns a string-valued metadata entry, or "" when the key
// is absent or not a string. OAuth providers populate keys like "full_name"
// and "avatar_url"; email/password users usually have none.
func (i *Identity) MetadataString(key string) string {
	if i == nil || i.Metadata == nil {
		return ""
	}
	s, _ := i.Metadata[key].(string)
	return s
}

// Session is the credential bundle issued by the provider on signup/login.
// The backend passes it through to the client verbatim; it never stores it.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

// Verifier resolves a bearer token to an identity. Every call re-verifies
// against the provider — there is no local caching.
type Verifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Authenticator covers the credential-changing operations.
type Authenticator interface {
	// SignUp registers a new user. The returned session may be nil when the
	// provider requires email confirmation before issuing tokens.
	SignUp(ctx context.Context, email, password string) (*Identity, *Session, error)

	// SignIn performs a password check and issues a session.
	SignIn(ctx context.Context, email, password string) (*Identity, *Session, error)

	// SignOut revokes the session behind the given access token.
	SignOut(ctx context.Context, token string) error
}

// Service is the full identity-provider capability.
type Service interface {
	Verifier
	Authenticator
}
