package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// SupabaseClient talks to a hosted Supabase project's GoTrue auth API.
//
// Supabase does not ship a Go SDK, so this adapter speaks the REST endpoints
// directly:
//
//	GET  {base}/auth/v1/user                        → resolve a bearer token
//	POST {base}/auth/v1/signup                      → email/password signup
//	POST {base}/auth/v1/token?grant_type=password   → email/password login
//	POST {base}/auth/v1/logout                      → revoke the session
//
// Every request carries the project's anon key in the apikey header; user
// operations additionally carry the user's JWT as a bearer token.
type SupabaseClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ Service = (*SupabaseClient)(nil)

// NewSupabaseClient creates a client for the given project.
// baseURL is the project URL, e.g. "https://abcdefgh.supabase.co".
// No local timeout is applied; the transport's defaults govern the calls.
func NewSupabaseClient(baseURL, apiKey string) *SupabaseClient {
	return &SupabaseClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

// gotrueUser is the portion of GoTrue's user object we care about.
type gotrueUser struct {
	ID           string         `json:"id"`
	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
}

func (u *gotrueUser) identity() *Identity {
	return &Identity{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}
}

// gotrueSession covers both response shapes GoTrue uses: token grants return
// the session fields at the top level with the user nested, while signup with
// confirmation enabled returns a bare user object and no tokens.
type gotrueSession struct {
	AccessToken  string      `json:"access_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	RefreshToken string      `json:"refresh_token"`
	User         *gotrueUser `json:"user"`

	// Set when the body is a bare user object (no session issued yet).
	gotrueUser
}

// Verify resolves a user JWT by asking GoTrue who it belongs to.
func (c *SupabaseClient) Verify(ctx context.Context, token string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("identity: building verify request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity: calling auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("identity: %s", errorMessage(resp))
	}

	var user gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("identity: decoding user response: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("identity: auth service returned no user")
	}
	return user.identity(), nil
}

// SignUp registers a new email/password user.
func (c *SupabaseClient) SignUp(ctx context.Context, email, password string) (*Identity, *Session, error) {
	return c.credentialGrant(ctx, "/auth/v1/signup", email, password)
}

// SignIn performs the password grant.
func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*Identity, *Session, error) {
	return c.credentialGrant(ctx, "/auth/v1/token?grant_type=password", email, password)
}

// SignOut revokes the session behind the given access token.
func (c *SupabaseClient) SignOut(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/v1/logout", nil)
	if err != nil {
		return fmt.Errorf("identity: building logout request: %w", err)
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("identity: calling auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity: %s", errorMessage(resp))
	}
	return nil
}

// Ping checks that the auth API answers at all. Used by the health endpoint.
func (c *SupabaseClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/v1/health", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
	return nil
}

func (c *SupabaseClient) credentialGrant(ctx context.Context, path, email, password string) (*Identity, *Session, error) {
	body, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, nil, fmt.Errorf("identity: encoding credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, nil, fmt.Errorf("identity: building request: %w", err)
	}
	c.setHeaders(req, "")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("identity: calling auth service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("%s", errorMessage(resp))
	}

	var grant gotrueSession
	if err := json.NewDecoder(resp.Body).Decode(&grant); err != nil {
		return nil, nil, fmt.Errorf("identity: decoding auth response: %w", err)
	}

	user := grant.User
	if user == nil {
		// signup-with-confirmation shape: a bare user object, no tokens
		user = &grant.gotrueUser
	}
	if user.ID == "" {
		return nil, nil, fmt.Errorf("auth service returned no user")
	}

	var session *Session
	if grant.AccessToken != "" {
		session = &Session{
			AccessToken:  grant.AccessToken,
			TokenType:    grant.TokenType,
			ExpiresIn:    grant.ExpiresIn,
			RefreshToken: grant.RefreshToken,
		}
	}
	return user.identity(), session, nil
}

func (c *SupabaseClient) setHeaders(req *http.Request, userToken string) {
	req.Header.Set("apikey", c.apiKey)
	if userToken != "" {
		req.Header.Set("Authorization", "Bearer "+userToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// errorMessage extracts a human-readable reason from a GoTrue error body.
// GoTrue is inconsistent across endpoints: the reason may live in
// error_description, msg, message, or error. Fall back to the HTTP status.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed struct {
		ErrorDescription string `json:"error_description"`
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorField       string `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, s := range []string{parsed.ErrorDescription, parsed.Msg, parsed.Message, parsed.ErrorField} {
			if s != "" {
				return s
			}
		}
	}
	return fmt.Sprintf("auth service returned status %d", resp.StatusCode)
}
