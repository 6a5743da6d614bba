// Package postgrest implements repository.ProfileRepository against a hosted
// Supabase project's PostgREST API.
//
// Profile rows live in the project's user_profiles table. There is no Go SDK
// for Supabase, so the adapter speaks the REST conventions directly:
// equality filters as query parameters (id=eq.<uuid>) and the
// "Prefer: return=representation" header to get affected rows back.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/amira/wardrobe-api/internal/apperror"
	"github.com/amira/wardrobe-api/internal/model"
	"github.com/amira/wardrobe-api/internal/repository"
)

const table = "user_profiles"

// Client talks to {base}/rest/v1 with the project's service key. The service
// key bypasses row-level security; the field allowlist applied by the service
// layer is the only write policy at this level.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

var _ repository.ProfileRepository = (*Client)(nil)

// New creates a client for the given project URL and key.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{},
	}
}

// Get returns the profile for userID, or apperror.ErrNotFound when no row
// matches.
func (c *Client) Get(ctx context.Context, userID string) (*model.Profile, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?id=eq.%s&select=*", c.baseURL, table, url.QueryEscape(userID))

	rows, err := c.do(ctx, http.MethodGet, endpoint, nil, false)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperror.NotFound("profile", userID)
	}
	return &rows[0], nil
}

// Insert creates a new profile row. A duplicate key yields
// apperror.ErrConflict.
func (c *Client) Insert(ctx context.Context, p *model.Profile) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("postgrest: encoding profile: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	rows, err := c.do(ctx, http.MethodPost, endpoint, body, true)
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		*p = rows[0]
	}
	return nil
}

// Update applies a partial update and returns the updated record. fields is
// already allowlist-filtered; PostgREST only touches the columns present in
// the body. Zero matched rows mean the profile does not exist.
func (c *Client) Update(ctx context.Context, userID string, fields map[string]any) (*model.Profile, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("postgrest: encoding update: %w", err)
	}

	endpoint := fmt.Sprintf("%s/rest/v1/%s?id=eq.%s", c.baseURL, table, url.QueryEscape(userID))
	rows, err := c.do(ctx, http.MethodPatch, endpoint, body, true)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("postgrest: no profile row for user %s", userID)
	}
	return &rows[0], nil
}

// Ping checks reachability with a zero-row HEAD-style query.
func (c *Client) Ping(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?select=id&limit=1", c.baseURL, table)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, endpoint, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, false)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("data service returned status %d", resp.StatusCode)
	}
	return nil
}

// do runs a request and decodes the JSON-array response PostgREST produces
// for rows. wantRows adds the Prefer header so writes return their rows.
func (c *Client) do(ctx context.Context, method, endpoint string, body []byte, wantRows bool) ([]model.Profile, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("postgrest: building request: %w", err)
	}
	c.setHeaders(req, wantRows)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("postgrest: calling data service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusConflict {
		return nil, &apperror.AppError{
			Err:     apperror.ErrConflict,
			Message: errorMessage(resp),
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%s", errorMessage(resp))
	}

	var rows []model.Profile
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("postgrest: decoding response: %w", err)
	}
	return rows, nil
}

func (c *Client) setHeaders(req *http.Request, wantRows bool) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if wantRows {
		req.Header.Set("Prefer", "return=representation")
	}
}

// errorMessage extracts PostgREST's error description from a failure body.
func errorMessage(resp *http.Response) string {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var parsed struct {
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return fmt.Sprintf("data service returned status %d", resp.StatusCode)
}
