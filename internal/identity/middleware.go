package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package.
// A package-private key type means only this package can read or write the
// identity stored in a request context — no collisions with other packages.
type contextKey int

const (
	identityKey contextKey = iota
	tokenKey
)

// RequireUser is middleware that enforces authentication on protected routes.
//
// It reads the Authorization: Bearer header, re-verifies the token against
// the identity provider, and stores the resolved identity (and the raw token,
// for handlers that forward it, like logout) in the request context. Missing,
// malformed, or rejected tokens end the request with 401 and a reason derived
// from the provider's error — no identity details leak.
func RequireUser(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			ident, err := verifier.Verify(r.Context(), token)
			if err != nil || ident == nil || ident.ID == "" {
				reason := "invalid token"
				if err != nil {
					reason = err.Error()
				}
				unauthorized(w, reason)
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, ident)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalUser attaches the identity when a valid token is present but never
// blocks the request. Every verification failure — bad token, expired token,
// provider unreachable — is swallowed and the request proceeds anonymous.
func OptionalUser(verifier Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := BearerToken(r); ok {
				if ident, err := verifier.Verify(r.Context(), token); err == nil && ident != nil && ident.ID != "" {
					ctx := context.WithValue(r.Context(), identityKey, ident)
					ctx = context.WithValue(ctx, tokenKey, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// FromContext retrieves the verified identity from the request context.
// Returns (nil, false) on anonymous requests.
func FromContext(ctx context.Context) (*Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*Identity)
	return ident, ok && ident != nil
}

// TokenFromContext retrieves the raw bearer token that was verified for this
// request. Needed by handlers that forward the credential to the provider
// (sign-out revokes the session behind it).
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme comparison is case-insensitive per RFC 7235.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// unauthorized writes the 401 response. The middleware cannot use the handler
// package's error writer (the handler package imports this one), so it emits
// the same JSON shape directly.
func unauthorized(w http.ResponseWriter, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": "Could not validate credentials: " + reason,
	})
}
