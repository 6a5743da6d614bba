package apperror

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("token expired"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "InvalidCredentials wraps ErrInvalidCredentials",
			err:       InvalidCredentials(),
			target:    ErrInvalidCredentials,
			wantMatch: true,
		},
		{
			name:      "SignupRejected wraps ErrSignupRejected",
			err:       SignupRejected("User already registered"),
			target:    ErrSignupRejected,
			wantMatch: true,
		},
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("profile", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NoFieldsToUpdate wraps ErrValidation",
			err:       NoFieldsToUpdate(),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Persistence wraps ErrPersistence",
			err:       Persistence("update profile", errors.New("connection reset")),
			target:    ErrPersistence,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("profile", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "InvalidCredentials does NOT match ErrUnauthorized",
			err:       InvalidCredentials(),
			target:    ErrUnauthorized,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsAs(t *testing.T) {
	wrapped := errors.Join(errors.New("outer"), SignupRejected("Password should be at least 6 characters"))

	var appErr *AppError
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As should find *AppError in the chain")
	}
	if appErr.Message != "Password should be at least 6 characters" {
		t.Errorf("Message = %q, want the verbatim rejection reason", appErr.Message)
	}
}

func TestInvalidCredentialsIsGeneric(t *testing.T) {
	// The login failure message must never reveal which part was wrong.
	err := InvalidCredentials()
	for _, leak := range []string{"email not found", "wrong password", "no user"} {
		if strings.Contains(strings.ToLower(err.Message), leak) {
			t.Errorf("InvalidCredentials message leaks detail: %q", err.Message)
		}
	}
	if err.Message != "Invalid email or password" {
		t.Errorf("Message = %q, want %q", err.Message, "Invalid email or password")
	}
}

func TestPersistenceAttachesUnderlyingMessage(t *testing.T) {
	err := Persistence("create user profile", errors.New("duplicate key value"))
	if !strings.Contains(err.Message, "duplicate key value") {
		t.Errorf("Persistence message should carry the store error, got %q", err.Message)
	}
}
