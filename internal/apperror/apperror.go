// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP handlers translate them into status
// codes in exactly one place (handler.writeError). Sentinel errors are matched
// with errors.Is, the carried message is extracted with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSignupRejected     = errors.New("signup rejected")
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation error")
	ErrConflict           = errors.New("conflict")
	ErrPersistence        = errors.New("persistence error")
)

type AppError struct {
	Err     error  // sentinel kind, matched with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Unauthorized indicates a missing, malformed, or expired credential.
// The reason comes from the identity service and is safe to show the caller.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "valid authentication required"
	}
	return &AppError{
		Err:     ErrUnauthorized,
		Message: fmt.Sprintf("Could not validate credentials: %s", reason),
	}
}

// InvalidCredentials is the deliberately generic login failure. The underlying
// cause (unknown email vs wrong password) is never exposed.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// SignupRejected carries the identity service's rejection reason verbatim
// (already registered, weak password, and so on).
func SignupRejected(reason string) *AppError {
	if reason == "" {
		reason = "Signup failed"
	}
	return &AppError{
		Err:     ErrSignupRejected,
		Message: reason,
	}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// NoFieldsToUpdate rejects an update whose payload contains no allowlisted
// field. It is raised before any store call is made.
func NoFieldsToUpdate() *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: "No valid fields to update",
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Persistence wraps a store failure. The underlying message is attached to
// mirror the upstream service's behavior; callers see it in the 500 body.
func Persistence(op string, err error) *AppError {
	return &AppError{
		Err:     ErrPersistence,
		Message: fmt.Sprintf("Failed to %s: %v", op, err),
	}
}
