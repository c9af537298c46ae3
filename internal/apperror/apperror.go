// Package apperror defines the application's error taxonomy.
//
// Services return these typed errors; the HTTP layer maps them to status
// codes with errors.Is/errors.As. Nothing here knows about HTTP — the same
// errors could back a gRPC or CLI front end.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every AppError wraps one of these so callers can
// branch with errors.Is without matching on message text.
var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

type AppError struct {
	Err     error  // sentinel identifying the error kind
	Message string // human-readable, safe to send to clients
	Field   string // optional: field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no record of the given kind matched.
func NotFound(resource, value string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, value),
	}
}

// ValidationFailed reports client-fixable bad input, naming the field.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation on the named field.
// The message is the one clients display verbatim:
// "a user with this username already exists".
func Conflict(resource, field string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("a %s with this %s already exists", resource, field),
		Field:   field,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// InvalidCredentials is the single, deliberately vague login failure.
// A wrong password and an unknown username return this exact error so
// clients cannot enumerate accounts.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid credentials",
	}
}

// InvalidToken covers expired, malformed and bad-signature tokens.
// The auth gate collapses all three into this one error.
func InvalidToken() *AppError {
	return &AppError{
		Err:     ErrInvalidToken,
		Message: "invalid authentication token",
	}
}
