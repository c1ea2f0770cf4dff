// Package apperror defines the application's error taxonomy.
//
// Services return these errors; the HTTP layer maps them to status codes with
// errors.Is/errors.As and never has to parse error strings. All of them are
// terminal and user-facing, none triggers a retry. Unexpected storage
// failures use ErrUnavailable and are reported to the caller as a generic
// failure without leaking internals.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrValidation         = errors.New("validation failed")
	ErrConflict           = errors.New("conflict")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("weak password")
	ErrUnverifiedIdentity = errors.New("unverified identity")
	ErrDomainNotAllowed   = errors.New("domain not allowed")
	ErrAlreadyCompleted   = errors.New("already completed")
	ErrUnavailable        = errors.New("unavailable")
)

// AppError pairs a sentinel with a human-readable message the caller can
// surface directly, plus the field at fault for validation and conflict
// errors (the UI distinguishes "email taken" from "student number taken").
type AppError struct {
	Err     error  // sentinel, matched with errors.Is
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a unique-constraint collision on the given field.
func Conflict(field, message string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Field:   field,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// InvalidCredentials uses one fixed message for unknown email and wrong
// password alike, so a caller cannot probe which emails are registered.
func InvalidCredentials() *AppError {
	return &AppError{
		Err:     ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

func WeakPassword(min int) *AppError {
	return &AppError{
		Err:     ErrWeakPassword,
		Message: fmt.Sprintf("password must be at least %d characters", min),
		Field:   "password",
	}
}

func UnverifiedIdentity() *AppError {
	return &AppError{
		Err:     ErrUnverifiedIdentity,
		Message: "could not verify your account",
	}
}

func DomainNotAllowed(message string) *AppError {
	return &AppError{
		Err:     ErrDomainNotAllowed,
		Message: message,
	}
}

func AlreadyCompleted(message string) *AppError {
	return &AppError{
		Err:     ErrAlreadyCompleted,
		Message: message,
	}
}

// Unavailable wraps an unexpected storage failure. The underlying error is
// kept for server-side logs; the message shown to callers stays generic.
func Unavailable(err error) *AppError {
	return &AppError{
		Err:     errors.Join(ErrUnavailable, err),
		Message: "service temporarily unavailable",
	}
}
