package domain

import (
	"errors"
	"fmt"
)

// AppError is the base error type surfaced to the presentation layer.
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Cause   error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// Standard error constructors.

// ErrNoSession signals that an identity-scoped operation ran without an
// authenticated session. The message is the fixed string shown in the UI.
func ErrNoSession() *AppError {
	return &AppError{Code: "NO_SESSION", Message: "No hay sesión activa"}
}

// ErrNotAuthorized signals a privileged operation attempted without the admin
// flag. This is a UX guard only; row-level security on the backend is the
// authoritative check.
func ErrNotAuthorized(msg string) *AppError {
	return &AppError{Code: "NOT_AUTHORIZED", Message: msg}
}

func ErrNotFound(entity, id string) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: fmt.Sprintf("%s %s not found", entity, id)}
}

func ErrValidation(msg string) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: msg}
}

// ErrBackend wraps a failed backend request on write paths and single-entity
// reads, which propagate to the caller instead of degrading.
func ErrBackend(op string, cause error) *AppError {
	return &AppError{Code: "BACKEND_ERROR", Message: op, Cause: cause}
}

// IsNoSession reports whether err is (or wraps) the no-session condition.
func IsNoSession(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "NO_SESSION"
}

// IsNotAuthorized reports whether err is (or wraps) an authorization failure.
func IsNotAuthorized(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == "NOT_AUTHORIZED"
}
