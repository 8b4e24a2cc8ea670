// Package apperror defines the error taxonomy shared by every layer.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError
type Kind string

const (
	// KindAuth is a missing or unrefreshable credential. Fatal to the caller, never retried.
	KindAuth Kind = "AUTH_ERROR"
	// KindUpstream is a failed call to the remote platform.
	KindUpstream Kind = "UPSTREAM_ERROR"
	// KindCache is a cache store failure. Recovered inside the cache layer.
	KindCache Kind = "CACHE_ERROR"
)

// AppError is an application-specific error type
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// ErrNotAuthenticated is returned when no credential is stored
var ErrNotAuthenticated = &AppError{Kind: KindAuth, Message: "not authenticated"}

// New creates an AppError without a cause
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Auth wraps err as an authentication error
func Auth(err error, message string) *AppError {
	return &AppError{Kind: KindAuth, Message: message, Cause: err}
}

// Upstream wraps err as a remote platform error
func Upstream(err error, message string) *AppError {
	return &AppError{Kind: KindUpstream, Message: message, Cause: err}
}

// Cache wraps err as a cache store error
func Cache(err error, message string) *AppError {
	return &AppError{Kind: KindCache, Message: message, Cause: err}
}

// KindOf returns the kind of the first AppError in err's chain, or "" when there is none
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsAuth reports whether err carries an authentication error
func IsAuth(err error) bool { return KindOf(err) == KindAuth }

// IsUpstream reports whether err carries a remote platform error
func IsUpstream(err error) bool { return KindOf(err) == KindUpstream }
