package errx

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	// SystemErrorMessage is a user-facing fallback when internal errors occur.
	SystemErrorMessage = "internal server error"
	// RedisErrorMessage describes Redis related failures.
	RedisErrorMessage = "redis operation failed"
	// RedisNotFoundMessage describes a missing Redis key.
	RedisNotFoundMessage = "redis key not found"
	// ServiceUnavailableMessage describes a failed call to the completion,
	// embedding or similarity-search services.
	ServiceUnavailableMessage = "service temporarily unavailable"
	// SessionNotFoundMessage describes an unknown or expired chat session.
	SessionNotFoundMessage = "session not found"
)

// ErrSessionNotFound is returned by session repositories for unknown IDs.
var ErrSessionNotFound = New(errors.New("session not found"), http.StatusNotFound, SessionNotFoundMessage)

// Error wraps an underlying error with an HTTP status and safe message.
type Error struct {
	Err     error
	Status  int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

// Unwrap exposes the underlying error for errors.Is / errors.As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error with the provided information.
func New(err error, status int, message string) *Error {
	return &Error{
		Err:     err,
		Status:  status,
		Message: message,
	}
}

// WrapLLM maps a completion-service failure to 503.
func WrapLLM(err error) error {
	if err == nil {
		return nil
	}
	return New(fmt.Errorf("completion: %w", err), http.StatusServiceUnavailable, ServiceUnavailableMessage)
}

// WrapRetriever maps a similarity-search or embedding failure to 503.
func WrapRetriever(err error) error {
	if err == nil {
		return nil
	}
	return New(fmt.Errorf("retrieval: %w", err), http.StatusServiceUnavailable, ServiceUnavailableMessage)
}

// StatusOf returns the HTTP status carried by err, or 500.
func StatusOf(err error) int {
	var e *Error
	if errors.As(err, &e) && e.Status != 0 {
		return e.Status
	}
	return http.StatusInternalServerError
}

// MessageOf returns the safe message carried by err, or SystemErrorMessage.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return SystemErrorMessage
}

// IsUnavailable reports whether err stems from an external service outage.
func IsUnavailable(err error) bool {
	return StatusOf(err) == http.StatusServiceUnavailable
}

// Is reports whether target is this very error or matches the wrapped one.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok && t == e {
		return true
	}
	return errors.Is(e.Err, target)
}
