package service

import (
	"errors"
	"fmt"
	"time"
)

// apiError carries the fields shared by every remote error kind: an optional
// HTTP status code and the raw error payload the remote returned.
type apiError struct {
	Message    string
	StatusCode int
	Response   map[string]any
}

func (e *apiError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *apiError) remoteAPIError() {}

// remoteError is the marker implemented by every error in the taxonomy.
type remoteError interface {
	error
	remoteAPIError()
}

// IsAPIError reports whether err belongs to the ClickUp error taxonomy.
func IsAPIError(err error) bool {
	var re remoteError
	return errors.As(err, &re)
}

// APIError is a remote failure that matches no more specific kind.
type APIError struct{ apiError }

// AuthenticationError means the token was rejected (401).
type AuthenticationError struct{ apiError }

// AuthorizationError means the token lacks permission (403).
type AuthorizationError struct{ apiError }

// NotFoundError means the resource does not exist (404).
type NotFoundError struct{ apiError }

// ValidationError means the remote rejected the request body (400). The
// remote's error payload is preserved in Response.
type ValidationError struct{ apiError }

// ServerError means the remote failed (5xx).
type ServerError struct{ apiError }

// RateLimitError means the remote throttled the request (429).
type RateLimitError struct {
	apiError
	RetryAfter time.Duration
}

// NetworkError is a local connectivity failure: the request never produced a
// response.
type NetworkError struct {
	apiError
	Err error
}

func (e *NetworkError) Unwrap() error { return e.Err }

// NewAPIError builds a generic remote error.
func NewAPIError(message string, statusCode int) *APIError {
	return &APIError{apiError{Message: message, StatusCode: statusCode}}
}

// NewAuthenticationError builds a 401 error.
func NewAuthenticationError(message string, statusCode int) *AuthenticationError {
	return &AuthenticationError{apiError{Message: message, StatusCode: statusCode}}
}

// NewAuthorizationError builds a 403 error.
func NewAuthorizationError(message string, statusCode int) *AuthorizationError {
	return &AuthorizationError{apiError{Message: message, StatusCode: statusCode}}
}

// NewNotFoundError builds a 404 error.
func NewNotFoundError(message string, statusCode int) *NotFoundError {
	return &NotFoundError{apiError{Message: message, StatusCode: statusCode}}
}

// NewValidationError builds a 400 error carrying the remote payload.
func NewValidationError(message string, statusCode int, response map[string]any) *ValidationError {
	return &ValidationError{apiError{Message: message, StatusCode: statusCode, Response: response}}
}

// NewServerError builds a 5xx error.
func NewServerError(message string, statusCode int) *ServerError {
	return &ServerError{apiError{Message: message, StatusCode: statusCode}}
}

// NewRateLimitError builds a 429 error with its retry-after duration.
func NewRateLimitError(message string, statusCode int, retryAfter time.Duration) *RateLimitError {
	return &RateLimitError{apiError: apiError{Message: message, StatusCode: statusCode}, RetryAfter: retryAfter}
}

// NewNetworkError wraps a local connectivity failure.
func NewNetworkError(message string, err error) *NetworkError {
	return &NetworkError{apiError: apiError{Message: message}, Err: err}
}

// ConfigError is a local settings problem (missing credentials, unknown
// alias, denied key). It is deliberately outside the remote taxonomy so
// callers can tell "misconfigured" apart from "remote rejected the request".
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string { return e.Message }

// NewConfigError builds a local configuration error.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
