package util

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError standardizes errors surfaced by the backend or the transport so
// call sites can rely on a single message field.
type APIError struct {
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// NewAPIError constructs an APIError.
func NewAPIError(status int, code, message string) *APIError {
	return &APIError{Status: status, Code: code, Message: message}
}

// NewRequestFailed wraps a transport-level failure (DNS, refused connection,
// timeout) where no backend response is available.
func NewRequestFailed(err error) *APIError {
	return &APIError{
		Code:    "REQUEST_FAILED",
		Message: "request failed",
		Err:     err,
	}
}

// NewAuthExpired marks a session invalidated by the backend.
func NewAuthExpired(message string) *APIError {
	if message == "" {
		message = "session expired"
	}
	return &APIError{Status: http.StatusUnauthorized, Code: "AUTH_EXPIRED", Message: message}
}

// NewDecodeError wraps a malformed backend response body.
func NewDecodeError(err error) *APIError {
	return &APIError{
		Code:    "MALFORMED_RESPONSE",
		Message: "malformed response",
		Err:     err,
	}
}

// FromStatus builds an APIError out of an error response, preferring the
// backend-provided message over the generic fallback.
func FromStatus(status int, backendMessage, fallback string) *APIError {
	message := backendMessage
	if message == "" {
		message = fallback
	}
	code := "BACKEND_ERROR"
	switch status {
	case http.StatusUnauthorized:
		code = "UNAUTHORIZED"
	case http.StatusForbidden:
		code = "FORBIDDEN"
	case http.StatusNotFound:
		code = "NOT_FOUND"
	}
	return &APIError{Status: status, Code: code, Message: message}
}

// MessageOf extracts the normalized message from any error, falling back to
// the provided default for errors that never passed through the API client.
func MessageOf(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsAuthExpired reports whether the error represents a 401 from the backend
// or a locally detected token expiry.
func IsAuthExpired(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized
}
