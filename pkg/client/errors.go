package client

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized is returned for 401 responses. The session is missing,
	// expired or revoked and the user has to sign in again.
	ErrUnauthorized = errors.New("client: unauthorized")

	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("client: not found")

	// ErrInvalidBaseURL is returned by New for a base URL without scheme or host.
	ErrInvalidBaseURL = errors.New("client: invalid base url")
)

// APIError is a non-2xx response other than 401 and 404.
type APIError struct {
	// Message is the "error" field of the response body, or the raw
	// body when it is not JSON.
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("client: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("client: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err means the caller must sign in again.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsNotFound reports whether err is a 404.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsAPIError extracts an *APIError from err.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
