package internal

import (
	"errors"
	"net/http"
)

// HTTPError pairs a status code with the message the client sees.
// The cause in Err stays server-side.
type HTTPError struct {
	Code    int
	Message string
	Err     error
}

func (e *HTTPError) Error() string { return e.Message }
func (e *HTTPError) Unwrap() error { return e.Err }

type HTTPErrorOption func(*HTTPError)

// WithError attaches the cause so errors.Is and the error log can see it.
func WithError(err error) HTTPErrorOption {
	return func(e *HTTPError) { e.Err = err }
}

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusBadRequest, message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusUnauthorized, message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(http.StatusNotFound, message, opts...)
}

// AsHTTPError returns the first HTTPError in err's tree, or nil.
func AsHTTPError(err error) *HTTPError {
	var he *HTTPError
	if !errors.As(err, &he) {
		return nil
	}
	return he
}

func IsHTTPError(err error) bool { return AsHTTPError(err) != nil }
