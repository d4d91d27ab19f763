package cache

import "errors"

var (
	// ErrNotFound means the key is missing or has expired.
	ErrNotFound = errors.New("cache: miss")

	// ErrClosed is returned by a memory cache after Close.
	ErrClosed = errors.New("cache: closed")

	// ErrBackend wraps failures of the storage behind the cache.
	ErrBackend = errors.New("cache: backend error")

	ErrMarshal   = errors.New("cache: encode value")
	ErrUnmarshal = errors.New("cache: decode value")
)
