package query

import "errors"

var (
	// ErrRemoteFailure wraps the error of a failed remote mutation.
	// By the time it is returned the provisional change has been undone.
	ErrRemoteFailure = errors.New("query: remote mutation failed")

	// ErrStaleResult is returned by Fetch when its result was discarded
	// because the key changed while the fetch was in flight.
	ErrStaleResult = errors.New("query: stale fetch result discarded")

	// ErrSuspended is returned by Fetch while a mutation holds the key.
	// The fetch is deferred until the last hold is released.
	ErrSuspended = errors.New("query: key suspended by pending mutation")

	// ErrFetchFailed wraps the error returned by a fetcher.
	ErrFetchFailed = errors.New("query: fetch failed")

	// ErrNoFetcher is returned when fetching a key without a registered fetcher.
	ErrNoFetcher = errors.New("query: no fetcher registered")

	// ErrTypeMismatch is returned by a mutation whose type parameter does not
	// match the value cached under its key.
	ErrTypeMismatch = errors.New("query: cached value has a different type")

	// ErrClosed is returned by operations on a closed client.
	ErrClosed = errors.New("query: client closed")
)
