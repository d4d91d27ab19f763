package session

import "errors"

// Session errors.
var (
	// ErrUnauthenticated is the single failure returned by the resolver.
	// Missing credentials, unknown tokens, expired sessions and store
	// failures are deliberately indistinguishable to callers.
	ErrUnauthenticated = errors.New("session: unauthenticated")

	// ErrNotFound is returned by stores when no session matches the token.
	ErrNotFound = errors.New("session: not found")

	// ErrExpired is returned when a session is created or read past its expiry.
	ErrExpired = errors.New("session: expired")

	// ErrInvalidToken is returned when a token cannot be generated or is empty.
	ErrInvalidToken = errors.New("session: invalid token")

	// ErrMissingUserID is returned when a session is issued without a user.
	ErrMissingUserID = errors.New("session: missing user id")
)
