package session

import (
	"context"
	"time"
)

// Store defines the interface for session persistence.
// The resolver only ever calls Lookup; the remaining methods serve
// sign-in, sign-out and housekeeping.
type Store interface {
	// Lookup retrieves a session by its exact token.
	// Returns ErrNotFound if no session matches. Expired sessions may
	// still be returned; validity is decided by the caller.
	Lookup(ctx context.Context, token string) (*Session, error)

	// Create persists a new session.
	Create(ctx context.Context, s *Session) error

	// Delete removes a session by its token. Deleting an unknown token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteByUserID removes all sessions for a user.
	DeleteByUserID(ctx context.Context, userID string) error
}

// ExpiredPurger is implemented by stores that keep expired rows around
// and need periodic cleanup.
type ExpiredPurger interface {
	// DeleteExpired removes sessions that expired at or before the given time
	// and returns the number of removed sessions.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
