package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/id"
)

// DefaultTTL is the lifetime of a newly issued session.
const DefaultTTL = 7 * 24 * time.Hour

// tokenBytes is the amount of entropy in a session token (256 bits).
const tokenBytes = 32

// Session is a server-side credential binding an opaque token to a user.
// It is created at sign-in and never modified by request authentication.
type Session struct {
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	ID        string `json:"id"`    // ULID, safe to log
	Token     string `json:"token"` // bearer secret, never log
	UserID    string `json:"user_id"`
	IP        string `json:"ip,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
}

// New creates a session for userID expiring ttl after now.
// A non-positive ttl falls back to DefaultTTL.
func New(userID string, now time.Time, ttl time.Duration) (*Session, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	token, err := NewToken()
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id.NewULIDAt(now),
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

// ValidAt reports whether the session authenticates at the given instant.
// The expiry instant itself is already invalid.
func (s *Session) ValidAt(now time.Time) bool {
	return s != nil && now.Before(s.ExpiresAt)
}

// TTL returns how long the session remains valid after now.
// Returns zero for sessions that are already expired.
func (s *Session) TTL(now time.Time) time.Duration {
	return max(s.ExpiresAt.Sub(now), 0)
}

// NewToken generates a cryptographically secure, URL-safe session token.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
