package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/cache"
)

// CacheStore keeps sessions in a cache.Cache keyed by token.
// Each entry expires together with its session, so no cleanup job is needed.
// A per-user token index backs DeleteByUserID; it lives as long as the
// user's longest-lived session.
//
// The index is updated with read-modify-write under a process-local mutex;
// concurrent sign-ins of the same user from different processes may drop
// an index entry, which only affects DeleteByUserID.
type CacheStore struct {
	sessions cache.Cache[Session]
	index    cache.Cache[[]string]
	now      func() time.Time
	mu       sync.Mutex
}

// CacheStoreOption configures a CacheStore.
type CacheStoreOption func(*CacheStore)

// WithCacheStoreClock overrides the time source used to compute entry TTLs.
func WithCacheStoreClock(now func() time.Time) CacheStoreOption {
	return func(s *CacheStore) {
		if now != nil {
			s.now = now
		}
	}
}

// NewCacheStore creates a store from a session cache and a user index cache.
//
// Example:
//
//	client := redis.MustOpen(ctx, cfg.RedisURL)
//	store := session.NewCacheStore(
//	    cache.NewRedis[session.Session](client, nil, cache.WithPrefix("sessions")),
//	    cache.NewRedis[[]string](client, nil, cache.WithPrefix("user_sessions")),
//	)
func NewCacheStore(sessions cache.Cache[Session], index cache.Cache[[]string], opts ...CacheStoreOption) *CacheStore {
	s := &CacheStore{
		sessions: sessions,
		index:    index,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Lookup retrieves a session by token.
func (s *CacheStore) Lookup(ctx context.Context, token string) (*Session, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &sess, nil
}

// Create stores the session with a TTL matching its remaining lifetime.
// Returns ErrExpired for sessions that are already past their expiry.
func (s *CacheStore) Create(ctx context.Context, sess *Session) error {
	ttl := sess.TTL(s.now())
	if ttl <= 0 {
		return ErrExpired
	}

	if err := s.sessions.Set(ctx, sess.Token, *sess, ttl); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.userTokens(ctx, sess.UserID)
	if err != nil {
		return err
	}
	return s.saveIndex(ctx, sess.UserID, append(slices.Clone(tokens), sess.Token))
}

// Delete removes a session and drops it from the user index.
func (s *CacheStore) Delete(ctx context.Context, token string) error {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.sessions.Delete(ctx, token); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.userTokens(ctx, sess.UserID)
	if err != nil {
		return err
	}
	return s.saveIndex(ctx, sess.UserID, slices.DeleteFunc(slices.Clone(tokens), func(t string) bool { return t == token }))
}

// DeleteByUserID removes every indexed session of a user.
func (s *CacheStore) DeleteByUserID(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.userTokens(ctx, userID)
	if err != nil {
		return err
	}

	var errs []error
	for _, token := range tokens {
		if err := s.sessions.Delete(ctx, token); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.index.Delete(ctx, userID); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// saveIndex keeps the tokens whose sessions are still live and stores them
// until the last of those sessions expires. Caller holds s.mu.
func (s *CacheStore) saveIndex(ctx context.Context, userID string, tokens []string) error {
	now := s.now()
	live := make([]string, 0, len(tokens))
	var ttl time.Duration
	for _, token := range tokens {
		sess, err := s.sessions.Get(ctx, token)
		if errors.Is(err, cache.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if left := sess.TTL(now); left > 0 {
			live = append(live, token)
			ttl = max(ttl, left)
		}
	}
	if len(live) == 0 {
		return s.index.Delete(ctx, userID)
	}
	return s.index.Set(ctx, userID, live, ttl)
}

func (s *CacheStore) userTokens(ctx context.Context, userID string) ([]string, error) {
	tokens, err := s.index.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return tokens, nil
}

var _ Store = (*CacheStore)(nil)
