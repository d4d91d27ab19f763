package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisTTL = time.Hour

// RedisOption configures a Redis cache.
type RedisOption func(*redisSettings)

type redisSettings struct {
	prefix     string
	defaultTTL time.Duration
}

// WithPrefix stores keys as "prefix:key", so sessions, the session index
// and user profiles can share one database without colliding.
func WithPrefix(prefix string) RedisOption {
	return func(s *redisSettings) { s.prefix = prefix }
}

// WithRedisDefaultTTL sets the expiry used for Set calls with a zero TTL.
// Default: 1 hour.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(s *redisSettings) {
		if d != 0 {
			s.defaultTTL = d
		}
	}
}

// Redis stores values in Redis, encoded by a Marshaler (JSON by default).
// The client is owned by the caller; close it with redis.Shutdown.
type Redis[V any] struct {
	client     redis.UniversalClient
	marshaler  Marshaler[V]
	prefix     string
	defaultTTL time.Duration
}

// NewRedis creates a Redis-backed cache. A nil m selects JSON.
//
//	sessions := cache.NewRedis[session.Session](client, nil, cache.WithPrefix("sessions"))
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	settings := &redisSettings{defaultTTL: defaultRedisTTL}
	for _, opt := range opts {
		opt(settings)
	}
	if m == nil {
		m = JSON[V]{}
	}
	return &Redis[V]{
		client:     client,
		marshaler:  m,
		prefix:     settings.prefix,
		defaultTTL: settings.defaultTTL,
	}
}

// Get returns ErrNotFound for missing or expired keys.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V
	data, err := r.client.Get(ctx, r.key(key)).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return zero, ErrNotFound
	case err != nil:
		return zero, errors.Join(ErrBackend, err)
	}
	return r.marshaler.Unmarshal(data)
}

func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	switch {
	case ttl == 0:
		ttl = r.defaultTTL
	case ttl < 0:
		ttl = 0 // no expiry
	}
	if err := r.client.Set(ctx, r.key(key), data, ttl).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return errors.Join(ErrBackend, err)
	}
	return nil
}

// Close does nothing; the client outlives the caches built on it.
func (r *Redis[V]) Close() error { return nil }

func (r *Redis[V]) key(k string) string {
	if r.prefix == "" {
		return k
	}
	return r.prefix + ":" + k
}

var _ Cache[[]string] = (*Redis[[]string])(nil)
