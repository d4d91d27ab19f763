// Package cache provides a generic Cache interface with in-memory and Redis implementations.
//
// The session cache store and the user profile cache are built on it: Redis
// in production, [Memory] for single-process deployments and tests.
//
// TTL semantics for Set:
//   - Positive duration: item expires after this duration
//   - Zero: use the cache's configured default TTL (1 hour by default)
//   - Negative: item never expires
//
// # In-Memory Cache
//
//	c := cache.NewMemory[users.User](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithMaxEntries(10000),
//	)
//	defer c.Close()
//
// # Redis Cache
//
//	client, err := redis.Connect(ctx, cfg.Redis)
//	c := cache.NewRedis[users.User](client, nil, cache.WithPrefix("users"))
//
// # Stampede Prevention
//
// [GetOrSet] loads a missing value once even under concurrent misses:
//
//	u, err := cache.GetOrSet(ctx, c, id, func(ctx context.Context) (users.User, time.Duration, error) {
//	    u, err := repo.Get(ctx, id)
//	    return u, 5 * time.Minute, err
//	})
//
// Use [errors.Is] with [ErrNotFound] to detect misses.
package cache
