package users

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/cache"
	"github.com/dmitrymomot/taskmanager/pkg/oauth"
)

// DefaultCacheTTL bounds how stale a cached profile can get.
const DefaultCacheTTL = 10 * time.Minute

// CachedRepository serves Get from a cache in front of another repository.
// Concurrent misses for one user share a single backend query.
type CachedRepository struct {
	next  Repository
	cache cache.Cache[User]
	ttl   time.Duration
}

// NewCachedRepository wraps next with c. A non-positive ttl selects DefaultCacheTTL.
func NewCachedRepository(next Repository, c cache.Cache[User], ttl time.Duration) *CachedRepository {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedRepository{next: next, cache: c, ttl: ttl}
}

func (r *CachedRepository) UpsertGoogle(ctx context.Context, info oauth.UserInfo) (User, error) {
	u, err := r.next.UpsertGoogle(ctx, info)
	if err != nil {
		return User{}, err
	}
	_ = r.cache.Set(ctx, u.ID.String(), u, r.ttl)
	return u, nil
}

func (r *CachedRepository) Get(ctx context.Context, id uuid.UUID) (User, error) {
	return cache.GetOrSet(ctx, r.cache, id.String(), func(ctx context.Context) (User, time.Duration, error) {
		u, err := r.next.Get(ctx, id)
		return u, r.ttl, err
	})
}
