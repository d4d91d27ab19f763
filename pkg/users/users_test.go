package users_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/cache"
	"github.com/dmitrymomot/taskmanager/pkg/oauth"
	"github.com/dmitrymomot/taskmanager/pkg/users"
)

func TestMemoryRepository_UpsertGoogle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := users.NewMemoryRepository()

	first, err := repo.UpsertGoogle(ctx, oauth.UserInfo{ID: "g-1", Email: "a@example.com", Name: "A"})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, first.ID)

	again, err := repo.UpsertGoogle(ctx, oauth.UserInfo{ID: "g-1", Email: "a@example.org", Name: "A B"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID, "same google account must map to the same user")
	assert.Equal(t, "a@example.org", again.Email)
	assert.Equal(t, first.CreatedAt, again.CreatedAt)

	other, err := repo.UpsertGoogle(ctx, oauth.UserInfo{ID: "g-2", Email: "b@example.com"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "A B", got.Name)

	_, err = repo.Get(ctx, uuid.New())
	require.ErrorIs(t, err, users.ErrNotFound)
}

type countingRepo struct {
	users.Repository
	gets atomic.Int32
}

func (r *countingRepo) Get(ctx context.Context, id uuid.UUID) (users.User, error) {
	r.gets.Add(1)
	return r.Repository.Get(ctx, id)
}

func TestCachedRepository(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	backend := &countingRepo{Repository: users.NewMemoryRepository()}
	mem := cache.NewMemory[users.User](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = mem.Close() })
	repo := users.NewCachedRepository(backend, mem, 0)

	u, err := repo.UpsertGoogle(ctx, oauth.UserInfo{ID: "g-1", Email: "a@example.com"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := repo.Get(ctx, u.ID)
			assert.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(0), backend.gets.Load(), "upsert primes the cache")

	missing := uuid.New()
	_, err = repo.Get(ctx, missing)
	require.ErrorIs(t, err, users.ErrNotFound)
	_, err = repo.Get(ctx, missing)
	require.ErrorIs(t, err, users.ErrNotFound)
	assert.Equal(t, int32(2), backend.gets.Load(), "misses are not cached")
}
