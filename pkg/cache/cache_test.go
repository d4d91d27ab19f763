package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 42, time.Minute))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 42, v)
	})

	t.Run("entry expires at its deadline", func(t *testing.T) {
		t.Parallel()
		clk := &clock{now: time.Now()}
		c := cache.NewMemory[string](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
		clk.Advance(59 * time.Second)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		clk.Advance(time.Second)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Zero(t, c.Len())
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		clk := &clock{now: time.Now()}
		c := cache.NewMemory[string](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", -1))
		clk.Advance(24 * 365 * time.Hour)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithMaxEntries(2))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
		require.NoError(t, c.Set(ctx, "b", 2, time.Minute))
		_, err := c.Get(ctx, "a")
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, "c", 3, time.Minute))

		_, err = c.Get(ctx, "b")
		require.ErrorIs(t, err, cache.ErrNotFound)
		_, err = c.Get(ctx, "a")
		require.NoError(t, err)
	})

	t.Run("delete and closed cache", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))

		require.NoError(t, c.Set(ctx, "a", 1, time.Minute))
		require.NoError(t, c.Delete(ctx, "a"))
		require.NoError(t, c.Delete(ctx, "a"))
		_, err := c.Get(ctx, "a")
		require.ErrorIs(t, err, cache.ErrNotFound)

		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "a", 1, time.Minute), cache.ErrClosed)
	})

	t.Run("janitor removes expired entries", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "a", 1, time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once under concurrent misses", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		var calls atomic.Int32
		release := make(chan struct{})

		var wg sync.WaitGroup
		results := make([]string, 8)
		for i := range results {
			wg.Add(1)
			go func() {
				defer wg.Done()
				v, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (string, time.Duration, error) {
					calls.Add(1)
					<-release
					return "loaded", time.Minute, nil
				})
				assert.NoError(t, err)
				results[i] = v
			}()
		}

		require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
		time.Sleep(20 * time.Millisecond) // let the remaining callers join the flight
		close(release)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			require.Equal(t, "loaded", v)
		}

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "loaded", v)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("hit skips the loader", func(t *testing.T) {
		t.Parallel()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 7, time.Minute))
		v, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
			t.Fatal("loader must not run on a hit")
			return 0, 0, nil
		})
		require.NoError(t, err)
		require.Equal(t, 7, v)
	})
}
