package query_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/query"
)

func TestClient_SetAndGetData(t *testing.T) {
	t.Parallel()

	c := query.New()
	t.Cleanup(func() { _ = c.Close() })

	_, ok := query.GetData[int](c, "n")
	assert.False(t, ok)
	assert.Equal(t, query.StatusIdle, c.Status("n"))

	query.SetData(c, "n", 42)
	v, ok := query.GetData[int](c, "n")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, query.StatusSuccess, c.Status("n"))
	assert.Equal(t, uint64(1), c.Generation("n"))

	_, ok = query.GetData[string](c, "n")
	assert.False(t, ok, "wrong type must not match")

	c.Remove("n")
	_, ok = c.Data("n")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), c.Generation("n"))
}

func TestClient_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("stores fetched value", func(t *testing.T) {
		t.Parallel()

		c := query.New()
		t.Cleanup(func() { _ = c.Close() })
		query.Register(c, "k", func(context.Context) (string, error) { return "v", nil })

		require.NoError(t, c.Fetch(context.Background(), "k"))
		v, ok := query.GetData[string](c, "k")
		require.True(t, ok)
		assert.Equal(t, "v", v)
		assert.Equal(t, query.StatusSuccess, c.Status("k"))
	})

	t.Run("no fetcher", func(t *testing.T) {
		t.Parallel()

		c := query.New()
		t.Cleanup(func() { _ = c.Close() })
		assert.ErrorIs(t, c.Fetch(context.Background(), "k"), query.ErrNoFetcher)
	})

	t.Run("fetch error keeps previous data", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		c := query.New()
		t.Cleanup(func() { _ = c.Close() })
		query.SetData(c, "k", 1)
		query.Register(c, "k", func(context.Context) (int, error) { return 0, boom })

		err := c.Fetch(context.Background(), "k")
		require.ErrorIs(t, err, query.ErrFetchFailed)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, query.StatusError, c.Status("k"))
		assert.ErrorIs(t, c.Err("k"), boom)

		v, ok := query.GetData[int](c, "k")
		require.True(t, ok)
		assert.Equal(t, 1, v)
	})

	t.Run("closed client", func(t *testing.T) {
		t.Parallel()

		c := query.New()
		query.Register(c, "k", func(context.Context) (int, error) { return 1, nil })
		require.NoError(t, c.Close())
		assert.ErrorIs(t, c.Fetch(context.Background(), "k"), query.ErrClosed)
	})
}

func TestClient_StaleFetchDiscarded(t *testing.T) {
	t.Parallel()

	c := query.New()
	t.Cleanup(func() { _ = c.Close() })

	started := make(chan struct{})
	unblock := make(chan struct{})
	query.Register(c, "k", func(context.Context) (string, error) {
		close(started)
		<-unblock
		return "server", nil
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Fetch(context.Background(), "k") }()

	<-started
	assert.Equal(t, query.StatusFetching, c.Status("k"))
	query.SetData(c, "k", "local")
	close(unblock)

	require.ErrorIs(t, <-errc, query.ErrStaleResult)
	v, _ := query.GetData[string](c, "k")
	assert.Equal(t, "local", v)
	assert.Equal(t, query.StatusSuccess, c.Status("k"))
}

func TestClient_SuspendDefersFetch(t *testing.T) {
	t.Parallel()

	c := query.New()
	t.Cleanup(func() { _ = c.Close() })

	var calls atomic.Int32
	query.Register(c, "k", func(context.Context) (int, error) {
		return int(calls.Add(1)), nil
	})

	release := c.Suspend("k")
	require.ErrorIs(t, c.Fetch(context.Background(), "k"), query.ErrSuspended)
	require.NoError(t, c.Invalidate(context.Background(), "k"))
	assert.Equal(t, int32(0), calls.Load())

	release()
	release() // no-op

	require.Eventually(t, func() bool {
		v, ok := query.GetData[int](c, "k")
		return ok && v == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), calls.Load(), "deferred fetches collapse into one")
}

func TestClient_SuspendCancelsInflightFetch(t *testing.T) {
	t.Parallel()

	c := query.New()
	t.Cleanup(func() { _ = c.Close() })

	started := make(chan struct{})
	query.Register(c, "k", func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Fetch(context.Background(), "k") }()
	<-started

	release := c.Suspend("k")
	require.ErrorIs(t, <-errc, query.ErrStaleResult)
	assert.Equal(t, query.StatusIdle, c.Status("k"))

	c.SetFetcher("k", func(context.Context) (any, error) { return 7, nil })
	release()

	// Nothing was requested while held, so no refetch happens.
	time.Sleep(20 * time.Millisecond)
	_, ok := c.Data("k")
	assert.False(t, ok)
}

func TestClient_Subscribe(t *testing.T) {
	t.Parallel()

	c := query.New()
	t.Cleanup(func() { _ = c.Close() })

	var n atomic.Int32
	unsubscribe := c.Subscribe("k", func() { n.Add(1) })

	query.SetData(c, "k", 1)
	query.SetData(c, "other", 1)
	assert.Equal(t, int32(1), n.Load())

	unsubscribe()
	query.SetData(c, "k", 2)
	assert.Equal(t, int32(1), n.Load())
}

func TestStatus_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", query.StatusIdle.String())
	assert.Equal(t, "fetching", query.StatusFetching.String())
	assert.Equal(t, "success", query.StatusSuccess.String())
	assert.Equal(t, "error", query.StatusError.String())
	assert.Equal(t, "rolled_back", query.StateRolledBack.String())
	assert.True(t, query.StateCommitted.Settled())
	assert.False(t, query.StateApplied.Settled())
}

func TestClient_Cancel(t *testing.T) {
	t.Parallel()

	c := newClient(t)
	query.SetData(c, "k", "old")

	started := make(chan struct{})
	query.Register(c, "k", func(ctx context.Context) (string, error) {
		close(started)
		<-ctx.Done()
		return "new", nil
	})

	errc := make(chan error, 1)
	go func() { errc <- c.Fetch(context.Background(), "k") }()
	<-started

	c.Cancel("k")
	require.ErrorIs(t, <-errc, query.ErrStaleResult)
	assert.Equal(t, query.StatusSuccess, c.Status("k"))
	v, _ := query.GetData[string](c, "k")
	assert.Equal(t, "old", v)

	c.Cancel("missing") // no-op
}
