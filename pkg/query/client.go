package query

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Fetcher loads the authoritative value of a key from the server.
type Fetcher func(ctx context.Context) (any, error)

type entry struct {
	data       any
	err        error
	updatedAt  time.Time
	cancel     context.CancelFunc // cancels the in-flight fetch
	subs       map[uint64]func()
	pending    []*pendingOp // outstanding mutations in issue order
	generation uint64
	inflight   uint64 // generation stamped on the in-flight fetch, 0 if none
	status     Status
	holds      int
	hasData    bool
	stale      bool // refetch requested while held
}

func (e *entry) settledStatus() Status {
	switch {
	case e.err != nil:
		return StatusError
	case e.hasData:
		return StatusSuccess
	default:
		return StatusIdle
	}
}

func (e *entry) subscribers() []func() {
	if len(e.subs) == 0 {
		return nil
	}
	fns := make([]func(), 0, len(e.subs))
	for _, fn := range e.subs {
		fns = append(fns, fn)
	}
	return fns
}

// Client is a client-side cache of server state keyed by string.
//
// Every write to a key bumps its generation. A fetch remembers the
// generation it started with and only writes its result if nothing
// changed the key in the meantime, so late responses never overwrite
// newer local state.
type Client struct {
	entries  map[string]*entry
	fetchers map[string]Fetcher
	logger   *slog.Logger
	baseCtx  context.Context
	cancel   context.CancelFunc
	now      func() time.Time
	wg       sync.WaitGroup
	mu       sync.Mutex
	nextSub  uint64
	closed   bool
}

// New creates an empty cache client.
func New(opts ...Option) *Client {
	c := &Client{
		entries:  make(map[string]*entry),
		fetchers: make(map[string]Fetcher),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		baseCtx:  context.Background(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.baseCtx, c.cancel = context.WithCancel(c.baseCtx)
	return c
}

// SetFetcher registers the authoritative loader for key.
func (c *Client) SetFetcher(key string, fn Fetcher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fetchers[key] = fn
}

// Register registers a typed loader for key.
func Register[T any](c *Client, key string, fn func(ctx context.Context) (T, error)) {
	c.SetFetcher(key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
}

// GetData returns the cached value of key if present and of type T.
func GetData[T any](c *Client, key string) (T, bool) {
	v, ok := c.Data(key)
	if !ok {
		var zero T
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// SetData replaces the cached value of key.
// In-flight fetches for the key become stale.
func SetData[T any](c *Client, key string, v T) {
	c.write(key, v, true)
}

// Data returns the cached value of key and whether one is present.
func (c *Client) Data(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok || !e.hasData {
		return nil, false
	}
	return e.data, true
}

// Remove drops the cached value of key.
func (c *Client) Remove(key string) {
	c.write(key, nil, false)
}

// Status returns the fetch status of key.
func (c *Client) Status(key string) Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.status
	}
	return StatusIdle
}

// Err returns the error of the last failed fetch of key, if it is still current.
func (c *Client) Err(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.err
	}
	return nil
}

// Generation returns the current generation counter of key.
func (c *Client) Generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[key]; ok {
		return e.generation
	}
	return 0
}

// Pending returns the number of unsettled mutations on key.
func (c *Client) Pending(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0
	}
	n := 0
	for _, op := range e.pending {
		if !op.settled {
			n++
		}
	}
	return n
}

// Subscribe registers fn to be called after every change of key.
// fn runs outside the client lock and may read from the client.
func (c *Client) Subscribe(key string, fn func()) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entryLocked(key)
	if e.subs == nil {
		e.subs = make(map[uint64]func())
	}
	c.nextSub++
	id := c.nextSub
	e.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(e.subs, id)
	}
}

// Fetch loads key from its fetcher and stores the result.
//
// Returns ErrSuspended without fetching while a mutation holds the key;
// the fetch then runs once the hold is released. Returns ErrStaleResult
// if the key changed before the fetcher returned, in which case the
// result is dropped.
func (c *Client) Fetch(ctx context.Context, key string) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	fn, ok := c.fetchers[key]
	if !ok {
		c.mu.Unlock()
		return ErrNoFetcher
	}
	e := c.entryLocked(key)
	if e.holds > 0 {
		e.stale = true
		c.mu.Unlock()
		return ErrSuspended
	}

	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	gen := e.generation
	fctx, cancel := context.WithCancel(ctx)
	e.cancel, e.inflight = cancel, gen
	e.status = StatusFetching
	subs := e.subscribers()
	c.mu.Unlock()
	notify(subs)

	v, err := fn(fctx)
	cancel()

	c.mu.Lock()
	if e.inflight == gen {
		e.inflight, e.cancel = 0, nil
	}
	if e.generation != gen {
		c.mu.Unlock()
		c.logger.DebugContext(ctx, "discarding stale fetch result", slog.String("key", key))
		return ErrStaleResult
	}
	if err != nil {
		e.status, e.err = StatusError, err
	} else {
		e.data, e.hasData, e.err = v, true, nil
		e.status, e.updatedAt = StatusSuccess, c.now()
	}
	subs = e.subscribers()
	c.mu.Unlock()
	notify(subs)

	if err != nil {
		return errors.Join(ErrFetchFailed, err)
	}
	return nil
}

// Invalidate marks key as outdated and refetches it.
// While the key is held the refetch is deferred until the last hold is released.
func (c *Client) Invalidate(ctx context.Context, key string) error {
	err := c.Fetch(ctx, key)
	switch {
	case err == nil,
		errors.Is(err, ErrSuspended),
		errors.Is(err, ErrStaleResult),
		errors.Is(err, ErrNoFetcher):
		return nil
	default:
		return err
	}
}

// Cancel aborts the in-flight fetch of key, if any. Its result is
// discarded even if the fetcher ignores cancellation.
func (c *Client) Cancel(key string) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok || e.cancel == nil {
		c.mu.Unlock()
		return
	}
	e.cancel()
	e.cancel, e.inflight = nil, 0
	e.generation++
	e.status = e.settledStatus()
	subs := e.subscribers()
	c.mu.Unlock()
	notify(subs)
}

// Suspend cancels any in-flight fetch of key and holds the key until
// release is called. While held, fetches are deferred. Calling release
// more than once has no effect.
func (c *Client) Suspend(key string) (release func()) {
	c.mu.Lock()
	c.holdLocked(c.entryLocked(key))
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { c.release(key) })
	}
}

// Close cancels background refetches and waits for outstanding
// mutations and refetches to finish.
func (c *Client) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	for _, e := range c.entries {
		if e.cancel != nil {
			e.cancel()
		}
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

func (c *Client) entryLocked(key string) *entry {
	e, ok := c.entries[key]
	if !ok {
		e = &entry{}
		c.entries[key] = e
	}
	return e
}

func (c *Client) write(key string, v any, present bool) {
	c.mu.Lock()
	e := c.entryLocked(key)
	c.writeLocked(e, v, present)
	subs := e.subscribers()
	c.mu.Unlock()
	notify(subs)
}

// writeLocked stores a value and bumps the generation. Caller holds c.mu.
func (c *Client) writeLocked(e *entry, v any, present bool) {
	e.generation++
	e.err = nil
	if present {
		e.data, e.hasData = v, true
		e.status, e.updatedAt = StatusSuccess, c.now()
		return
	}
	e.data, e.hasData = nil, false
	e.status, e.updatedAt = StatusIdle, time.Time{}
}

// holdLocked cancels the in-flight fetch and invalidates its result. Caller holds c.mu.
func (c *Client) holdLocked(e *entry) {
	e.holds++
	if e.cancel != nil {
		e.cancel()
		e.cancel, e.inflight = nil, 0
		if e.status == StatusFetching {
			e.status = e.settledStatus()
		}
	}
	e.generation++
}

func (c *Client) release(key string) {
	c.mu.Lock()
	e := c.entryLocked(key)
	e.holds--
	refetch := e.holds == 0 && e.stale && !c.closed
	if refetch {
		e.stale = false
		c.wg.Add(1)
	}
	c.mu.Unlock()

	if refetch {
		go func() {
			defer c.wg.Done()
			c.refetch(key)
		}()
	}
}

func (c *Client) refetch(key string) {
	err := c.Fetch(c.baseCtx, key)
	switch {
	case err == nil,
		errors.Is(err, ErrNoFetcher),
		errors.Is(err, ErrSuspended),
		errors.Is(err, ErrStaleResult),
		errors.Is(err, ErrClosed),
		errors.Is(err, context.Canceled):
		return
	}
	c.logger.WarnContext(c.baseCtx, "background refetch failed",
		slog.String("key", key),
		slog.Any("error", err),
	)
}

func notify(fns []func()) {
	for _, fn := range fns {
		fn()
	}
}
