package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory[any])

// Memory keeps values in process. It backs the session store and the user
// cache when no Redis URL is configured, and every test that needs a cache.
//
// Entries expire by TTL. With WithMaxEntries the least recently read entry
// is dropped to make room.
type Memory[V any] struct {
	mu      sync.Mutex
	byKey   map[string]*list.Element
	recency *list.List // front is most recently used
	closed  bool
	stop    chan struct{}

	ttl   time.Duration
	sweep time.Duration
	limit int
	clock func() time.Time
}

type memoryItem[V any] struct {
	key     string
	value   V
	expires time.Time // zero means no expiry
}

func (it *memoryItem[V]) stale(now time.Time) bool {
	return !it.expires.IsZero() && !now.Before(it.expires)
}

// WithDefaultTTL is used for Set calls with a zero TTL. Default: 1 hour.
func WithDefaultTTL(d time.Duration) MemoryOption {
	return func(m *Memory[any]) { m.ttl = d }
}

// WithCleanupInterval sets how often expired entries are swept. Zero turns
// the sweeper off; stale entries are then dropped when read.
// Default: 1 minute.
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(m *Memory[any]) { m.sweep = d }
}

// WithMaxEntries bounds the cache size. Zero means unbounded.
func WithMaxEntries(n int) MemoryOption {
	return func(m *Memory[any]) { m.limit = n }
}

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) MemoryOption {
	return func(m *Memory[any]) {
		if now != nil {
			m.clock = now
		}
	}
}

// NewMemory returns a started cache. Call Close to stop the sweeper.
//
//	sessions := cache.NewMemory[session.Session](cache.WithMaxEntries(10000))
//	defer sessions.Close()
func NewMemory[V any](opts ...MemoryOption) *Memory[V] {
	settings := &Memory[any]{ttl: time.Hour, sweep: time.Minute, clock: time.Now}
	for _, opt := range opts {
		opt(settings)
	}

	m := &Memory[V]{
		byKey:   make(map[string]*list.Element),
		recency: list.New(),
		stop:    make(chan struct{}),
		ttl:     settings.ttl,
		sweep:   settings.sweep,
		limit:   settings.limit,
		clock:   settings.clock,
	}
	if m.sweep > 0 {
		go m.sweeper()
	}
	return m
}

// Get returns ErrNotFound for missing and expired keys.
func (m *Memory[V]) Get(_ context.Context, key string) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var zero V
	el, ok := m.byKey[key]
	if !ok {
		return zero, ErrNotFound
	}
	it := el.Value.(*memoryItem[V])
	if it.stale(m.clock()) {
		m.drop(el)
		return zero, ErrNotFound
	}
	m.recency.MoveToFront(el)
	return it.value, nil
}

func (m *Memory[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}

	it := &memoryItem[V]{key: key, value: value, expires: m.expiry(ttl)}
	if el, ok := m.byKey[key]; ok {
		el.Value = it
		m.recency.MoveToFront(el)
		return nil
	}
	if m.limit > 0 && len(m.byKey) >= m.limit {
		m.drop(m.recency.Back())
	}
	m.byKey[key] = m.recency.PushFront(it)
	return nil
}

// Delete is a no-op for missing keys.
func (m *Memory[V]) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	if el, ok := m.byKey[key]; ok {
		m.drop(el)
	}
	return nil
}

// Len counts stored entries, expired ones the sweeper has not reached included.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.byKey)
}

// Close stops the sweeper. Later writes fail with ErrClosed; reads keep
// working so in-flight requests can finish.
func (m *Memory[V]) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.closed {
		m.closed = true
		close(m.stop)
	}
	return nil
}

func (m *Memory[V]) expiry(ttl time.Duration) time.Time {
	if ttl == 0 {
		ttl = m.ttl
	}
	if ttl < 0 {
		return time.Time{}
	}
	return m.clock().Add(ttl)
}

func (m *Memory[V]) sweeper() {
	t := time.NewTicker(m.sweep)
	defer t.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-t.C:
			m.purge()
		}
	}
}

func (m *Memory[V]) purge() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock()
	for el := m.recency.Front(); el != nil; {
		next := el.Next()
		if el.Value.(*memoryItem[V]).stale(now) {
			m.drop(el)
		}
		el = next
	}
}

// drop needs m.mu held.
func (m *Memory[V]) drop(el *list.Element) {
	if el == nil {
		return
	}
	m.recency.Remove(el)
	delete(m.byKey, el.Value.(*memoryItem[V]).key)
}

var _ Cache[any] = (*Memory[any])(nil)
