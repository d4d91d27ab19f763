package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"
)

type pendingOp struct {
	apply    func(any) any
	snapshot any
	present  bool
	settled  bool
}

// Mutation tracks one optimistic change from provisional apply to settlement.
type Mutation struct {
	done  chan struct{}
	err   error
	key   string
	state atomic.Int32
}

// Key returns the cache key the mutation applies to.
func (m *Mutation) Key() string { return m.key }

// State returns the current lifecycle state.
func (m *Mutation) State() State { return State(m.state.Load()) }

// Done is closed once the mutation has settled.
func (m *Mutation) Done() <-chan struct{} { return m.done }

// Wait blocks until the mutation settles or ctx is done.
// A rolled back mutation returns an error matching ErrRemoteFailure
// and the remote error.
func (m *Mutation) Wait(ctx context.Context) error {
	select {
	case <-m.done:
		return m.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the settlement error, or nil while the mutation is unsettled.
func (m *Mutation) Err() error {
	select {
	case <-m.done:
		return m.err
	default:
		return nil
	}
}

func (m *Mutation) finish(s State, err error) {
	m.err = err
	m.state.Store(int32(s))
	close(m.done)
}

// Mutate applies an optimistic change to key and confirms it remotely.
//
// Before Mutate returns, in-flight fetches of key are cancelled and their
// results invalidated, the current value is snapshotted, and apply has
// been run against it. remote runs in the background. On success the
// change is kept; on failure the snapshot is restored, with any later
// mutations on the same key re-applied on top of it. Either way the key
// is refetched once no mutation holds it anymore.
//
// apply receives the zero value of T when the key holds no data and must
// not call back into the client. If the key holds a value that is not a T,
// nothing is applied and the mutation settles at once with ErrTypeMismatch.
func Mutate[T any](ctx context.Context, c *Client, key string, apply func(T) T, remote func(context.Context) error) *Mutation {
	m := &Mutation{key: key, done: make(chan struct{})}
	op := &pendingOp{
		apply: func(v any) any {
			cur, _ := v.(T)
			return apply(cur)
		},
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		m.finish(StateIdle, ErrClosed)
		return m
	}
	e := c.entryLocked(key)
	if _, ok := e.data.(T); e.hasData && !ok {
		held := fmt.Sprintf("%T", e.data)
		c.mu.Unlock()
		c.logger.ErrorContext(ctx, "mutation skipped: cached value has another type",
			slog.String("key", key),
			slog.String("type", held),
		)
		m.finish(StateIdle, fmt.Errorf("%w: key %q holds %s", ErrTypeMismatch, key, held))
		return m
	}
	c.holdLocked(e)
	op.snapshot, op.present = e.data, e.hasData
	e.pending = append(e.pending, op)
	c.writeLocked(e, op.apply(e.data), true)
	m.state.Store(int32(StateApplied))
	c.wg.Add(1)
	subs := e.subscribers()
	c.mu.Unlock()
	notify(subs)

	go func() {
		defer c.wg.Done()

		err := remote(ctx)
		state := c.settle(ctx, key, op, err)
		c.release(key)

		if err != nil {
			err = errors.Join(ErrRemoteFailure, err)
		}
		m.finish(state, err)
	}()

	return m
}

// settle reconciles the cache after the remote call of op returned.
func (c *Client) settle(ctx context.Context, key string, op *pendingOp, remoteErr error) State {
	c.mu.Lock()
	e := c.entryLocked(key)
	idx := slices.Index(e.pending, op)
	state := StateCommitted

	if remoteErr == nil {
		op.settled = true
	} else {
		state = StateRolledBack
		later := slices.Clone(e.pending[idx+1:])
		e.pending = slices.Delete(e.pending, idx, idx+1)

		if len(later) == 0 {
			c.writeLocked(e, op.snapshot, op.present)
		} else {
			base, present := op.snapshot, op.present
			for _, p := range later {
				p.snapshot, p.present = base, present
				base, present = p.apply(base), true
			}
			c.writeLocked(e, base, present)
		}
	}

	// Drop settled mutations that no earlier pending mutation can rebase over.
	for len(e.pending) > 0 && e.pending[0].settled {
		e.pending = e.pending[1:]
	}

	e.stale = true
	subs := e.subscribers()
	c.mu.Unlock()
	notify(subs)

	if remoteErr != nil {
		c.logger.WarnContext(ctx, "mutation rolled back",
			slog.String("key", key),
			slog.Any("error", remoteErr),
		)
	}
	return state
}
