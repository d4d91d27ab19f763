package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"
)

// Resolver authenticates credential material against a Store.
// It is safe for concurrent use and holds no per-request state.
type Resolver struct {
	store  Store
	now    func() time.Time
	logger *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) {
		if now != nil {
			r.now = now
		}
	}
}

// WithLogger sets the logger used for failure diagnostics.
func WithLogger(l *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewResolver creates a Resolver backed by store.
func NewResolver(store Store, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		store:  store,
		now:    time.Now,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve turns credential material into an AuthContext.
//
// The bearer token wins when both transports are present. Requests without
// any token fail without touching the store. Any failure, including store
// errors, returns ErrUnauthenticated; the reason is only logged.
func (r *Resolver) Resolve(ctx context.Context, m Material) (AuthContext, error) {
	token, source := m.Token()
	if source == SourceNone {
		r.logger.DebugContext(ctx, "no session credentials")
		return AuthContext{}, ErrUnauthenticated
	}

	sess, err := r.store.Lookup(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.DebugContext(ctx, "session not found", slog.String("source", source.String()))
		} else {
			r.logger.ErrorContext(ctx, "session lookup failed",
				slog.String("source", source.String()),
				slog.Any("error", err),
			)
		}
		return AuthContext{}, ErrUnauthenticated
	}

	if sess == nil || sess.UserID == "" {
		r.logger.DebugContext(ctx, "session has no user", slog.String("source", source.String()))
		return AuthContext{}, ErrUnauthenticated
	}

	if !sess.ValidAt(r.now()) {
		r.logger.DebugContext(ctx, "session expired",
			slog.String("source", source.String()),
			slog.String("session_id", sess.ID),
			slog.Time("expires_at", sess.ExpiresAt),
		)
		return AuthContext{}, ErrUnauthenticated
	}

	return AuthContext{
		UserID:    sess.UserID,
		SessionID: sess.ID,
		Token:     token,
	}, nil
}
