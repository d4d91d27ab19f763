package query

import (
	"context"
	"log/slog"
	"time"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger for background refetch and rollback diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithBaseContext sets the parent context of background refetches.
// Cancelling it stops pending refetches; Close cancels it as well.
func WithBaseContext(ctx context.Context) Option {
	return func(c *Client) {
		if ctx != nil {
			c.baseCtx = ctx
		}
	}
}

// WithClock overrides the time source used for UpdatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
