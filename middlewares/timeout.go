package middlewares

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrymomot/taskmanager/internal"
)

// DefaultTimeout applies when Timeout is given a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context. Store calls made with
// c.Context() are cancelled when it passes, and the deadline error they
// return is reported as a *TimeoutError so the error handler answers 504.
//
// The handler runs on the request goroutine, so nothing can write to the
// response after the middleware has returned.
func Timeout(d time.Duration) internal.Middleware {
	if d <= 0 {
		d = DefaultTimeout
	}
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeout(c.Context(), d)
			defer cancel()
			c.SetContext(ctx)

			err := next(c)
			if err == nil || IsTimeoutError(err) {
				return err
			}
			if errors.Is(err, context.DeadlineExceeded) && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				c.LogWarn("request deadline exceeded", "timeout", d.String())
				return errors.Join(&TimeoutError{Duration: d}, err)
			}
			return err
		}
	}
}
