package middlewares

import (
	"runtime"

	"github.com/dmitrymomot/taskmanager/internal"
)

// DefaultStackSize caps the captured stack in bytes.
const DefaultStackSize = 4096

type recoverSettings struct {
	stackSize int // 0 disables capture
}

// RecoverOption configures Recover.
type RecoverOption func(*recoverSettings)

// WithRecoverStackSize changes the stack capture limit. Non-positive
// sizes keep DefaultStackSize.
func WithRecoverStackSize(size int) RecoverOption {
	return func(s *recoverSettings) {
		if size > 0 {
			s.stackSize = size
		}
	}
}

// WithRecoverDisableStack logs panics without a stack.
func WithRecoverDisableStack() RecoverOption {
	return func(s *recoverSettings) { s.stackSize = 0 }
}

// Recover converts a panicking handler into a *PanicError, which the error
// handler renders as a 500 with the request ID.
func Recover(opts ...RecoverOption) internal.Middleware {
	s := &recoverSettings{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(s)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				pe := &PanicError{Value: v}
				attrs := []any{"panic", v, "method", c.Request().Method, "path", c.Request().URL.Path}
				if s.stackSize > 0 {
					buf := make([]byte, s.stackSize)
					pe.Stack = buf[:runtime.Stack(buf, false)]
					attrs = append(attrs, "stack", string(pe.Stack))
				}
				c.LogError("panic recovered", attrs...)
				err = pe
			}()
			return next(c)
		}
	}
}
