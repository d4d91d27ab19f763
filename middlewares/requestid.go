package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/taskmanager/internal"
	"github.com/dmitrymomot/taskmanager/pkg/id"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
)

type requestIDKey struct{}

// DefaultRequestIDHeaders are read in order for an ID set by a proxy.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

type requestIDSettings struct {
	accept []string
	echo   string
	mint   func() string
}

// RequestIDOption configures RequestID.
type RequestIDOption func(*requestIDSettings)

// WithRequestIDHeaders replaces the headers an upstream ID is read from.
func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(s *requestIDSettings) { s.accept = headers }
}

// WithRequestIDGenerator mints IDs when none arrived. Default: id.NewULID.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(s *requestIDSettings) {
		if gen != nil {
			s.mint = gen
		}
	}
}

// WithRequestIDResponseHeader names the header the ID is echoed in.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(s *requestIDSettings) { s.echo = header }
}

// RequestID gives every request an ID for logs and error bodies. An
// upstream ID is kept if it is at most 128 visible ASCII characters;
// anything else is replaced so clients cannot forge log lines.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	s := &requestIDSettings{
		accept: DefaultRequestIDHeaders,
		echo:   "X-Request-ID",
		mint:   id.NewULID,
	}
	for _, opt := range opts {
		opt(s)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			rid := ""
			for _, h := range s.accept {
				if v := c.Header(h); usableRequestID(v) {
					rid = v
					break
				}
			}
			if rid == "" {
				rid = s.mint()
			}
			c.Set(requestIDKey{}, rid)
			c.SetHeader(s.echo, rid)
			return next(c)
		}
	}
}

func usableRequestID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for i := range len(v) {
		if v[i] <= ' ' || v[i] > '~' {
			return false
		}
	}
	return true
}

// GetRequestID returns the ID RequestID assigned, or "".
func GetRequestID(c internal.Context) string {
	v, _ := c.Get(requestIDKey{}).(string)
	return v
}

// RequestIDExtractor adds request_id to every log line written with the
// request context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		v, _ := ctx.Value(requestIDKey{}).(string)
		return slog.String("request_id", v), v != ""
	}
}
