package health

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/taskmanager/pkg/logger"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

var (
	// ErrCheckFailed is joined into Run's error when any check fails.
	ErrCheckFailed = errors.New("health: check failed")

	// ErrCheckTimeout marks a check that did not finish before the deadline.
	ErrCheckTimeout = errors.New("health: check timeout")
)

// CheckFunc has the shape of db.Healthcheck, redis.Healthcheck and job.Healthcheck.
type CheckFunc func(ctx context.Context) error

// Checks are keyed by the name reported in the response.
type Checks map[string]CheckFunc

// Response is the health endpoint body.
type Response struct {
	Status string           `json:"status"`
	Checks map[string]Check `json:"checks,omitempty"`
}

// Check is one named result. Error is only filled in by Run; the HTTP
// handler leaves it out so connection strings never reach a caller.
type Check struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Option tunes Run and ReadinessHandler.
type Option func(*runner)

type runner struct {
	timeout time.Duration
	log     *slog.Logger
}

// WithTimeout caps the whole run. Default: 5 seconds.
func WithTimeout(d time.Duration) Option {
	return func(r *runner) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithLogger receives a warning per failed check.
func WithLogger(l *slog.Logger) Option {
	return func(r *runner) {
		if l != nil {
			r.log = l
		}
	}
}

func newRunner(opts []Option) *runner {
	r := &runner{timeout: 5 * time.Second, log: logger.NewNope()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes all checks at once. It returns nil when every check passes,
// otherwise ErrCheckFailed joined with each failure.
func Run(ctx context.Context, checks Checks, opts ...Option) (*Response, error) {
	return newRunner(opts).run(ctx, checks)
}

func (r *runner) run(ctx context.Context, checks Checks) (*Response, error) {
	resp := &Response{Status: StatusHealthy}
	if len(checks) == 0 {
		return resp, nil
	}
	resp.Checks = make(map[string]Check, len(checks))

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var (
		mu     sync.Mutex
		failed = []error{ErrCheckFailed}
		g      errgroup.Group
	)
	for name, check := range checks {
		g.Go(func() error {
			err := check(ctx)
			if errors.Is(err, context.DeadlineExceeded) {
				err = errors.Join(ErrCheckTimeout, err)
			}

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				resp.Checks[name] = Check{Status: StatusHealthy}
				return nil
			}
			r.log.WarnContext(ctx, "health check failed", slog.String("check", name), slog.Any("error", err))
			resp.Checks[name] = Check{Status: StatusUnhealthy, Error: err.Error()}
			failed = append(failed, err)
			return nil
		})
	}
	_ = g.Wait()

	if len(failed) > 1 {
		resp.Status = StatusUnhealthy
		return resp, errors.Join(failed...)
	}
	return resp, nil
}
