package internal

import (
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/job"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// Option configures an App in New.
type Option func(*App)

// WithMiddleware appends app-wide middleware. The first one listed runs outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) { a.chain = append(a.chain, mw...) }
}

func WithHandlers(h ...Handler) Option {
	return func(a *App) { a.handlers = append(a.handlers, h...) }
}

// WithErrorHandler renders errors returned by handlers and middleware.
// Without one, errors become plain-text responses.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) { a.errorHandler = h }
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) { a.notFound = h }
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) { a.methodNotAllowed = h }
}

// WithHealthChecks mounts a liveness endpoint that always answers 200 and a
// readiness endpoint that runs the configured checks.
//
//	taskmanager.WithHealthChecks(
//	    taskmanager.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{live: "/health/live", ready: "/health/ready"}
		for _, opt := range opts {
			opt(cfg)
		}
		a.health = cfg
	}
}

// WithLogger is shared by the request context, the session manager and the
// health endpoints. A nil logger is ignored.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieOptions replaces the cookie manager. The session cookie is
// written through it, so the secret set here also signs OAuth state.
//
//	taskmanager.WithCookieOptions(
//	    cookie.WithSecret(cfg.CookieSecret),
//	    cookie.WithSecure(cfg.CookieSecure),
//	)
func WithCookieOptions(opts ...cookie.Option) Option {
	return func(a *App) { a.cookies = cookie.New(opts...) }
}

// WithSessions backs Context.SignIn and Context.SignOut with store.
func WithSessions(store session.Store, opts ...SessionOption) Option {
	return func(a *App) { a.sessions = NewSessionManager(store, opts...) }
}

// WithJobs runs River periodic tasks for the lifetime of Run.
// A manager that cannot be built is a wiring bug, so New panics.
//
//	taskmanager.WithJobs(pool,
//	    job.WithPeriodicTask(session.NewCleanupTask(store, schedule, log)),
//	)
func WithJobs(pool *pgxpool.Pool, opts ...job.Option) Option {
	return func(a *App) {
		m, err := job.NewManager(pool, opts...)
		if err != nil {
			panic(fmt.Sprintf("taskmanager: build job manager: %v", err))
		}
		a.jobs = m
	}
}
