package taskmanager

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/taskmanager/internal"
	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/health"
	"github.com/dmitrymomot/taskmanager/pkg/job"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, background jobs and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// CookieOption configures the cookie manager.
	CookieOption = cookie.Option

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// SessionStore persists sessions.
	SessionStore = session.Store

	// ResponseWriter wraps http.ResponseWriter and tracks what was written.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error carrying an HTTP status code and a client-safe message.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// JobOption configures the background job manager.
	JobOption = job.Option
)

// ErrSessionsNotConfigured is returned by Context.SignIn and Context.SignOut
// when the app was built without WithSessions.
var ErrSessionsNotConfigured = internal.ErrSessionsNotConfigured

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := taskmanager.New(
//	    taskmanager.WithLogger(log),
//	    taskmanager.WithSessions(store),
//	    taskmanager.WithHandlers(
//	        handlers.NewTaskHandler(svc, gate),
//	    ),
//	)
//
//	err := app.Run(":8080", taskmanager.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// App options

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithErrorHandler sets a custom error handler for handler errors.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live) always reports healthy while the process runs.
// Readiness (/health/ready) runs all configured checks.
//
//	taskmanager.WithHealthChecks(
//	    taskmanager.WithReadinessCheck("db", db.Healthcheck(pool)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookieOptions configures the cookie manager.
func WithCookieOptions(opts ...CookieOption) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSessions enables Context.SignIn and Context.SignOut backed by store.
func WithSessions(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSessions(store, opts...)
}

// WithJobs starts a background job manager together with the HTTP server.
// Panics if the manager cannot be created.
func WithJobs(pool *pgxpool.Pool, opts ...JobOption) Option {
	return internal.WithJobs(pool, opts...)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Cookie options

func WithCookieSecret(secret string) CookieOption { return cookie.WithSecret(secret) }
func WithCookieDomain(domain string) CookieOption { return cookie.WithDomain(domain) }
func WithCookiePath(path string) CookieOption { return cookie.WithPath(path) }
func WithCookieSecure(secure bool) CookieOption { return cookie.WithSecure(secure) }
func WithCookieHTTPOnly(httpOnly bool) CookieOption { return cookie.WithHTTPOnly(httpOnly) }
func WithCookieSameSite(ss http.SameSite) CookieOption { return cookie.WithSameSite(ss) }

// Session options

// WithSessionCookieName overrides the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithTrustedProxyHeaders takes the session client address from
// X-Forwarded-For or X-Real-IP instead of the connection.
func WithTrustedProxyHeaders() SessionOption {
	return internal.WithTrustedProxyHeaders()
}

// WithSessionTTL sets the lifetime of issued sessions.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return internal.WithSessionTTL(ttl)
}

// Run options

// Logger sets the logger used by the server runtime.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function run before the server starts listening.
// A failing hook aborts startup.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a function run after the server stopped.
// Hooks run in registration order.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context. Cancelling it triggers shutdown.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

func WithError(err error) HTTPErrorOption { return internal.WithError(err) }

func ErrBadRequest(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrBadRequest(message, opts...)
}

func ErrUnauthorized(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrUnauthorized(message, opts...)
}

func ErrNotFound(message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.ErrNotFound(message, opts...)
}

// IsHTTPError reports whether err wraps an HTTPError.
func IsHTTPError(err error) bool { return internal.IsHTTPError(err) }

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError { return internal.AsHTTPError(err) }

// Helpers

// ContextValue retrieves a typed value from the request context.
// Returns the zero value if the key is missing or holds another type.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// ParamUUID parses the named URL parameter as a UUID.
// Returns a 400 HTTPError with message if it is not one.
func ParamUUID(c Context, name, message string) (uuid.UUID, error) {
	return internal.ParamUUID(c, name, message)
}
