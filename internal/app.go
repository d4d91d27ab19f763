package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/job"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second
)

// App is the HTTP API: routes, middleware, session handling and the
// background job manager. All configuration happens in New.
type App struct {
	mux      *chi.Mux
	logger   *slog.Logger
	cookies  *cookie.Manager
	sessions *SessionManager
	jobs     *job.Manager
	health   *healthConfig
	chain    []Middleware
	handlers []Handler

	errorHandler     ErrorHandler
	notFound         HandlerFunc
	methodNotAllowed HandlerFunc
}

// New builds the app and registers every route.
//
//	app := taskmanager.New(
//	    taskmanager.WithMiddleware(middlewares.RequestID()),
//	    taskmanager.WithHandlers(handlers.NewTaskHandler(svc, gate)),
//	)
func New(opts ...Option) *App {
	a := &App{
		mux:     chi.NewRouter(),
		logger:  logger.NewNope(),
		cookies: cookie.New(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.sessions != nil {
		a.sessions.bind(a.logger, a.cookies)
	}
	a.mount()
	return a
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mux.ServeHTTP(w, r)
}

// Run serves on addr until SIGINT, SIGTERM or the WithContext context ends.
// The job manager, when configured, starts before the listener opens and
// stops after requests have drained.
//
//	err := app.Run(":8080", taskmanager.Logger(log))
func (a *App) Run(addr string, opts ...RunOption) error {
	s := newServer(addr, opts...)
	if a.jobs != nil {
		s.startup = append([]hook{a.jobs.StartFunc()}, s.startup...)
		s.shutdown = append([]hook{a.jobs.Shutdown()}, s.shutdown...)
	}
	return s.serve(a.mux)
}

func (a *App) mount() {
	if a.notFound != nil {
		a.mux.NotFound(a.serve(a.notFound))
	}
	if a.methodNotAllowed != nil {
		a.mux.MethodNotAllowed(a.serve(a.methodNotAllowed))
	}
	for _, mw := range a.chain {
		a.mux.Use(a.middleware(mw))
	}
	if a.health != nil {
		a.mountHealth()
	}

	r := &chiRouter{mux: a.mux, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// handleError renders err through the configured ErrorHandler. An error
// that arrives after the response started can only be logged.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.WarnContext(c.Context(), "error after response was written", slog.Any("error", err))
		return
	}
	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			a.logger.ErrorContext(c.Context(), "error handler failed", slog.Any("error", herr))
		}
		return
	}

	code, msg := http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
	if he := AsHTTPError(err); he != nil {
		code, msg = he.Code, he.Message
	}
	http.Error(c.Response(), msg, code)
}
