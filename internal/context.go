package internal

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// Context is what every HandlerFunc and Middleware receives. It is also a
// context.Context backed by the request's context, so it can be passed
// straight to stores and services.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter

	// Context returns the request's current context.
	Context() context.Context

	// SetContext swaps the request context for everything downstream.
	// Timeout and the auth gate use it to attach deadlines and identity.
	SetContext(ctx context.Context)

	// Set stores value under key in the request context; Get reads it back.
	Set(key, value any)
	Get(key any) any

	// Param reads a chi URL parameter such as {id}.
	Param(name string) string
	Query(name string) string
	QueryDefault(name, fallback string) string
	Header(name string) string

	// BindJSON decodes the body into v. An empty or malformed body, or
	// one over 1MB, becomes a 400 HTTPError.
	BindJSON(v any) error

	SetHeader(name, value string)
	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error

	// Written reports whether the status line has been sent.
	Written() bool

	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// CookieSigned and SetCookieSigned fail with cookie.ErrNoSecret when
	// the app has no cookie secret.
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, ttl time.Duration) error
	DeleteCookie(name string)

	// Auth returns the identity the auth gate attached, if any.
	Auth() (session.AuthContext, bool)
	UserID() string
	IsAuthenticated() bool

	// SignIn starts a session for userID and sets the session cookie.
	SignIn(userID string) (*session.Session, error)

	// SignOut revokes the session behind this request and clears the cookie.
	SignOut() error

	// SignOutEverywhere revokes every session of the signed-in user,
	// including the one behind this request, and clears the cookie.
	SignOutEverywhere() error
}

type requestContext struct {
	w        *ResponseWriter
	r        *http.Request
	log      *slog.Logger
	cookies  *cookie.Manager
	sessions *SessionManager
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{
		w:        rw,
		r:        r,
		log:      app.logger,
		cookies:  app.cookies,
		sessions: app.sessions,
	}
}

func (c *requestContext) Request() *http.Request        { return c.r }
func (c *requestContext) Response() http.ResponseWriter { return c.w }
func (c *requestContext) Context() context.Context      { return c.r.Context() }

func (c *requestContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.r = c.r.WithContext(ctx)
	}
}

func (c *requestContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.r.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.r.Context().Value(key) }

func (c *requestContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *requestContext) Err() error                  { return c.r.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.r.Context().Value(key) }

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.log.InfoContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.log.WarnContext(c.r.Context(), msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.log.ErrorContext(c.r.Context(), msg, attrs...)
}
