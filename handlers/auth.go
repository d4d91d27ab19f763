package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager"
	"github.com/dmitrymomot/taskmanager/pkg/oauth"
	"github.com/dmitrymomot/taskmanager/pkg/session"
	"github.com/dmitrymomot/taskmanager/pkg/users"
)

const (
	// StateCookieName holds the signed OAuth state between redirect and callback.
	StateCookieName = "taskmanager.oauth_state"

	// DefaultStateTTL bounds how long a user may take on the consent page.
	DefaultStateTTL = 10 * time.Minute
)

// UserStore is the part of users.Repository the auth handler needs.
type UserStore interface {
	UpsertGoogle(ctx context.Context, info oauth.UserInfo) (users.User, error)
	Get(ctx context.Context, id uuid.UUID) (users.User, error)
}

// SessionResponse is the body of GET /api/auth/session.
type SessionResponse struct {
	UserID string     `json:"userId"`
	User   users.User `json:"user"`
}

// AuthHandler runs the Google sign-in flow and exposes the current session.
type AuthHandler struct {
	provider oauth.Provider
	users    UserStore
	gate     taskmanager.Middleware
	origins  []*url.URL
	stateTTL time.Duration
}

// AuthOption configures an AuthHandler.
type AuthOption func(*AuthHandler)

// WithTrustedOrigins sets where the flow may redirect after sign-in.
// Web entries ("https://app.example.com") match by scheme and host.
// App entries ("taskmanager://", "exp://") match by scheme and receive the
// session token as a query parameter.
func WithTrustedOrigins(origins ...string) AuthOption {
	return func(h *AuthHandler) {
		for _, o := range origins {
			if u, err := url.Parse(strings.TrimSpace(o)); err == nil && u.Scheme != "" {
				h.origins = append(h.origins, u)
			}
		}
	}
}

// WithStateTTL overrides DefaultStateTTL.
func WithStateTTL(ttl time.Duration) AuthOption {
	return func(h *AuthHandler) {
		if ttl > 0 {
			h.stateTTL = ttl
		}
	}
}

// NewAuthHandler creates the sign-in handler. The app must be configured
// with sessions and a cookie secret. A nil provider leaves the Google routes
// unmounted while session lookup and sign-out keep working.
func NewAuthHandler(provider oauth.Provider, store UserStore, gate taskmanager.Middleware, opts ...AuthOption) *AuthHandler {
	h := &AuthHandler{
		provider: provider,
		users:    store,
		gate:     gate,
		stateTTL: DefaultStateTTL,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Routes implements taskmanager.Handler.
func (h *AuthHandler) Routes(r taskmanager.Router) {
	r.Route("/api/auth", func(r taskmanager.Router) {
		if h.provider != nil {
			r.GET("/google", h.signIn)
			r.GET("/google/callback", h.callback)
		}
		r.POST("/sign-out", h.signOut, h.gate)
		r.POST("/sign-out-all", h.signOutAll, h.gate)
		r.GET("/session", h.session, h.gate)
	})
}

func (h *AuthHandler) signIn(c taskmanager.Context) error {
	redirect := c.QueryDefault("redirect", "/")
	if !h.trusted(redirect) {
		return taskmanager.ErrBadRequest("untrusted redirect")
	}

	state, err := session.NewToken()
	if err != nil {
		return err
	}
	if err := c.SetCookieSigned(StateCookieName, state+"|"+redirect, h.stateTTL); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, h.provider.AuthCodeURL(state))
}

func (h *AuthHandler) callback(c taskmanager.Context) error {
	stored, err := c.CookieSigned(StateCookieName)
	c.DeleteCookie(StateCookieName)
	if err != nil {
		return taskmanager.ErrBadRequest("invalid oauth state", taskmanager.WithError(err))
	}

	state, redirect, ok := strings.Cut(stored, "|")
	got := c.Query("state")
	if !ok || got == "" || subtle.ConstantTimeCompare([]byte(state), []byte(got)) != 1 {
		return taskmanager.ErrBadRequest("invalid oauth state")
	}

	if reason := c.Query("error"); reason != "" {
		c.LogInfo("sign-in declined", "provider", h.provider.Name(), "reason", reason)
		return taskmanager.ErrUnauthorized("sign-in was cancelled")
	}

	info, err := h.provider.Authenticate(c, c.Query("code"))
	if err != nil {
		return taskmanager.ErrUnauthorized("sign-in failed", taskmanager.WithError(err))
	}

	user, err := h.users.UpsertGoogle(c, *info)
	if err != nil {
		return err
	}

	sess, err := c.SignIn(user.ID.String())
	if err != nil {
		return err
	}
	c.LogInfo("user signed in", "user_id", user.ID.String(), "session_id", sess.ID)

	return c.Redirect(http.StatusFound, h.destination(redirect, sess.Token))
}

func (h *AuthHandler) signOut(c taskmanager.Context) error {
	if err := c.SignOut(); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) signOutAll(c taskmanager.Context) error {
	if err := c.SignOutEverywhere(); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *AuthHandler) session(c taskmanager.Context) error {
	uid, err := uuid.Parse(c.UserID())
	if err != nil {
		return taskmanager.ErrUnauthorized("Unauthorized", taskmanager.WithError(err))
	}

	user, err := h.users.Get(c, uid)
	if errors.Is(err, users.ErrNotFound) {
		return taskmanager.ErrUnauthorized("Unauthorized", taskmanager.WithError(err))
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, SessionResponse{UserID: c.UserID(), User: user})
}

// trusted reports whether target is a relative path or matches a trusted origin.
func (h *AuthHandler) trusted(target string) bool {
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	if u.Scheme == "" && u.Host == "" {
		// Reject protocol-relative and backslash tricks like "//evil.com".
		return strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, `\`)
	}
	for _, o := range h.origins {
		if !strings.EqualFold(o.Scheme, u.Scheme) {
			continue
		}
		if isAppScheme(o.Scheme) {
			return true
		}
		if strings.EqualFold(o.Host, u.Host) {
			return true
		}
	}
	return false
}

// destination appends the session token for app redirects, which cannot
// read the cookie set on the API origin.
func (h *AuthHandler) destination(redirect, token string) string {
	u, err := url.Parse(redirect)
	if err != nil || !isAppScheme(u.Scheme) {
		return redirect
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

func isAppScheme(scheme string) bool {
	return scheme != "" && !strings.EqualFold(scheme, "http") && !strings.EqualFold(scheme, "https")
}
