package middlewares

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/taskmanager/internal"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// Authenticator resolves request credentials into an identity.
// *session.Resolver implements it.
type Authenticator interface {
	Resolve(ctx context.Context, m session.Material) (session.AuthContext, error)
}

// AuthConfig configures the auth gate.
type AuthConfig struct {
	CookieName string
	Message    string // body of the 401 response
}

// AuthOption configures AuthConfig.
type AuthOption func(*AuthConfig)

// WithAuthCookieName sets the session cookie the gate reads.
func WithAuthCookieName(name string) AuthOption {
	return func(cfg *AuthConfig) {
		if name != "" {
			cfg.CookieName = name
		}
	}
}

// Auth returns middleware that admits only requests carrying a valid session.
//
// Credentials are resolved on every request, from the Authorization bearer
// token or the session cookie. On success the identity is bound to the
// request context and read downstream with c.Auth, c.UserID or
// GetAuthContext. On failure the handler is not called and a 401 HTTPError
// is returned; the reason is never exposed to the client.
func Auth(auth Authenticator, opts ...AuthOption) internal.Middleware {
	cfg := &AuthConfig{
		CookieName: session.DefaultCookieName,
		Message:    "Unauthorized",
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			m := session.MaterialFromRequest(c.Request(), cfg.CookieName)

			ac, err := auth.Resolve(c.Context(), m)
			if err != nil {
				return internal.ErrUnauthorized(cfg.Message, internal.WithError(err))
			}

			c.SetContext(session.WithAuthContext(c.Context(), ac))
			return next(c)
		}
	}
}

// GetAuthContext returns the identity bound by Auth.
func GetAuthContext(c internal.Context) (session.AuthContext, bool) {
	return session.FromContext(c.Context())
}

// UserIDExtractor returns a ContextExtractor for use with the logger.
// Adds "user_id" to log entries of authenticated requests.
func UserIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id := session.UserIDFromContext(ctx); id != "" {
			return slog.String("user_id", id), true
		}
		return slog.Attr{}, false
	}
}
