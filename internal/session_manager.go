package internal

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// SessionManager issues and revokes sessions and manages the session cookie.
// Authenticating requests is the job of the auth gate, not the manager.
type SessionManager struct {
	store      session.Store
	cookies    *cookie.Manager
	logger     *slog.Logger
	now        func() time.Time
	cookieName string
	ttl        time.Duration
	proxied    bool
}

// SessionOption configures the SessionManager.
type SessionOption func(*SessionManager)

// NewSessionManager creates a SessionManager backed by store.
func NewSessionManager(store session.Store, opts ...SessionOption) *SessionManager {
	sm := &SessionManager{
		store:      store,
		cookies:    cookie.New(),
		logger:     logger.NewNope(),
		now:        time.Now,
		cookieName: session.DefaultCookieName,
		ttl:        session.DefaultTTL,
	}

	for _, opt := range opts {
		opt(sm)
	}

	return sm
}

// WithSessionCookieName sets the session cookie name.
func WithSessionCookieName(name string) SessionOption {
	return func(sm *SessionManager) {
		if name != "" {
			sm.cookieName = name
		}
	}
}

// WithSessionTTL sets the lifetime of newly issued sessions.
func WithSessionTTL(ttl time.Duration) SessionOption {
	return func(sm *SessionManager) {
		if ttl > 0 {
			sm.ttl = ttl
		}
	}
}

// WithSessionClock overrides the time source used when issuing sessions.
func WithSessionClock(now func() time.Time) SessionOption {
	return func(sm *SessionManager) {
		if now != nil {
			sm.now = now
		}
	}
}

// WithTrustedProxyHeaders records the client address from X-Forwarded-For
// or X-Real-IP. Enable it only behind a proxy that overwrites those headers.
func WithTrustedProxyHeaders() SessionOption {
	return func(sm *SessionManager) {
		sm.proxied = true
	}
}

// bind is called by App after options are applied.
func (sm *SessionManager) bind(l *slog.Logger, cookies *cookie.Manager) {
	if l != nil {
		sm.logger = l
	}
	if cookies != nil {
		sm.cookies = cookies
	}
}

// Issue creates and stores a new session for userID.
func (sm *SessionManager) Issue(ctx context.Context, r *http.Request, userID string) (*session.Session, error) {
	sess, err := session.New(userID, sm.now(), sm.ttl)
	if err != nil {
		return nil, err
	}
	sess.IP = clientIP(r, sm.proxied)
	sess.UserAgent = r.UserAgent()

	if err := sm.store.Create(ctx, sess); err != nil {
		return nil, err
	}

	sm.logger.InfoContext(ctx, "session issued",
		slog.String("session_id", sess.ID),
		slog.String("user_id", userID),
		slog.Time("expires_at", sess.ExpiresAt),
	)
	return sess, nil
}

// SaveSession writes the session cookie. The cookie expires together
// with the session.
func (sm *SessionManager) SaveSession(w http.ResponseWriter, sess *session.Session) {
	sm.cookies.SetUntil(w, sm.cookieName, sess.Token, sess.ExpiresAt)
}

// Revoke deletes the session identified by token.
func (sm *SessionManager) Revoke(ctx context.Context, token string) error {
	if err := sm.store.Delete(ctx, token); err != nil {
		return err
	}
	sm.logger.InfoContext(ctx, "session revoked")
	return nil
}

// RevokeAll deletes every session of userID.
func (sm *SessionManager) RevokeAll(ctx context.Context, userID string) error {
	if err := sm.store.DeleteByUserID(ctx, userID); err != nil {
		return err
	}
	sm.logger.InfoContext(ctx, "all sessions revoked", slog.String("user_id", userID))
	return nil
}

// ClearCookie expires the session cookie.
func (sm *SessionManager) ClearCookie(w http.ResponseWriter) {
	sm.cookies.Delete(w, sm.cookieName)
}

// CookieName returns the name of the session cookie.
func (sm *SessionManager) CookieName() string {
	return sm.cookieName
}

// Store returns the underlying session store.
func (sm *SessionManager) Store() session.Store {
	return sm.store
}

// clientIP returns the remote address. With proxied set, the first
// X-Forwarded-For hop and then X-Real-IP take precedence.
func clientIP(r *http.Request, proxied bool) string {
	if proxied {
		if ip := forwardedIP(r); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func forwardedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	return strings.TrimSpace(r.Header.Get("X-Real-IP"))
}
