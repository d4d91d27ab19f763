package internal

import (
	"errors"
	"time"

	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// ErrSessionsNotConfigured is returned by SignIn and SignOut on an app
// built without WithSessions.
var ErrSessionsNotConfigured = errors.New("sessions not configured")

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.cookies.GetSigned(c.r, name)
}

func (c *requestContext) SetCookieSigned(name, value string, ttl time.Duration) error {
	return c.cookies.SetSigned(c.w, name, value, ttl)
}

func (c *requestContext) DeleteCookie(name string) { c.cookies.Delete(c.w, name) }

func (c *requestContext) Auth() (session.AuthContext, bool) {
	return session.FromContext(c.r.Context())
}

func (c *requestContext) UserID() string        { return session.UserIDFromContext(c.r.Context()) }
func (c *requestContext) IsAuthenticated() bool { return c.UserID() != "" }

func (c *requestContext) SignIn(userID string) (*session.Session, error) {
	if c.sessions == nil {
		return nil, ErrSessionsNotConfigured
	}
	sess, err := c.sessions.Issue(c.r.Context(), c.r, userID)
	if err != nil {
		return nil, err
	}
	c.sessions.SaveSession(c.w, sess)
	return sess, nil
}

func (c *requestContext) SignOut() error {
	if c.sessions == nil {
		return ErrSessionsNotConfigured
	}
	if ac, ok := c.Auth(); ok && ac.Token != "" {
		if err := c.sessions.Revoke(c.r.Context(), ac.Token); err != nil {
			return err
		}
	}
	c.sessions.ClearCookie(c.w)
	return nil
}

func (c *requestContext) SignOutEverywhere() error {
	if c.sessions == nil {
		return ErrSessionsNotConfigured
	}
	if uid := c.UserID(); uid != "" {
		if err := c.sessions.RevokeAll(c.r.Context(), uid); err != nil {
			return err
		}
	}
	c.sessions.ClearCookie(c.w)
	return nil
}
