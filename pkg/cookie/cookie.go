package cookie

import (
	"errors"
	"net/http"
	"time"
)

// MinSecretLength is the shortest secret WithSecret accepts. Config
// validation uses it to reject weak COOKIE_SECRET values at startup.
const MinSecretLength = 32

// Manager writes cookies that share one set of attributes. The server
// uses it for the session cookie and for the signed OAuth state cookie.
type Manager struct {
	base   http.Cookie
	secret []byte
	now    func() time.Time
}

// Option adjusts the attributes every cookie is written with.
type Option func(*Manager)

// New returns a Manager writing Path=/ HttpOnly SameSite=Lax cookies.
func New(opts ...Option) *Manager {
	m := &Manager{
		base: http.Cookie{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables SetSigned and GetSigned. A secret shorter than
// MinSecretLength leaves them disabled.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLength {
			m.secret = []byte(secret)
		}
	}
}

func WithDomain(domain string) Option     { return func(m *Manager) { m.base.Domain = domain } }
func WithPath(path string) Option         { return func(m *Manager) { m.base.Path = path } }
func WithSecure(on bool) Option           { return func(m *Manager) { m.base.Secure = on } }
func WithHTTPOnly(on bool) Option         { return func(m *Manager) { m.base.HttpOnly = on } }
func WithSameSite(s http.SameSite) Option { return func(m *Manager) { m.base.SameSite = s } }

// WithClock replaces time.Now when computing expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// Get returns ErrNotFound when the request has no cookie called name.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes name=value. A zero maxAge lasts until the browser closes.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge int) {
	http.SetCookie(w, m.build(name, value, maxAge))
}

// SetUntil writes a cookie that expires with the thing it carries, such as
// a session. An instant already in the past deletes the cookie instead.
func (m *Manager) SetUntil(w http.ResponseWriter, name, value string, expires time.Time) {
	secs := int(expires.Sub(m.now()).Seconds())
	if secs <= 0 {
		m.Delete(w, name)
		return
	}
	c := m.build(name, value, secs)
	c.Expires = expires.UTC()
	http.SetCookie(w, c)
}

// Delete tells the browser to drop name now.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	c := m.build(name, "", -1)
	c.Expires = time.Unix(0, 0)
	http.SetCookie(w, c)
}

func (m *Manager) build(name, value string, maxAge int) *http.Cookie {
	c := m.base
	c.Name = name
	c.Value = value
	c.MaxAge = maxAge
	return &c
}
