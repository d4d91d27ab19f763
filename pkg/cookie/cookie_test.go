package cookie_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
)

const testSecret = "this-is-a-very-secure-secret-key-32"

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func roundTrip(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range w.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestPlainCookies(t *testing.T) {
	t.Parallel()

	m := cookie.New()

	w := httptest.NewRecorder()
	m.Set(w, "token", "abc", 3600)
	val, err := m.Get(roundTrip(t, w), "token")
	require.NoError(t, err)
	assert.Equal(t, "abc", val)

	_, err = m.Get(httptest.NewRequest(http.MethodGet, "/", nil), "token")
	require.ErrorIs(t, err, cookie.ErrNotFound)
}

func TestSetUntil(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := cookie.New(cookie.WithClock((&clock{now: now}).Now))

	w := httptest.NewRecorder()
	m.SetUntil(w, "token", "abc", now.Add(7*24*time.Hour))
	c := w.Result().Cookies()[0]
	assert.Equal(t, 7*24*3600, c.MaxAge)
	assert.True(t, now.Add(7*24*time.Hour).Equal(c.Expires))

	w = httptest.NewRecorder()
	m.SetUntil(w, "token", "abc", now.Add(-time.Second))
	c = w.Result().Cookies()[0]
	assert.Equal(t, -1, c.MaxAge, "past expiry deletes the cookie")
	assert.Empty(t, c.Value)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	cookie.New().Delete(w, "token")

	header := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(header, "token=;"))
	assert.Contains(t, header, "Max-Age=0")
}

func TestSignedCookies(t *testing.T) {
	t.Parallel()

	t.Run("no secret", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret("short"))
		require.ErrorIs(t, m.SetSigned(httptest.NewRecorder(), "state", "x", time.Minute), cookie.ErrNoSecret)
		_, err := m.GetSigned(httptest.NewRequest(http.MethodGet, "/", nil), "state")
		require.ErrorIs(t, err, cookie.ErrNoSecret)
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "state", "nonce|taskmanager://home", time.Minute))

		val, err := m.GetSigned(roundTrip(t, w), "state")
		require.NoError(t, err)
		assert.Equal(t, "nonce|taskmanager://home", val)
	})

	t.Run("tampered", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "state", Value: "dGFtcGVyZWQtdmFsdWU.invalid"})

		_, err := m.GetSigned(r, "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("renamed cookie", func(t *testing.T) {
		t.Parallel()

		m := cookie.New(cookie.WithSecret(testSecret))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "a", "value", time.Minute))

		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "b", Value: w.Result().Cookies()[0].Value})
		_, err := m.GetSigned(r, "b")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("other secret", func(t *testing.T) {
		t.Parallel()

		w := httptest.NewRecorder()
		require.NoError(t, cookie.New(cookie.WithSecret(testSecret)).SetSigned(w, "state", "v", time.Minute))

		other := cookie.New(cookie.WithSecret(strings.Repeat("x", 32)))
		_, err := other.GetSigned(roundTrip(t, w), "state")
		require.ErrorIs(t, err, cookie.ErrBadSig)
	})

	t.Run("expired", func(t *testing.T) {
		t.Parallel()

		c := &clock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
		m := cookie.New(cookie.WithSecret(testSecret), cookie.WithClock(c.Now))
		w := httptest.NewRecorder()
		require.NoError(t, m.SetSigned(w, "state", "v", time.Minute))
		r := roundTrip(t, w)

		c.now = c.now.Add(time.Minute)
		_, err := m.GetSigned(r, "state")
		require.ErrorIs(t, err, cookie.ErrExpired)
	})
}

func TestCookieAttributes(t *testing.T) {
	t.Parallel()

	m := cookie.New(
		cookie.WithDomain("example.com"),
		cookie.WithPath("/app"),
		cookie.WithSecure(true),
		cookie.WithHTTPOnly(true),
		cookie.WithSameSite(http.SameSiteStrictMode),
	)

	w := httptest.NewRecorder()
	m.Set(w, "test", "value", 3600)
	c := w.Result().Cookies()[0]

	assert.Equal(t, "example.com", c.Domain)
	assert.Equal(t, "/app", c.Path)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
}

func TestDefaultAttributes(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	cookie.New().Set(w, "test", "value", 3600)
	c := w.Result().Cookies()[0]

	assert.Equal(t, "/", c.Path)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}
