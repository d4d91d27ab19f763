package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager"
	"github.com/dmitrymomot/taskmanager/middlewares"
	"github.com/dmitrymomot/taskmanager/pkg/cache"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

const testCookieSecret = "0123456789abcdef0123456789abcdef"

// newSessionStore returns a memory-backed session store.
func newSessionStore(t *testing.T) *session.CacheStore {
	t.Helper()
	sessions := cache.NewMemory[session.Session]()
	index := cache.NewMemory[[]string]()
	t.Cleanup(func() {
		_ = sessions.Close()
		_ = index.Close()
	})
	return session.NewCacheStore(sessions, index)
}

// signIn stores a fresh session for userID and returns its token.
func signIn(t *testing.T, store session.Store, userID string) string {
	t.Helper()
	sess, err := session.New(userID, time.Now(), time.Hour)
	require.NoError(t, err)
	require.NoError(t, store.Create(t.Context(), sess))
	return sess.Token
}

// newApp builds an app with the production error handler, sessions and the given handlers.
func newApp(store session.Store, h ...taskmanager.Handler) *taskmanager.App {
	return taskmanager.New(
		taskmanager.WithErrorHandler(middlewares.JSONErrorHandler()),
		taskmanager.WithCookieOptions(taskmanager.WithCookieSecret(testCookieSecret)),
		taskmanager.WithSessions(store),
		taskmanager.WithHandlers(h...),
	)
}

// tickingClock returns a clock that advances one second per call.
func tickingClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func gateFor(store session.Store) taskmanager.Middleware {
	return middlewares.Auth(session.NewResolver(store))
}

type response struct {
	*httptest.ResponseRecorder
}

func (r response) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.Body.Bytes(), v), r.Body.String())
}

// do performs a request against app, authenticating with token if set.
func do(t *testing.T, app http.Handler, method, path, token string, body any) response {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return response{rec}
}
