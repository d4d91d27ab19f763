package middlewares_test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/dmitrymomot/taskmanager/internal"
	"github.com/dmitrymomot/taskmanager/pkg/session"
)

// testContext implements the part of internal.Context the middlewares
// touch. Calling anything else panics on the nil embedded interface.
type testContext struct {
	internal.Context
	response http.ResponseWriter
	request  *http.Request
	written  bool
}

func newTestContext(w http.ResponseWriter, r *http.Request) *testContext {
	return &testContext{response: w, request: r}
}

func (c *testContext) Request() *http.Request        { return c.request }
func (c *testContext) Response() http.ResponseWriter { return c.response }
func (c *testContext) Context() context.Context      { return c.request.Context() }
func (c *testContext) Header(name string) string     { return c.request.Header.Get(name) }
func (c *testContext) SetHeader(name, value string)  { c.response.Header().Set(name, value) }
func (c *testContext) Written() bool                 { return c.written }
func (c *testContext) Get(key any) any               { return c.request.Context().Value(key) }
func (c *testContext) UserID() string                { return session.UserIDFromContext(c.Context()) }
func (c *testContext) LogWarn(string, ...any)        {}
func (c *testContext) LogError(string, ...any)       {}

func (c *testContext) Deadline() (time.Time, bool) { return c.request.Context().Deadline() }
func (c *testContext) Done() <-chan struct{}       { return c.request.Context().Done() }
func (c *testContext) Err() error                  { return c.request.Context().Err() }
func (c *testContext) Value(key any) any           { return c.request.Context().Value(key) }

func (c *testContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.request = c.request.WithContext(ctx)
	}
}

func (c *testContext) Set(key, value any) {
	c.SetContext(context.WithValue(c.request.Context(), key, value))
}

func (c *testContext) JSON(code int, v any) error {
	c.response.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.response.WriteHeader(code)
	c.written = true
	return json.NewEncoder(c.response).Encode(v)
}

func (c *testContext) NoContent(code int) error {
	c.response.WriteHeader(code)
	c.written = true
	return nil
}
