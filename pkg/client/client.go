package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/tasks"
	"github.com/dmitrymomot/taskmanager/pkg/users"
)

// maxErrorBody bounds how much of an error response is kept as the message.
const maxErrorBody = 4 << 10

// SessionInfo is the body of GET /api/auth/session.
type SessionInfo struct {
	User   users.User `json:"user"`
	UserID string     `json:"userId"`
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client. Timeouts are taken from it.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithBearerToken authenticates every request with an Authorization header.
// This is how clients without a cookie store talk to the API.
func WithBearerToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithCookieJar lets the client carry the session cookie like a browser.
func WithCookieJar(jar http.CookieJar) Option {
	return func(c *Client) {
		c.jar = jar
	}
}

// Client talks to the task API.
type Client struct {
	http    *http.Client
	jar     http.CookieJar
	baseURL *url.URL
	token   string
}

// New creates a client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &Client{baseURL: u, http: http.DefaultClient}
	for _, opt := range opts {
		opt(c)
	}
	if c.jar != nil {
		hc := *c.http
		hc.Jar = c.jar
		c.http = &hc
	}
	return c, nil
}

// ListTasks returns the caller's tasks, newest first.
func (c *Client) ListTasks(ctx context.Context) ([]tasks.Task, error) {
	var out []tasks.Task
	if err := c.do(ctx, http.MethodGet, "/v1/tasks", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id uuid.UUID) (tasks.Task, error) {
	var out tasks.Task
	err := c.do(ctx, http.MethodGet, "/v1/tasks/"+id.String(), nil, &out)
	return out, err
}

// CreateTask creates an incomplete task.
func (c *Client) CreateTask(ctx context.Context, title string) (tasks.Task, error) {
	var out tasks.Task
	err := c.do(ctx, http.MethodPost, "/v1/tasks", tasks.CreateInput{Title: title}, &out)
	return out, err
}

// UpdateTask changes the fields set in in.
func (c *Client) UpdateTask(ctx context.Context, id uuid.UUID, in tasks.UpdateInput) (tasks.Task, error) {
	var out tasks.Task
	err := c.do(ctx, http.MethodPatch, "/v1/tasks/"+id.String(), in, &out)
	return out, err
}

// ToggleTask flips completion on the server's current value.
func (c *Client) ToggleTask(ctx context.Context, id uuid.UUID) (tasks.Task, error) {
	var out tasks.Task
	err := c.do(ctx, http.MethodPatch, "/v1/tasks/"+id.String()+"/toggle", nil, &out)
	return out, err
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/v1/tasks/"+id.String(), nil, nil)
}

// Session returns the signed-in user. ErrUnauthorized means no valid session.
func (c *Client) Session(ctx context.Context) (SessionInfo, error) {
	var out SessionInfo
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &out)
	return out, err
}

// SignOut revokes the current session.
func (c *Client) SignOut(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/sign-out", nil, nil)
}

// SignOutAll revokes every session of the signed-in user, on all devices.
func (c *Client) SignOutAll(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/sign-out-all", nil, nil)
}

// SignInURL returns the URL that starts Google sign-in and comes back to redirect.
func (c *Client) SignInURL(redirect string) string {
	u := c.baseURL.JoinPath("/api/auth/google")
	if redirect != "" {
		u.RawQuery = url.Values{"redirect": {redirect}}.Encode()
	}
	return u.String()
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.JoinPath(path).String(), body)
	if err != nil {
		return fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decode response: %w", err)
	}
	return nil
}

func responseError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}

	var payload struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &payload) == nil && payload.Error != "" {
		apiErr.Message = payload.Error
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return errors.Join(ErrUnauthorized, apiErr)
	case http.StatusNotFound:
		return errors.Join(ErrNotFound, apiErr)
	default:
		return apiErr
	}
}
