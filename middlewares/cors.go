package middlewares

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/taskmanager/internal"
)

// DefaultCORSMaxAge is how long browsers may cache a preflight answer.
const DefaultCORSMaxAge = 12 * time.Hour

type corsSettings struct {
	origins     map[string]bool // "*" allows any origin
	originFunc  func(origin string) bool
	methods     []string
	headers     []string
	expose      []string
	maxAge      time.Duration
	credentials bool
}

// CORSOption configures CORS.
type CORSOption func(*corsSettings)

// WithAllowOrigins replaces the allowed origin list. "*" allows all.
func WithAllowOrigins(origins ...string) CORSOption {
	return func(s *corsSettings) {
		s.origins = make(map[string]bool, len(origins))
		for _, o := range origins {
			s.origins[o] = true
		}
	}
}

// WithAllowOriginFunc decides per origin and takes precedence over the list.
func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(s *corsSettings) { s.originFunc = fn }
}

func WithAllowMethods(methods ...string) CORSOption {
	return func(s *corsSettings) { s.methods = methods }
}

func WithAllowHeaders(headers ...string) CORSOption {
	return func(s *corsSettings) { s.headers = headers }
}

func WithExposeHeaders(headers ...string) CORSOption {
	return func(s *corsSettings) { s.expose = headers }
}

// WithAllowCredentials lets browsers send the session cookie. The request
// origin is echoed back instead of "*".
func WithAllowCredentials() CORSOption {
	return func(s *corsSettings) { s.credentials = true }
}

func WithMaxAge(d time.Duration) CORSOption {
	return func(s *corsSettings) { s.maxAge = d }
}

// WithTrustedOrigins allows credentialed requests from the web entries of
// TRUSTED_ORIGINS. App schemes such as "taskmanager://" never show up in an
// Origin header, so only http and https entries are kept.
func WithTrustedOrigins(origins ...string) CORSOption {
	var web []string
	for _, o := range origins {
		u, err := url.Parse(o)
		if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			continue
		}
		web = append(web, u.Scheme+"://"+u.Host)
	}
	allow := WithAllowOrigins(web...)
	return func(s *corsSettings) {
		allow(s)
		s.credentials = true
	}
}

func (s *corsSettings) allows(origin string) bool {
	if s.originFunc != nil {
		return s.originFunc(origin)
	}
	return s.origins["*"] || s.origins[origin]
}

// CORS answers preflights from allowed origins with 204 without calling
// the handler, and adds CORS headers to their other requests. Requests from
// unknown origins pass through untouched and the browser blocks them.
func CORS(opts ...CORSOption) internal.Middleware {
	s := &corsSettings{
		origins: map[string]bool{"*": true},
		methods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		headers: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		maxAge:  DefaultCORSMaxAge,
	}
	for _, opt := range opts {
		opt(s)
	}

	echoOrigin := s.credentials || !s.origins["*"] || s.originFunc != nil
	methods := strings.Join(s.methods, ", ")
	headers := strings.Join(s.headers, ", ")
	expose := strings.Join(s.expose, ", ")
	maxAge := strconv.Itoa(int(s.maxAge.Seconds()))

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !s.allows(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			if echoOrigin {
				h.Set("Access-Control-Allow-Origin", origin)
			} else {
				h.Set("Access-Control-Allow-Origin", "*")
			}
			if s.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}
			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if s.maxAge > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}
