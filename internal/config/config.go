// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/dmitrymomot/taskmanager/pkg/cookie"
	"github.com/dmitrymomot/taskmanager/pkg/db"
	"github.com/dmitrymomot/taskmanager/pkg/logger"
	"github.com/dmitrymomot/taskmanager/pkg/oauth"
	"github.com/dmitrymomot/taskmanager/pkg/redis"
)

// Session backends.
const (
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

var (
	ErrInvalidConfig         = errors.New("config: invalid configuration")
	ErrUnknownSessionBackend = errors.New("config: unknown session backend")
)

// Config is the server configuration.
type Config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"30s"`

	SessionBackend         string        `env:"SESSION_BACKEND" envDefault:"postgres"`
	SessionCookieName      string        `env:"SESSION_COOKIE_NAME" envDefault:"taskmanager.session_token"`
	SessionTTL             time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	SessionCleanupSchedule string        `env:"SESSION_CLEANUP_SCHEDULE" envDefault:"0 * * * *"`
	UserCacheTTL           time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`

	CookieSecret string `env:"COOKIE_SECRET,required"`
	CookieSecure bool   `env:"COOKIE_SECURE" envDefault:"true"`

	// TrustProxyHeaders reads the client address of new sessions from
	// X-Forwarded-For. Set it only behind a proxy that overwrites the header.
	TrustProxyHeaders bool `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	// TrustedOrigins lists web origins ("https://app.example.com") and app
	// schemes ("taskmanager://") allowed for CORS and sign-in redirects.
	TrustedOrigins []string `env:"TRUSTED_ORIGINS" envSeparator:","`

	DB     db.Config
	Redis  redis.Config
	Log    logger.Config
	Google oauth.GoogleConfig
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	return parse(env.Options{})
}

// LoadFrom reads the configuration from the given variables only.
func LoadFrom(environ map[string]string) (Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return Config{}, errors.Join(ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values the env tags cannot express.
func (c Config) Validate() error {
	var errs []error

	switch c.SessionBackend {
	case BackendPostgres:
	case BackendRedis:
		if c.Redis.URL == "" {
			errs = append(errs, fmt.Errorf("%w: REDIS_URL is required for the redis session backend", ErrInvalidConfig))
		}
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrUnknownSessionBackend, c.SessionBackend))
	}

	if len(c.CookieSecret) < cookie.MinSecretLength {
		errs = append(errs, fmt.Errorf("%w: COOKIE_SECRET must be at least %d bytes", ErrInvalidConfig, cookie.MinSecretLength))
	}
	if _, err := cron.ParseStandard(c.SessionCleanupSchedule); err != nil {
		errs = append(errs, fmt.Errorf("%w: SESSION_CLEANUP_SCHEDULE: %w", ErrInvalidConfig, err))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, fmt.Errorf("%w: SESSION_TTL must be positive", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}
