package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskmanager/internal/config"
)

const secret = "0123456789abcdef0123456789abcdef"

func base() map[string]string {
	return map[string]string{
		"DATABASE_CONN_URL": "postgres://localhost:5432/tasks?sslmode=disable",
		"COOKIE_SECRET":     secret,
	}
}

func TestLoadFrom_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadFrom(base())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Address)
	assert.Equal(t, config.BackendPostgres, cfg.SessionBackend)
	assert.Equal(t, "taskmanager.session_token", cfg.SessionCookieName)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "0 * * * *", cfg.SessionCleanupSchedule)
	assert.True(t, cfg.CookieSecure)
	assert.False(t, cfg.TrustProxyHeaders)
	assert.Empty(t, cfg.TrustedOrigins)
	assert.Equal(t, "schema_migrations", cfg.DB.MigrationsTable)
	assert.Equal(t, slog.LevelInfo, cfg.Log.Level)
	assert.False(t, cfg.Google.Enabled())
}

func TestLoadFrom_Overrides(t *testing.T) {
	t.Parallel()

	environ := base()
	environ["ADDRESS"] = ":9000"
	environ["SESSION_BACKEND"] = "redis"
	environ["REDIS_URL"] = "redis://localhost:6379/0"
	environ["SESSION_TTL"] = "24h"
	environ["COOKIE_SECURE"] = "false"
	environ["TRUST_PROXY_HEADERS"] = "true"
	environ["TRUSTED_ORIGINS"] = "https://app.example.com,taskmanager://"
	environ["LOG_LEVEL"] = "debug"
	environ["GOOGLE_OAUTH_CLIENT_ID"] = "id"
	environ["GOOGLE_OAUTH_CLIENT_SECRET"] = "secret"

	cfg, err := config.LoadFrom(environ)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Address)
	assert.Equal(t, config.BackendRedis, cfg.SessionBackend)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.TrustProxyHeaders)
	assert.Equal(t, []string{"https://app.example.com", "taskmanager://"}, cfg.TrustedOrigins)
	assert.Equal(t, slog.LevelDebug, cfg.Log.Level)
	assert.True(t, cfg.Google.Enabled())
}

func TestLoadFrom_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(map[string]string)
		wantErr error
	}{
		{"missing database url", func(e map[string]string) { delete(e, "DATABASE_CONN_URL") }, config.ErrInvalidConfig},
		{"missing cookie secret", func(e map[string]string) { delete(e, "COOKIE_SECRET") }, config.ErrInvalidConfig},
		{"short cookie secret", func(e map[string]string) { e["COOKIE_SECRET"] = "short" }, config.ErrInvalidConfig},
		{"unknown backend", func(e map[string]string) { e["SESSION_BACKEND"] = "memcached" }, config.ErrUnknownSessionBackend},
		{"redis backend without url", func(e map[string]string) { e["SESSION_BACKEND"] = "redis" }, config.ErrInvalidConfig},
		{"non-positive ttl", func(e map[string]string) { e["SESSION_TTL"] = "0s" }, config.ErrInvalidConfig},
		{"bad cleanup schedule", func(e map[string]string) { e["SESSION_CLEANUP_SCHEDULE"] = "every hour" }, config.ErrInvalidConfig},
		{"bad duration", func(e map[string]string) { e["SESSION_TTL"] = "a week" }, config.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			environ := base()
			tt.mutate(environ)
			_, err := config.LoadFrom(environ)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}
