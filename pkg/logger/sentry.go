package logger

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig is optional; an empty DSN keeps logging local.
type SentryConfig struct {
	DSN         string     `env:"SENTRY_DSN"`
	Environment string     `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	Release     string     `env:"SENTRY_RELEASE"`
	MinLevel    slog.Level `env:"SENTRY_MIN_LEVEL" envDefault:"warn"`
}

// shippedLevels are the levels forwarded as Sentry logs when at or above
// MinLevel. Errors always open an issue as well.
var shippedLevels = []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn, slog.LevelError}

func newSentryHandler(cfg SentryConfig) (slog.Handler, func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	})
	if err != nil {
		return nil, nil, err
	}

	levels := slices.DeleteFunc(slices.Clone(shippedLevels), func(l slog.Level) bool { return l < cfg.MinLevel })
	if len(levels) == 0 {
		levels = []slog.Level{slog.LevelError}
	}
	h := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   levels,
	}.NewSentryHandler(context.Background())

	return h, func() { sentry.Flush(2 * time.Second) }, nil
}
