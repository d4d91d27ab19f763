package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the log level, output format and optional Sentry sink.
type Config struct {
	Format string     `env:"LOG_FORMAT" envDefault:"json"`
	Level  slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Sentry SentryConfig
}

// New creates a stdout logger with optional context extractors.
// When cfg.Sentry.DSN is set, warnings and errors are also sent to Sentry;
// call the returned flush function before exiting.
func New(cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	return newLogger(os.Stdout, cfg, extractors...)
}

func newLogger(w io.Writer, cfg Config, extractors ...ContextExtractor) (*slog.Logger, func()) {
	base := newHandler(w, cfg)

	if cfg.Sentry.DSN == "" {
		return slog.New(NewContextHandler(base, extractors...)), func() {}
	}

	sentryHandler, flush, err := newSentryHandler(cfg.Sentry)
	if err != nil {
		slog.New(base).Error("failed to initialize sentry", slog.Any("error", err))
		return slog.New(NewContextHandler(base, extractors...)), func() {}
	}

	return slog.New(NewContextHandler(fanout{base, sentryHandler}, extractors...)), flush
}

func newHandler(w io.Writer, cfg Config) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level, ReplaceAttr: redactSecrets}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}
