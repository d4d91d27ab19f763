package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func requestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("request_id", id), true
}

func TestNewLogger_Extractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, flush := newLogger(&buf, Config{Level: slog.LevelInfo}, requestIDExtractor, nil)
	defer flush()

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	log.With(slog.String("component", "test")).InfoContext(ctx, "hello")
	log.InfoContext(context.Background(), "no request")
	log.DebugContext(ctx, "filtered")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "hello", first["msg"])
	assert.Equal(t, "req-1", first["request_id"])
	assert.Equal(t, "test", first["component"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.NotContains(t, second, "request_id")
}

func TestNewLogger_TextFormat(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _ := newLogger(&buf, Config{Format: "text", Level: slog.LevelDebug})
	log.Debug("visible", slog.Int("n", 1))

	assert.Contains(t, buf.String(), "msg=visible")
	assert.Contains(t, buf.String(), "n=1")
}

func TestFanout(t *testing.T) {
	t.Parallel()

	var info, warn bytes.Buffer
	h := fanout{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
	log := slog.New(h).WithGroup("g").With(slog.String("k", "v"))

	log.Info("only info")
	log.Warn("both")

	assert.Contains(t, info.String(), "only info")
	assert.Contains(t, info.String(), "both")
	assert.NotContains(t, warn.String(), "only info")
	assert.Contains(t, warn.String(), "g.k=v")
	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
}

func TestNewLogger_RedactsCredentials(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log, _ := newLogger(&buf, Config{Level: slog.LevelInfo})
	log.Info("request",
		slog.String("Authorization", "Bearer abc"),
		slog.String("token", "abc"),
		slog.Group("oauth", slog.String("code", "4/xyz"), slog.String("provider", "google")),
		slog.String("user_id", "u-1"),
	)

	out := buf.String()
	assert.NotContains(t, out, "abc")
	assert.NotContains(t, out, "4/xyz")
	assert.Contains(t, out, Redacted)
	assert.Contains(t, out, "u-1")
	assert.Contains(t, out, "google")
}

func TestNewContextHandler_NoExtractorsReturnsNext(t *testing.T) {
	t.Parallel()

	next := slog.NewTextHandler(&bytes.Buffer{}, nil)
	assert.Same(t, next, NewContextHandler(next, nil, nil))
}

func TestNewNope(t *testing.T) {
	t.Parallel()

	log := NewNope()
	require.NotNil(t, log)
	assert.False(t, log.Enabled(context.Background(), slog.LevelError))
	log.Error("discarded")
}
