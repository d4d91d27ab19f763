package session

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultCleanupSchedule runs the expired-session cleanup at the top of every hour.
const DefaultCleanupSchedule = "0 * * * *"

// CleanupTask is a scheduled job that purges expired sessions.
// The resolver never depends on it: expired sessions are rejected
// whether or not they have been purged.
type CleanupTask struct {
	purger   ExpiredPurger
	now      func() time.Time
	logger   *slog.Logger
	schedule string
}

// NewCleanupTask creates a cleanup task running on a cron schedule.
// An empty schedule falls back to DefaultCleanupSchedule.
func NewCleanupTask(p ExpiredPurger, schedule string, logger *slog.Logger) *CleanupTask {
	if schedule == "" {
		schedule = DefaultCleanupSchedule
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &CleanupTask{
		purger:   p,
		now:      time.Now,
		logger:   logger,
		schedule: schedule,
	}
}

func (t *CleanupTask) Name() string     { return "cleanup_expired_sessions" }
func (t *CleanupTask) Schedule() string { return t.schedule }

// Handle deletes all sessions that have already expired.
func (t *CleanupTask) Handle(ctx context.Context) error {
	n, err := t.purger.DeleteExpired(ctx, t.now())
	if err != nil {
		return err
	}
	if n > 0 {
		t.logger.InfoContext(ctx, "expired sessions removed", slog.Int64("count", n))
	}
	return nil
}
