package job

import (
	"log/slog"

	"github.com/dmitrymomot/taskmanager/pkg/logger"
)

type config struct {
	registry   *taskRegistry
	logger     *slog.Logger
	tasks      []PeriodicTask
	maxWorkers int
	runOnStart bool
}

func newConfig(opts []Option) *config {
	c := &config{
		registry:   newTaskRegistry(),
		logger:     logger.NewNope(),
		maxWorkers: defaultMaxWorkers,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures a Manager.
type Option func(*config)

// WithPeriodicTask registers a task to run on its cron schedule.
// Nil tasks are ignored so optional maintenance can be wired unconditionally.
//
//	job.WithPeriodicTask(session.NewCleanupTask(store, cfg.CleanupSchedule, log))
func WithPeriodicTask(t PeriodicTask) Option {
	return func(c *config) {
		if t != nil {
			c.tasks = append(c.tasks, t)
		}
	}
}

// WithLogger receives River's logs and one line per task run.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMaxWorkers bounds concurrent task runs. Default: 10.
func WithMaxWorkers(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxWorkers = n
		}
	}
}

// WithRunOnStart also runs each task right after Start, so sessions that
// expired while the server was down are purged without waiting an hour.
func WithRunOnStart() Option {
	return func(c *config) {
		c.runOnStart = true
	}
}
