package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/riverqueue/river"
	"github.com/robfig/cron/v3"
)

// periodicArgs only names the task; the task itself lives in the registry.
type periodicArgs struct {
	TaskName string `json:"task_name"`
}

func (periodicArgs) Kind() string { return "taskmanager:periodic" }

type periodicWorker struct {
	river.WorkerDefaults[periodicArgs]
	registry *taskRegistry
	logger   *slog.Logger
}

func (w *periodicWorker) Work(ctx context.Context, j *river.Job[periodicArgs]) error {
	return w.run(ctx, j.Args.TaskName, slog.Int64("job_id", j.ID), slog.Int("attempt", j.Attempt))
}

func (w *periodicWorker) run(ctx context.Context, name string, attrs ...slog.Attr) error {
	t, ok := w.registry.get(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTask, name)
	}

	attrs = append(attrs, slog.String("task", name))
	started := time.Now()
	err := t.Handle(ctx)
	attrs = append(attrs, slog.Duration("took", time.Since(started)))
	if err != nil {
		w.logger.LogAttrs(ctx, slog.LevelError, "periodic task failed", append(attrs, slog.Any("error", err))...)
		return err
	}
	w.logger.LogAttrs(ctx, slog.LevelDebug, "periodic task done", attrs...)
	return nil
}

// buildPeriodicJobs registers every configured task and turns its cron
// expression into a River schedule.
func buildPeriodicJobs(cfg *config) ([]*river.PeriodicJob, error) {
	jobs := make([]*river.PeriodicJob, 0, len(cfg.tasks))
	for _, t := range cfg.tasks {
		schedule, err := parseSchedule(t.Schedule())
		if err != nil {
			return nil, errors.Join(ErrInvalidSchedule, fmt.Errorf("task %q: %w", t.Name(), err))
		}
		cfg.registry.register(t)

		args := periodicArgs{TaskName: t.Name()}
		jobs = append(jobs, river.NewPeriodicJob(
			schedule,
			func() (river.JobArgs, *river.InsertOpts) { return args, nil },
			&river.PeriodicJobOpts{RunOnStart: cfg.runOnStart},
		))
	}
	return jobs, nil
}

// parseSchedule accepts five-field cron expressions and descriptors such
// as @hourly. A cron.Schedule already satisfies river.PeriodicSchedule.
func parseSchedule(expr string) (river.PeriodicSchedule, error) {
	return cron.ParseStandard(expr)
}
