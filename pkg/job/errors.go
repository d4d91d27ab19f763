package job

import "errors"

var (
	// ErrUnknownTask is returned when a job names a task that is not registered.
	ErrUnknownTask = errors.New("job: unknown task")

	// ErrAlreadyStarted is returned when starting a running manager.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when stopping a manager that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when creating a manager without a database pool.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrInvalidSchedule is returned for a cron expression that cannot be parsed.
	ErrInvalidSchedule = errors.New("job: invalid cron schedule")

	// ErrMigrate is returned when the river schema cannot be migrated.
	ErrMigrate = errors.New("job: failed to migrate queue schema")

	errManagerNil = errors.New("job: manager not configured")

	// ErrUnhealthy means periodic tasks such as session cleanup are not running.
	ErrUnhealthy = errors.New("job: scheduler not running")
)
