package job

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
)

const defaultMaxWorkers = 10

// Manager owns a River client that only runs periodic jobs. River elects a
// leader per database, so a schedule fires once however many API instances
// are up.
type Manager struct {
	river *river.Client[pgx.Tx]
	pool  *pgxpool.Pool
	tasks *taskRegistry
	log   *slog.Logger

	lifecycle sync.Mutex
	running   atomic.Bool
}

// NewManager fails on a nil pool or on any schedule that does not parse.
// Nothing runs until Start.
func NewManager(pool *pgxpool.Pool, opts ...Option) (*Manager, error) {
	if pool == nil {
		return nil, ErrPoolRequired
	}
	cfg := newConfig(opts)

	periodic, err := buildPeriodicJobs(cfg)
	if err != nil {
		return nil, err
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, &periodicWorker{registry: cfg.registry, logger: cfg.logger})

	client, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Logger:       cfg.logger,
		PeriodicJobs: periodic,
		Queues:       map[string]river.QueueConfig{river.QueueDefault: {MaxWorkers: cfg.maxWorkers}},
		Workers:      workers,
	})
	if err != nil {
		return nil, fmt.Errorf("job: create client: %w", err)
	}

	return &Manager{river: client, pool: pool, tasks: cfg.registry, log: cfg.logger}, nil
}

// Tasks lists registered task names in sorted order.
func (m *Manager) Tasks() []string { return m.tasks.names() }

func (m *Manager) Start(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if m.running.Load() {
		return ErrAlreadyStarted
	}
	if err := m.river.Start(ctx); err != nil {
		return fmt.Errorf("job: start client: %w", err)
	}
	m.running.Store(true)
	m.log.Info("job manager started", slog.Any("tasks", m.Tasks()))
	return nil
}

// Stop lets in-flight task runs finish, bounded by ctx.
func (m *Manager) Stop(ctx context.Context) error {
	m.lifecycle.Lock()
	defer m.lifecycle.Unlock()

	if !m.running.Load() {
		return ErrNotStarted
	}
	if err := m.river.Stop(ctx); err != nil {
		return fmt.Errorf("job: stop client: %w", err)
	}
	m.running.Store(false)
	m.log.Info("job manager stopped")
	return nil
}

// StartFunc and Shutdown adapt the manager to run hooks.
func (m *Manager) StartFunc() func(context.Context) error { return m.Start }
func (m *Manager) Shutdown() func(context.Context) error  { return m.Stop }

// Healthcheck fails while m is not running or its database is unreachable.
// Expired sessions pile up in either case.
func Healthcheck(m *Manager) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		switch {
		case m == nil:
			return errors.Join(ErrUnhealthy, errManagerNil)
		case !m.running.Load():
			return errors.Join(ErrUnhealthy, ErrNotStarted)
		}
		if err := m.pool.Ping(ctx); err != nil {
			return errors.Join(ErrUnhealthy, err)
		}
		return nil
	}
}
