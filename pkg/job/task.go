package job

import (
	"context"
	"maps"
	"slices"
	"sync"
)

// PeriodicTask is a unit of maintenance work run on a cron schedule.
// Schedule returns a 5-field cron expression (min hour dom month dow).
type PeriodicTask interface {
	Name() string
	Schedule() string
	Handle(ctx context.Context) error
}

type taskRegistry struct {
	tasks map[string]PeriodicTask
	mu    sync.RWMutex
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: make(map[string]PeriodicTask)}
}

func (r *taskRegistry) register(t PeriodicTask) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.Name()] = t
}

func (r *taskRegistry) get(name string) (PeriodicTask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tasks[name]
	return t, ok
}

func (r *taskRegistry) names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := slices.Collect(maps.Keys(r.tasks))
	slices.Sort(names)
	return names
}
