package tasks

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps tasks in process memory.
type MemoryRepository struct {
	tasks map[uuid.UUID]Task
	mu    sync.RWMutex
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{tasks: make(map[uuid.UUID]Task)}
}

func (r *MemoryRepository) List(_ context.Context, userID string) ([]Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]Task, 0)
	for _, t := range r.tasks {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	slices.SortFunc(list, func(a, b Task) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID.String(), a.ID.String())
	})
	return list, nil
}

func (r *MemoryRepository) Get(_ context.Context, userID string, id uuid.UUID) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return Task{}, ErrNotFound
	}
	return t, nil
}

func (r *MemoryRepository) Create(_ context.Context, t Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[t.ID] = t
	return nil
}

func (r *MemoryRepository) Update(_ context.Context, userID string, id uuid.UUID, fn func(*Task) error) (Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return Task{}, ErrNotFound
	}
	if err := fn(&t); err != nil {
		return Task{}, err
	}
	r.tasks[id] = t
	return t, nil
}

func (r *MemoryRepository) Delete(_ context.Context, userID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	t, ok := r.tasks[id]
	if !ok || t.UserID != userID {
		return ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}
