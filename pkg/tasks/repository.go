package tasks

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists tasks. Every method is scoped by the owner's user id:
// a task owned by someone else behaves exactly like a missing one and
// yields ErrNotFound.
type Repository interface {
	// List returns the user's tasks, newest first.
	List(ctx context.Context, userID string) ([]Task, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (Task, error)
	Create(ctx context.Context, t Task) error
	// Update loads the task, applies fn and stores the result atomically.
	// If fn returns an error nothing is written.
	Update(ctx context.Context, userID string, id uuid.UUID, fn func(*Task) error) (Task, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}
