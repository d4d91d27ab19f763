package tasks

import (
	"time"

	"github.com/google/uuid"
)

// MaxTitleLength is the maximum title length in runes.
const MaxTitleLength = 500

// Task is a to-do item owned by exactly one user.
type Task struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Title     string    `json:"title"`
	UserID    string    `json:"userId"`
	ID        uuid.UUID `json:"id"`
	Completed bool      `json:"completed"`
}

// CreateInput is the payload for creating a task.
type CreateInput struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// UpdateInput changes the fields that are set and leaves the rest untouched.
type UpdateInput struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
