package tasks

import "errors"

var (
	// ErrNotFound is returned for tasks that do not exist or belong to another user.
	ErrNotFound = errors.New("tasks: task not found")

	ErrTitleRequired = errors.New("tasks: title is required")
	ErrTitleTooLong  = errors.New("tasks: title is too long")
	ErrMissingUserID = errors.New("tasks: missing user id")
)
