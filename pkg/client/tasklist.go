package client

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/query"
	"github.com/dmitrymomot/taskmanager/pkg/tasks"
)

// TasksKey is the cache key of the signed-in user's task list.
const TasksKey = "tasks"

// TaskAPI is the remote side of a TaskList. *Client implements it.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]tasks.Task, error)
	CreateTask(ctx context.Context, title string) (tasks.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, in tasks.UpdateInput) (tasks.Task, error)
	ToggleTask(ctx context.Context, id uuid.UUID) (tasks.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
}

// TaskList keeps the task list in a query cache and applies writes
// optimistically. Each write returns a *query.Mutation that settles once
// the server answered; a failed write is rolled back and surfaced through
// Mutation.Wait.
type TaskList struct {
	api   TaskAPI
	cache *query.Client
	now   func() time.Time
}

// NewTaskList registers the list fetcher on cache under TasksKey.
func NewTaskList(api TaskAPI, cache *query.Client) *TaskList {
	query.Register(cache, TasksKey, api.ListTasks)
	return &TaskList{api: api, cache: cache, now: time.Now}
}

// Tasks returns the cached list. It is nil until the first fetch or write.
func (l *TaskList) Tasks() []tasks.Task {
	list, _ := query.GetData[[]tasks.Task](l.cache, TasksKey)
	return list
}

// Status reports the fetch status of the list.
func (l *TaskList) Status() query.Status {
	return l.cache.Status(TasksKey)
}

// Refresh loads the list from the server.
func (l *TaskList) Refresh(ctx context.Context) error {
	return l.cache.Fetch(ctx, TasksKey)
}

// Subscribe calls fn after every change of the cached list.
func (l *TaskList) Subscribe(fn func()) (unsubscribe func()) {
	return l.cache.Subscribe(TasksKey, fn)
}

// Create shows a provisional task at the top of the list until the server
// copy arrives with the refetch.
func (l *TaskList) Create(ctx context.Context, title string) *query.Mutation {
	now := l.now()
	provisional := tasks.Task{ID: uuid.New(), Title: title, CreatedAt: now, UpdatedAt: now}

	return query.Mutate(ctx, l.cache, TasksKey,
		func(list []tasks.Task) []tasks.Task {
			return slices.Insert(slices.Clone(list), 0, provisional)
		},
		func(ctx context.Context) error {
			_, err := l.api.CreateTask(ctx, title)
			return err
		},
	)
}

// Toggle flips completion of the cached task. Two toggles in a row flip
// twice locally and send two independent requests.
func (l *TaskList) Toggle(ctx context.Context, id uuid.UUID) *query.Mutation {
	return query.Mutate(ctx, l.cache, TasksKey,
		update(id, func(t *tasks.Task) { t.Completed = !t.Completed }),
		func(ctx context.Context) error {
			_, err := l.api.ToggleTask(ctx, id)
			return err
		},
	)
}

// Rename changes the title of a task.
func (l *TaskList) Rename(ctx context.Context, id uuid.UUID, title string) *query.Mutation {
	return query.Mutate(ctx, l.cache, TasksKey,
		update(id, func(t *tasks.Task) { t.Title = title }),
		func(ctx context.Context) error {
			_, err := l.api.UpdateTask(ctx, id, tasks.UpdateInput{Title: &title})
			return err
		},
	)
}

// Delete hides the task immediately.
func (l *TaskList) Delete(ctx context.Context, id uuid.UUID) *query.Mutation {
	return query.Mutate(ctx, l.cache, TasksKey,
		func(list []tasks.Task) []tasks.Task {
			return slices.DeleteFunc(slices.Clone(list), func(t tasks.Task) bool { return t.ID == id })
		},
		func(ctx context.Context) error {
			return l.api.DeleteTask(ctx, id)
		},
	)
}

// update returns an apply function that edits a copy of the task with id.
// The cached slice is never modified in place; snapshots share it.
func update(id uuid.UUID, fn func(*tasks.Task)) func([]tasks.Task) []tasks.Task {
	return func(list []tasks.Task) []tasks.Task {
		out := slices.Clone(list)
		for i := range out {
			if out[i].ID == id {
				fn(&out[i])
			}
		}
		return out
	}
}
