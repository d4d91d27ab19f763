package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager"
	"github.com/dmitrymomot/taskmanager/pkg/tasks"
)

// TaskService is the part of tasks.Service the handler needs.
type TaskService interface {
	List(ctx context.Context, userID string) ([]tasks.Task, error)
	Get(ctx context.Context, userID string, id uuid.UUID) (tasks.Task, error)
	Create(ctx context.Context, userID string, in tasks.CreateInput) (tasks.Task, error)
	Update(ctx context.Context, userID string, id uuid.UUID, in tasks.UpdateInput) (tasks.Task, error)
	Toggle(ctx context.Context, userID string, id uuid.UUID) (tasks.Task, error)
	Delete(ctx context.Context, userID string, id uuid.UUID) error
}

// TaskHandler serves the per-user task collection.
// Every route sits behind the auth gate and is scoped to the caller.
type TaskHandler struct {
	svc  TaskService
	gate taskmanager.Middleware
}

// NewTaskHandler creates a task handler. gate must reject unauthenticated
// requests; see middlewares.Auth.
func NewTaskHandler(svc TaskService, gate taskmanager.Middleware) *TaskHandler {
	return &TaskHandler{svc: svc, gate: gate}
}

// Routes implements taskmanager.Handler.
func (h *TaskHandler) Routes(r taskmanager.Router) {
	r.Route("/v1/tasks", func(r taskmanager.Router) {
		r.Use(h.gate)
		r.GET("/", h.list)
		r.POST("/", h.create)
		r.GET("/{id}", h.get)
		r.PATCH("/{id}", h.update)
		r.PATCH("/{id}/toggle", h.toggle)
		r.DELETE("/{id}", h.delete)
	})
}

func (h *TaskHandler) list(c taskmanager.Context) error {
	items, err := h.svc.List(c, c.UserID())
	if err != nil {
		return taskError(err)
	}
	if items == nil {
		items = []tasks.Task{}
	}
	return c.JSON(http.StatusOK, items)
}

func (h *TaskHandler) get(c taskmanager.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.Get(c, c.UserID(), id)
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) create(c taskmanager.Context) error {
	var in tasks.CreateInput
	if err := c.BindJSON(&in); err != nil {
		return err
	}
	t, err := h.svc.Create(c, c.UserID(), in)
	if err != nil {
		return taskError(err)
	}
	c.LogInfo("task created", "task_id", t.ID.String())
	return c.JSON(http.StatusCreated, t)
}

func (h *TaskHandler) update(c taskmanager.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	var in tasks.UpdateInput
	if err := c.BindJSON(&in); err != nil {
		return err
	}
	t, err := h.svc.Update(c, c.UserID(), id, in)
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) toggle(c taskmanager.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	t, err := h.svc.Toggle(c, c.UserID(), id)
	if err != nil {
		return taskError(err)
	}
	return c.JSON(http.StatusOK, t)
}

func (h *TaskHandler) delete(c taskmanager.Context) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c, c.UserID(), id); err != nil {
		return taskError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func taskID(c taskmanager.Context) (uuid.UUID, error) {
	return taskmanager.ParamUUID(c, "id", "invalid task id")
}

// taskError maps service errors to HTTP errors. Foreign and missing tasks
// share one 404 so ids of other users cannot be guessed.
func taskError(err error) error {
	switch {
	case errors.Is(err, tasks.ErrNotFound):
		return taskmanager.ErrNotFound("Task not found", taskmanager.WithError(err))
	case errors.Is(err, tasks.ErrTitleRequired):
		return taskmanager.ErrBadRequest("title is required", taskmanager.WithError(err))
	case errors.Is(err, tasks.ErrTitleTooLong):
		return taskmanager.ErrBadRequest("title is too long", taskmanager.WithError(err))
	case errors.Is(err, tasks.ErrMissingUserID):
		return taskmanager.ErrUnauthorized("Unauthorized", taskmanager.WithError(err))
	default:
		return err
	}
}
