package tasks

import (
	"context"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/sanitizer"
)

// Service implements the task use cases on top of a Repository.
type Service struct {
	repo   Repository
	now    func() time.Time
	newID  func() uuid.UUID
	logger *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source for created/updated stamps.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewService creates a task service.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		now:    time.Now,
		newID:  uuid.New,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns all tasks of the user, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Task, error) {
	if userID == "" {
		return nil, ErrMissingUserID
	}
	list, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []Task{}
	}
	return list, nil
}

// Get returns one task of the user.
func (s *Service) Get(ctx context.Context, userID string, id uuid.UUID) (Task, error) {
	if userID == "" {
		return Task{}, ErrMissingUserID
	}
	return s.repo.Get(ctx, userID, id)
}

// Create validates the input and stores a new task for the user.
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Task, error) {
	if userID == "" {
		return Task{}, ErrMissingUserID
	}
	title, err := normalizeTitle(in.Title)
	if err != nil {
		return Task{}, err
	}

	now := s.timestamp()
	t := Task{
		ID:        s.newID(),
		UserID:    userID,
		Title:     title,
		Completed: in.Completed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return Task{}, err
	}

	s.logger.DebugContext(ctx, "task created", slog.String("task_id", t.ID.String()))
	return t, nil
}

// Update applies the set fields of in to the user's task.
func (s *Service) Update(ctx context.Context, userID string, id uuid.UUID, in UpdateInput) (Task, error) {
	if userID == "" {
		return Task{}, ErrMissingUserID
	}

	var title string
	if in.Title != nil {
		var err error
		if title, err = normalizeTitle(*in.Title); err != nil {
			return Task{}, err
		}
	}

	return s.repo.Update(ctx, userID, id, func(t *Task) error {
		if in.Title != nil {
			t.Title = title
		}
		if in.Completed != nil {
			t.Completed = *in.Completed
		}
		t.UpdatedAt = s.timestamp()
		return nil
	})
}

// Toggle flips the completion flag of the user's task.
func (s *Service) Toggle(ctx context.Context, userID string, id uuid.UUID) (Task, error) {
	if userID == "" {
		return Task{}, ErrMissingUserID
	}
	return s.repo.Update(ctx, userID, id, func(t *Task) error {
		t.Completed = !t.Completed
		t.UpdatedAt = s.timestamp()
		return nil
	})
}

// Delete removes the user's task.
func (s *Service) Delete(ctx context.Context, userID string, id uuid.UUID) error {
	if userID == "" {
		return ErrMissingUserID
	}
	return s.repo.Delete(ctx, userID, id)
}

// Postgres stores microseconds; truncating keeps both repositories consistent.
func (s *Service) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normalizeTitle(raw string) (string, error) {
	title := sanitizer.Line(raw)
	if title == "" {
		return "", ErrTitleRequired
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return title, nil
}
