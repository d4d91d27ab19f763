package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/oauth"
)

// MemoryRepository keeps users in process memory.
type MemoryRepository struct {
	byID     map[uuid.UUID]User
	byGoogle map[string]uuid.UUID
	now      func() time.Time
	mu       sync.Mutex
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:     make(map[uuid.UUID]User),
		byGoogle: make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

func (r *MemoryRepository) UpsertGoogle(_ context.Context, info oauth.UserInfo) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now().UTC()
	u := User{ID: uuid.New(), GoogleID: info.ID, CreatedAt: now}
	if id, ok := r.byGoogle[info.ID]; ok {
		u = r.byID[id]
	}
	u.Email, u.Name, u.Picture = info.Email, info.Name, info.Picture
	u.UpdatedAt = now

	r.byID[u.ID] = u
	r.byGoogle[info.ID] = u.ID
	return u, nil
}

func (r *MemoryRepository) Get(_ context.Context, id uuid.UUID) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}
