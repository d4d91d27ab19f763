package users

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/taskmanager/pkg/oauth"
)

// ErrNotFound is returned when no user has the given id.
var ErrNotFound = errors.New("users: user not found")

// User is an account created on first sign-in.
type User struct {
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	GoogleID  string    `json:"-"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Picture   string    `json:"image,omitempty"`
	ID        uuid.UUID `json:"id"`
}

// Repository stores users.
type Repository interface {
	// UpsertGoogle creates the user on first sign-in, or refreshes the
	// profile fields of the existing user with the same Google id.
	UpsertGoogle(ctx context.Context, info oauth.UserInfo) (User, error)
	Get(ctx context.Context, id uuid.UUID) (User, error)
}
