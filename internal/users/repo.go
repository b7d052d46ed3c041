package users

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when no user exists for an id.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidInput indicates a missing id or email.
	ErrInvalidInput = errors.New("invalid user input")
)

// Repo persists user profiles.
type Repo interface {
	Upsert(ctx context.Context, user User) error
	GetByID(ctx context.Context, userID string) (User, error)
}
