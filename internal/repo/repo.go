// Package repo persists users and todos. Every todo query is scoped by owner.
package repo

import (
	"context"
	"errors"

	dom "github.com/nicolaskelepuris/refactor-rails-app/internal/domain"
)

var (
	// ErrNotFound is returned when no row matches, including rows owned by another user.
	ErrNotFound = errors.New("not found")
	// ErrEmailTaken is returned when the email unique constraint rejects an insert.
	ErrEmailTaken = errors.New("email already taken")
)

// TodoRepo provides todo persistence.
type TodoRepo interface {
	Create(ctx context.Context, t dom.Todo) (dom.Todo, error)
	GetByID(ctx context.Context, userID, id int64) (dom.Todo, error)
	List(ctx context.Context, userID int64) ([]dom.Todo, error)
	// Update writes title, due_at and completed_at of the row (t.ID, t.UserID).
	Update(ctx context.Context, t dom.Todo) (dom.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

// UserRepo provides user persistence.
type UserRepo interface {
	Create(ctx context.Context, u dom.User) (dom.User, error)
	GetByID(ctx context.Context, id int64) (dom.User, error)
	GetByToken(ctx context.Context, token string) (dom.User, error)
}
