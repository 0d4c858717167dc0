// Package store defines persistence for users and tasks.
package store

import (
	"context"
	"errors"
	"time"

	"tareas/internal/service"
)

var (
	// ErrNotFound is returned when a user or task does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when creating a user whose email is taken.
	ErrDuplicate = errors.New("duplicate")
)

// User is a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserStore persists accounts.
type UserStore interface {
	// CreateUser inserts a user. Returns ErrDuplicate if the email exists.
	CreateUser(ctx context.Context, u User) error

	// UserByEmail looks up a user. Returns ErrNotFound if absent.
	UserByEmail(ctx context.Context, email string) (User, error)
}

// TaskStore persists tasks per owner email.
type TaskStore interface {
	// ListTasks returns the tasks of email in creation order.
	ListTasks(ctx context.Context, email string) ([]service.Task, error)

	// InsertTask appends a task for email and returns it.
	InsertTask(ctx context.Context, email, text string) (service.Task, error)

	// DeleteTask removes a task owned by email. Returns ErrNotFound if it
	// is absent or belongs to another owner.
	DeleteTask(ctx context.Context, email, id string) error
}
