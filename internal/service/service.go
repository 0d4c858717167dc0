// Package service defines the backend-agnostic interface for session and task operations.
package service

import "context"

// Service defines the interface for session and task backend operations.
// Every backend (local stores, Google Tasks, the remote HTTP API) implements it.
// Screens never import a backend directly.
type Service interface {
	// SignIn authenticates a user.
	// Returns ErrInvalidCredentials when the email or password is wrong.
	SignIn(ctx context.Context, email, password string) (Session, error)

	// SignUp creates an account and signs it in.
	// Returns ErrEmailTaken if the email is already registered.
	SignUp(ctx context.Context, email, password string) (Session, error)

	// SignOut drops backend-side session state.
	// Callers clear their local session regardless of the result.
	SignOut(ctx context.Context) error

	// Resume re-validates a previously issued session.
	// Returns ErrUnauthorized if the token is invalid or expired.
	Resume(ctx context.Context, s Session) (Session, error)

	// GetTasks returns the tasks owned by email in creation order.
	GetTasks(ctx context.Context, email string) ([]Task, error)

	// AddTask creates a task owned by email.
	AddTask(ctx context.Context, email, text string) error

	// DeleteTask deletes a task by ID.
	// Returns ErrNotFound if no such task exists.
	DeleteTask(ctx context.Context, id string) error
}
