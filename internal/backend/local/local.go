// Package local implements service.Service on top of the user and task stores.
package local

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tareas/internal/auth"
	"tareas/internal/forms"
	"tareas/internal/service"
	"tareas/internal/store"
)

// Service implements service.Service with local stores.
//
// DeleteTask acts for the account this Service last signed in, signed up or
// resumed. Servers shared by many accounts use DeleteTaskFor instead.
type Service struct {
	users  store.UserStore
	tasks  store.TaskStore
	tokens *auth.Tokens
	logger *slog.Logger

	mu    sync.Mutex
	owner string
}

// New creates a local service.
func New(users store.UserStore, tasks store.TaskStore, tokens *auth.Tokens, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		users:  users,
		tasks:  tasks,
		tokens: tokens,
		logger: logger,
	}
}

// normalizeEmail trims and lower-cases an email so one account has one task owner.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SignIn implements service.Service.
func (s *Service) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return service.Session{}, service.ErrInvalidCredentials
	}

	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return service.Session{}, service.ErrInvalidCredentials
	}
	if err != nil {
		return service.Session{}, err
	}

	if err := auth.CheckPassword(u.PasswordHash, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			s.logger.Warn("password check failed", "email", email, "error", err)
		}
		return service.Session{}, service.ErrInvalidCredentials
	}

	s.logger.Debug("signed in", "email", u.Email)
	return s.issue(u)
}

// SignUp implements service.Service.
func (s *Service) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	email = normalizeEmail(email)
	if msg := forms.ValidateEmail(email); msg != "" {
		return service.Session{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, msg)
	}
	if msg := forms.ValidatePassword(password); msg != "" {
		return service.Session{}, fmt.Errorf("%w: %s", service.ErrInvalidInput, msg)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return service.Session{}, err
	}

	u := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return service.Session{}, service.ErrEmailTaken
		}
		return service.Session{}, err
	}

	s.logger.Info("account created", "email", email)
	return s.issue(u)
}

func (s *Service) issue(u store.User) (service.Session, error) {
	token, expires, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return service.Session{}, err
	}
	s.setOwner(u.Email)
	return service.Session{Email: u.Email, Token: token, ExpiresAt: expires}, nil
}

// SignOut implements service.Service. Tokens are stateless, so there is nothing to drop.
func (s *Service) SignOut(ctx context.Context) error {
	s.setOwner("")
	return nil
}

func (s *Service) setOwner(email string) {
	s.mu.Lock()
	s.owner = email
	s.mu.Unlock()
}

// Resume implements service.Service.
func (s *Service) Resume(ctx context.Context, sess service.Session) (service.Session, error) {
	claims, err := s.Verify(sess.Token)
	if err != nil {
		return service.Session{}, err
	}
	if claims.Email != normalizeEmail(sess.Email) {
		return service.Session{}, service.ErrUnauthorized
	}
	s.setOwner(claims.Email)
	return service.Session{
		Email:     claims.Email,
		Token:     sess.Token,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks a session token. The HTTP API uses it to authenticate requests.
func (s *Service) Verify(token string) (*auth.Claims, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, service.ErrUnauthorized
	}
	return claims, nil
}

// GetTasks implements service.Service.
func (s *Service) GetTasks(ctx context.Context, email string) ([]service.Task, error) {
	return s.tasks.ListTasks(ctx, normalizeEmail(email))
}

// AddTask implements service.Service.
func (s *Service) AddTask(ctx context.Context, email, text string) error {
	email = normalizeEmail(email)
	if email == "" || strings.TrimSpace(text) == "" {
		return service.ErrInvalidInput
	}
	t, err := s.tasks.InsertTask(ctx, email, text)
	if err != nil {
		return err
	}
	s.logger.Debug("task added", "email", email, "id", t.ID)
	return nil
}

// DeleteTask implements service.Service. Without a session it returns
// ErrUnauthorized.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	s.mu.Lock()
	owner := s.owner
	s.mu.Unlock()
	if owner == "" {
		return service.ErrUnauthorized
	}
	return s.DeleteTaskFor(ctx, owner, id)
}

// DeleteTaskFor deletes the task id if it belongs to email. Tasks of other
// accounts are reported as ErrNotFound.
func (s *Service) DeleteTaskFor(ctx context.Context, email, id string) error {
	if err := s.tasks.DeleteTask(ctx, normalizeEmail(email), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return service.ErrNotFound
		}
		return err
	}
	s.logger.Debug("task deleted", "id", id)
	return nil
}
