// Package memory implements the user and task stores in memory.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"tareas/internal/service"
	"tareas/internal/store"
)

type task struct {
	service.Task
	owner string
}

// Store is an in-memory UserStore and TaskStore.
type Store struct {
	mu    sync.RWMutex
	users map[string]store.User // lower-cased email -> user
	tasks []task
}

// New creates an empty store.
func New() *Store {
	return &Store{users: make(map[string]store.User)}
}

// CreateUser implements store.UserStore.
func (s *Store) CreateUser(ctx context.Context, u store.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, exists := s.users[key]; exists {
		return store.ErrDuplicate
	}
	s.users[key] = u
	return nil
}

// UserByEmail implements store.UserStore.
func (s *Store) UserByEmail(ctx context.Context, email string) (store.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return store.User{}, store.ErrNotFound
	}
	return u, nil
}

// ListTasks implements store.TaskStore.
func (s *Store) ListTasks(ctx context.Context, email string) ([]service.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := []service.Task{}
	for _, t := range s.tasks {
		if t.owner == email {
			result = append(result, t.Task)
		}
	}
	return result, nil
}

// InsertTask implements store.TaskStore.
func (s *Store) InsertTask(ctx context.Context, email, text string) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := service.Task{ID: uuid.NewString(), Task: text}
	s.tasks = append(s.tasks, task{Task: t, owner: email})
	return t, nil
}

// DeleteTask implements store.TaskStore.
func (s *Store) DeleteTask(ctx context.Context, email, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, t := range s.tasks {
		if t.ID == id && t.owner == email {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
