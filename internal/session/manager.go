// Package session holds the signed-in session and tells observers when it changes.
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"tareas/internal/service"
)

// Observer is told about the session after every change. A nil session means
// signed out.
type Observer func(s *service.Session)

type subscription struct {
	id int
	fn Observer
}

// Manager owns the current session. It is passed explicitly to every screen.
//
// Observers run synchronously on the goroutine that changed the session, in
// subscription order, without the manager lock held. They may read Current
// but must not sign in or out from inside the callback.
type Manager struct {
	svc    service.Service
	store  Store
	logger *slog.Logger
	now    func() time.Time

	// notifyMu orders notifications so observers see changes in the order
	// they were applied.
	notifyMu sync.Mutex

	mu        sync.Mutex
	current   *service.Session
	observers []subscription
	nextID    int
}

// NewManager creates a manager. store may be nil to keep sessions in memory only.
func NewManager(svc service.Service, store Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		svc:    svc,
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Current returns a copy of the session, or nil when signed out.
func (m *Manager) Current() *service.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil
	}
	s := *m.current
	return &s
}

// Subscribe registers an observer and returns a function that removes it.
func (m *Manager) Subscribe(fn Observer) (unsubscribe func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.observers = append(m.observers, subscription{id: id, fn: fn})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, sub := range m.observers {
			if sub.id == id {
				m.observers = append(m.observers[:i:i], m.observers[i+1:]...)
				return
			}
		}
	}
}

// set replaces the session and notifies observers.
func (m *Manager) set(s *service.Session) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	if s != nil {
		cp := *s
		s = &cp
	}
	m.current = s
	observers := make([]subscription, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, sub := range observers {
		var arg *service.Session
		if s != nil {
			cp := *s
			arg = &cp
		}
		sub.fn(arg)
	}
}

func (m *Manager) persist(s service.Session) {
	if m.store == nil {
		return
	}
	if err := m.store.Save(s); err != nil {
		m.logger.Warn("could not persist session", "error", err)
	}
}

func (m *Manager) forget() {
	if m.store == nil {
		return
	}
	if err := m.store.Clear(); err != nil {
		m.logger.Warn("could not remove session", "error", err)
	}
}

// SignIn authenticates and makes the result the current session.
func (m *Manager) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	s, err := m.svc.SignIn(ctx, email, password)
	if err != nil {
		return service.Session{}, err
	}
	m.persist(s)
	m.set(&s)
	m.logger.Debug("session started", "email", s.Email)
	return s, nil
}

// SignUp creates an account and makes it the current session.
func (m *Manager) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	s, err := m.svc.SignUp(ctx, email, password)
	if err != nil {
		return service.Session{}, err
	}
	m.persist(s)
	m.set(&s)
	m.logger.Debug("session started", "email", s.Email)
	return s, nil
}

// SignOut ends the session. The local session is cleared even if the backend
// call fails; that failure is only logged.
func (m *Manager) SignOut(ctx context.Context) {
	if err := m.svc.SignOut(ctx); err != nil {
		m.logger.Warn("backend sign out failed", "error", err)
	}
	m.forget()
	m.set(nil)
}

// Restore loads the persisted session and revalidates it with the backend.
// An expired or rejected session file is removed and nil is returned.
func (m *Manager) Restore(ctx context.Context) (*service.Session, error) {
	if m.store == nil {
		return nil, nil
	}
	saved, err := m.store.Load()
	if err != nil {
		m.logger.Warn("discarding unreadable session", "error", err)
		m.forget()
		return nil, nil
	}
	if saved == nil {
		return nil, nil
	}
	if saved.Expired(m.now()) {
		m.logger.Info("session expired", "email", saved.Email)
		m.forget()
		return nil, nil
	}

	resumed, err := m.svc.Resume(ctx, *saved)
	if errors.Is(err, service.ErrUnauthorized) {
		m.logger.Info("session rejected", "email", saved.Email)
		m.forget()
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	m.set(&resumed)
	return m.Current(), nil
}

// GetTasks returns the tasks for email.
func (m *Manager) GetTasks(ctx context.Context, email string) ([]service.Task, error) {
	return m.svc.GetTasks(ctx, email)
}

// AddTask creates a task for email.
func (m *Manager) AddTask(ctx context.Context, email, text string) error {
	return m.svc.AddTask(ctx, email, text)
}

// DeleteTask deletes a task by ID.
func (m *Manager) DeleteTask(ctx context.Context, id string) error {
	return m.svc.DeleteTask(ctx, id)
}

// sameSession reports whether a and b are the same signed-in identity and token.
func sameSession(a, b *service.Session) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return strings.EqualFold(a.Email, b.Email) && a.Token == b.Token
}
