// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"tareas/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Every call is recorded in order, see Calls.
type FakeService struct {
	mu       sync.Mutex
	accounts map[string]string // email -> password
	tasks    map[string][]service.Task
	nextID   int
	calls    []string

	// Error injection for testing
	SignInErr     error
	SignUpErr     error
	SignOutErr    error
	ResumeErr     error
	GetTasksErr   error
	AddTaskErr    error
	DeleteTaskErr error

	// GetTasksHook, if set, runs before GetTasks returns. Tests use it to
	// hold a fetch in flight.
	GetTasksHook func(ctx context.Context, email string)
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{
		accounts: make(map[string]string),
		tasks:    make(map[string][]service.Task),
	}
}

// Token returns the token the fake issues for email.
func Token(email string) string {
	return "token-" + email
}

// CreateAccount registers an account without recording a call.
func (f *FakeService) CreateAccount(email, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[email] = password
}

// Seed appends tasks for email without recording a call.
func (f *FakeService) Seed(email string, tasks ...service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[email] = append(f.tasks[email], tasks...)
}

// Tasks returns a copy of email's tasks.
func (f *FakeService) Tasks(email string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task{}, f.tasks[email]...)
}

// Calls returns the recorded calls, e.g. "AddTask a@b.com Buy milk".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// ResetCalls clears the call log.
func (f *FakeService) ResetCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

func (f *FakeService) record(format string, args ...any) {
	f.calls = append(f.calls, strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (f *FakeService) session(email string) service.Session {
	return service.Session{Email: email, Token: Token(email)}
}

// SignIn implements service.Service.
func (f *FakeService) SignIn(ctx context.Context, email, password string) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignIn %s", email)
	if f.SignInErr != nil {
		return service.Session{}, f.SignInErr
	}
	if pw, ok := f.accounts[email]; !ok || pw != password {
		return service.Session{}, service.ErrInvalidCredentials
	}
	return f.session(email), nil
}

// SignUp implements service.Service.
func (f *FakeService) SignUp(ctx context.Context, email, password string) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignUp %s", email)
	if f.SignUpErr != nil {
		return service.Session{}, f.SignUpErr
	}
	if _, ok := f.accounts[email]; ok {
		return service.Session{}, service.ErrEmailTaken
	}
	f.accounts[email] = password
	return f.session(email), nil
}

// SignOut implements service.Service.
func (f *FakeService) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("SignOut")
	return f.SignOutErr
}

// Resume implements service.Service.
func (f *FakeService) Resume(ctx context.Context, s service.Session) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Resume %s", s.Email)
	if f.ResumeErr != nil {
		return service.Session{}, f.ResumeErr
	}
	if s.Token != Token(s.Email) {
		return service.Session{}, service.ErrUnauthorized
	}
	return s, nil
}

// GetTasks implements service.Service. The result is taken when the call
// starts, so a call held by GetTasksHook returns what was current then.
func (f *FakeService) GetTasks(ctx context.Context, email string) ([]service.Task, error) {
	f.mu.Lock()
	f.record("GetTasks %s", email)
	hook := f.GetTasksHook
	err := f.GetTasksErr
	tasks := append([]service.Task{}, f.tasks[email]...)
	f.mu.Unlock()

	if hook != nil {
		hook(ctx, email)
	}
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// AddTask implements service.Service.
func (f *FakeService) AddTask(ctx context.Context, email, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("AddTask %s %s", email, text)
	if f.AddTaskErr != nil {
		return f.AddTaskErr
	}
	f.nextID++
	f.tasks[email] = append(f.tasks[email], service.Task{ID: "t" + strconv.Itoa(f.nextID), Task: text})
	return nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask %s", id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for email, tasks := range f.tasks {
		for i, t := range tasks {
			if t.ID == id {
				f.tasks[email] = append(tasks[:i:i], tasks[i+1:]...)
				return nil
			}
		}
	}
	return service.ErrNotFound
}
