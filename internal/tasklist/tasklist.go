// Package tasklist is the view-model of the main screen: the signed-in
// user's tasks, the new-task input and the add and delete flows.
//
// The list is never edited locally. Every mutation is followed by a full
// fetch and the view shows the result of that fetch. Mutate and refresh are
// two separate backend calls, so another client may change the list between
// them; the refresh shows whatever the backend holds at that point.
package tasklist

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"tareas/internal/service"
	"tareas/internal/ui"
)

// ErrNoInput is returned by Add when there is no text or no session.
var ErrNoInput = errors.New("no task text or session")

// TaskAPI is the part of the session handle the list needs.
type TaskAPI interface {
	GetTasks(ctx context.Context, email string) ([]service.Task, error)
	AddTask(ctx context.Context, email, text string) error
	DeleteTask(ctx context.Context, id string) error
}

// Model holds the main screen state. Safe for concurrent use.
type Model struct {
	api      TaskAPI
	notifier ui.Notifier
	logger   *slog.Logger

	// mutation serializes add and delete, each with its refresh.
	mutation sync.Mutex

	mu         sync.Mutex
	email      string // "" when signed out
	generation uint64 // bumped on every identity change
	nextSeq    uint64
	appliedSeq uint64
	tasks      []service.Task
	input      string
}

// New creates a model with no session.
func New(api TaskAPI, notifier ui.Notifier, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}
	return &Model{api: api, notifier: notifier, logger: logger}
}

// SetSession switches the model to s (nil when signed out). When the
// identity changes the previous user's tasks are dropped and, if signed in,
// the new user's tasks are fetched.
func (m *Model) SetSession(ctx context.Context, s *service.Session) error {
	email := ""
	if s != nil {
		email = s.Email
	}

	m.mu.Lock()
	if strings.EqualFold(email, m.email) {
		m.mu.Unlock()
		return nil
	}
	m.email = email
	m.generation++
	m.tasks = nil
	m.input = ""
	m.mu.Unlock()

	if email == "" {
		return nil
	}
	return m.Load(ctx)
}

// Load fetches the task list and replaces the local copy. A response is
// dropped if a newer one was already applied or the session changed while
// it was in flight.
func (m *Model) Load(ctx context.Context) error {
	stale, err := m.fetch(ctx)
	if stale || err == nil {
		return nil
	}
	m.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.TitleLoadFailed, Message: err.Error()})
	return err
}

// fetch tags a GetTasks call with a sequence number and the session
// generation and applies the result only if it is still the newest.
func (m *Model) fetch(ctx context.Context) (stale bool, err error) {
	m.mu.Lock()
	if m.email == "" {
		m.mu.Unlock()
		return true, nil
	}
	email := m.email
	gen := m.generation
	m.nextSeq++
	seq := m.nextSeq
	m.mu.Unlock()

	tasks, err := m.api.GetTasks(ctx, email)

	m.mu.Lock()
	stale = gen != m.generation || seq <= m.appliedSeq
	if !stale && err == nil {
		m.tasks = tasks
		m.appliedSeq = seq
	}
	m.mu.Unlock()

	if stale {
		m.logger.Debug("dropping stale task fetch", "email", email, "seq", seq)
		return true, nil
	}
	return false, err
}

// SetInput replaces the new-task text.
func (m *Model) SetInput(text string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.input = text
}

// Input returns the new-task text.
func (m *Model) Input() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.input
}

// Add creates a task from the input, refreshes the list, then clears the
// input. If creation fails the input is kept.
func (m *Model) Add(ctx context.Context) error {
	m.mutation.Lock()
	defer m.mutation.Unlock()

	m.mu.Lock()
	email, text, gen := m.email, m.input, m.generation
	m.mu.Unlock()

	if text == "" || email == "" {
		m.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.PromptEnterTask})
		return ErrNoInput
	}

	if err := m.api.AddTask(ctx, email, text); err != nil {
		m.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.TitleAddFailed, Message: err.Error()})
		return err
	}

	// The task exists now, so the input is cleared even if the refresh fails.
	err := m.refresh(ctx, ui.TitleAddFailed, true)

	m.mu.Lock()
	if m.generation == gen && m.input == text {
		m.input = ""
	}
	m.mu.Unlock()
	return err
}

// Delete removes the task with id and refreshes the list. Failures show a
// generic notice and leave the list as it was.
func (m *Model) Delete(ctx context.Context, id string) error {
	m.mutation.Lock()
	defer m.mutation.Unlock()

	m.mu.Lock()
	email := m.email
	m.mu.Unlock()
	if email == "" {
		return ErrNoInput
	}

	if err := m.api.DeleteTask(ctx, id); err != nil {
		m.logger.Debug("delete failed", "id", id, "error", err)
		m.notifier.Notify(ui.Notice{Kind: ui.Error, Title: ui.TitleDeleteFailed})
		return err
	}
	return m.refresh(ctx, ui.TitleDeleteFailed, false)
}

// refresh runs a fetch after a mutation and reports a failure under title.
func (m *Model) refresh(ctx context.Context, title string, withDetail bool) error {
	stale, err := m.fetch(ctx)
	if stale || err == nil {
		return nil
	}
	n := ui.Notice{Kind: ui.Error, Title: title}
	if withDetail {
		n.Message = err.Error()
	}
	m.notifier.Notify(n)
	return err
}

// Row is one rendered task.
type Row struct {
	ID   string
	Icon string
	Text string
}

// View is a snapshot of what the main screen shows.
type View struct {
	HasSession bool
	Email      string
	Count      int
	Input      string

	// Rows is set when Count > 0; Empty and Suggestions otherwise.
	Rows        []Row
	Empty       string
	Suggestions []string
}

// View returns the current screen state.
func (m *Model) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.email == "" {
		return View{}
	}
	v := View{
		HasSession: true,
		Email:      m.email,
		Count:      len(m.tasks),
		Input:      m.input,
	}
	if len(m.tasks) == 0 {
		v.Empty = ui.EmptyText
		v.Suggestions = append([]string(nil), ui.Suggestions...)
		return v
	}
	v.Rows = make([]Row, len(m.tasks))
	for i, t := range m.tasks {
		v.Rows[i] = Row{ID: t.ID, Icon: ui.CompletionIcon, Text: t.Task}
	}
	return v
}

// Tasks returns a copy of the displayed tasks.
func (m *Model) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Task(nil), m.tasks...)
}
