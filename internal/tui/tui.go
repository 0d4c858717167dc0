// Package tui is the interactive terminal front end. It renders the screens
// of a screens.App and feeds key presses back into them.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tareas/internal/screens"
	"tareas/internal/service"
	"tareas/internal/ui"
)

type focus int

const (
	focusEmail focus = iota
	focusPassword
	focusTask
)

// opDoneMsg reports the end of a backend operation started from a key press.
type opDoneMsg struct{ err error }

// sessionChangedMsg reports a session change made outside a key press,
// such as another process signing out.
type sessionChangedMsg struct{}

// Model is the bubbletea model. The screens own all state; the model only
// mirrors their fields into text inputs and shows their notices.
type Model struct {
	ctx    context.Context
	app    *screens.App
	queue  *ui.Queue
	logger *slog.Logger
	keys   keyMap

	sessions    chan struct{}
	unsubscribe func()

	emailIn textinput.Model
	passIn  textinput.Model
	taskIn  textinput.Model
	focus   focus
	cursor  int

	notice  *ui.Notice
	pending []ui.Notice
	busy    bool
	width   int
}

// New creates the model. queue must be the notifier app was built with.
func New(ctx context.Context, app *screens.App, queue *ui.Queue, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.Default()
	}

	email := textinput.New()
	email.Placeholder = "tu@email.com"
	email.CharLimit = 254

	pass := textinput.New()
	pass.Placeholder = "••••••"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	task := textinput.New()
	task.Placeholder = ui.TaskPlaceholder
	task.CharLimit = 500

	m := &Model{
		ctx:      ctx,
		app:      app,
		queue:    queue,
		logger:   logger,
		keys:     defaultKeys(),
		sessions: make(chan struct{}, 1),
		emailIn:  email,
		passIn:   pass,
		taskIn:   task,
	}
	// Subscribed after the app, so the screens are up to date when this runs.
	m.unsubscribe = app.Session.Subscribe(func(*service.Session) {
		select {
		case m.sessions <- struct{}{}:
		default:
		}
	})
	m.sync()
	return m
}

// Close detaches the model from the session handle.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
}

// Run shows the interface until the user quits or ctx is cancelled.
func Run(ctx context.Context, app *screens.App, queue *ui.Queue, logger *slog.Logger, opts ...tea.ProgramOption) error {
	m := New(ctx, app, queue, logger)
	defer m.Close()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(m, opts...).Run()
	return err
}

// Init starts listening for outside session changes. The app is expected
// to be started already.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitSession)
}

// run starts fn off the update loop. Key presses are ignored until it ends.
func (m *Model) run(fn func(ctx context.Context) error) tea.Cmd {
	m.busy = true
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{err: fn(ctx)}
	}
}

func (m *Model) waitSession() tea.Msg {
	select {
	case <-m.sessions:
		return sessionChangedMsg{}
	case <-m.ctx.Done():
		return nil
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case opDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.logger.Debug("operation failed", "error", msg.err)
		}
		m.sync()
		return m, nil

	case sessionChangedMsg:
		m.sync()
		return m, m.waitSession

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		if m.notice != nil {
			if key.Matches(msg, m.keys.Dismiss) {
				m.nextNotice()
			}
			return m, nil
		}
		if m.busy {
			return m, nil
		}
		switch m.app.Router.Current() {
		case screens.SignIn:
			return m.updateSignIn(msg)
		case screens.SignUp:
			return m.updateSignUp(msg)
		default:
			return m.updateMain(msg)
		}
	}
	return m, nil
}

func (m *Model) updateSignIn(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.app.SignIn
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		return m, m.setFocus(otherField(m.focus))
	case key.Matches(msg, m.keys.Submit):
		return m, m.run(s.Submit)
	case key.Matches(msg, m.keys.Toggle):
		if err := s.GoToSignUp(); err != nil {
			m.logger.Debug("navigation refused", "error", err)
		}
		m.sync()
		return m, nil
	}

	cmd := m.updateField(msg)
	s.SetEmail(m.emailIn.Value())
	s.SetPassword(m.passIn.Value())
	return m, cmd
}

func (m *Model) updateSignUp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.app.SignUp
	switch {
	case key.Matches(msg, m.keys.Next), key.Matches(msg, m.keys.Prev):
		if m.focus == focusEmail {
			s.BlurEmail()
		} else {
			s.BlurPassword()
		}
		return m, m.setFocus(otherField(m.focus))
	case key.Matches(msg, m.keys.Submit):
		return m, m.run(s.Submit)
	case key.Matches(msg, m.keys.Toggle):
		if err := s.GoToSignIn(); err != nil {
			m.logger.Debug("navigation refused", "error", err)
		}
		m.sync()
		return m, nil
	}

	cmd := m.updateField(msg)
	s.SetEmail(m.emailIn.Value())
	s.SetPassword(m.passIn.Value())
	return m, cmd
}

func (m *Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	tasks := m.app.Tasks
	v := tasks.View()
	if !v.HasSession {
		if key.Matches(msg, m.keys.Submit) {
			if err := m.app.Router.Navigate(screens.SignIn); err != nil {
				m.logger.Debug("navigation refused", "error", err)
			}
			m.sync()
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Submit):
		return m, m.run(tasks.Add)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(v.Rows)-1 {
			m.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if m.cursor >= len(v.Rows) {
			return m, nil
		}
		id := v.Rows[m.cursor].ID
		return m, m.run(func(ctx context.Context) error { return tasks.Delete(ctx, id) })
	case key.Matches(msg, m.keys.SignOut):
		return m, m.run(func(ctx context.Context) error {
			m.app.SignOut(ctx)
			return nil
		})
	}

	var cmd tea.Cmd
	m.taskIn, cmd = m.taskIn.Update(msg)
	tasks.SetInput(m.taskIn.Value())
	return m, cmd
}

func (m *Model) updateField(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	if m.focus == focusPassword {
		m.passIn, cmd = m.passIn.Update(msg)
	} else {
		m.emailIn, cmd = m.emailIn.Update(msg)
	}
	return cmd
}

func otherField(f focus) focus {
	if f == focusEmail {
		return focusPassword
	}
	return focusEmail
}

func (m *Model) setFocus(f focus) tea.Cmd {
	m.focus = f
	m.emailIn.Blur()
	m.passIn.Blur()
	m.taskIn.Blur()
	switch f {
	case focusEmail:
		return m.emailIn.Focus()
	case focusPassword:
		return m.passIn.Focus()
	default:
		return m.taskIn.Focus()
	}
}

// sync copies the visible screen's state into the inputs and picks up
// queued notices.
func (m *Model) sync() {
	switch m.app.Router.Current() {
	case screens.SignIn:
		f := m.app.SignIn.Form()
		m.emailIn.SetValue(f.Email)
		m.passIn.SetValue(f.Password)
		m.authFocus()
	case screens.SignUp:
		f := m.app.SignUp.Form()
		m.emailIn.SetValue(f.Email)
		m.passIn.SetValue(f.Password)
		m.authFocus()
	default:
		m.taskIn.SetValue(m.app.Tasks.Input())
		m.setFocus(focusTask)
		if n := len(m.app.Tasks.View().Rows); m.cursor >= n {
			m.cursor = max(n-1, 0)
		}
	}

	m.pending = append(m.pending, m.queue.Drain()...)
	if m.notice == nil {
		m.nextNotice()
	}
}

func (m *Model) authFocus() {
	if m.focus == focusTask {
		m.setFocus(focusEmail)
		return
	}
	m.setFocus(m.focus)
}

func (m *Model) nextNotice() {
	if len(m.pending) == 0 {
		m.notice = nil
		return
	}
	n := m.pending[0]
	m.pending = m.pending[1:]
	m.notice = &n
}
