package tui

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/screens"
	"tareas/internal/service"
	"tareas/internal/session"
	"tareas/internal/testutil"
	"tareas/internal/ui"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	down  = tea.KeyMsg{Type: tea.KeyDown}
	ctrlD = tea.KeyMsg{Type: tea.KeyCtrlD}
	ctrlO = tea.KeyMsg{Type: tea.KeyCtrlO}
	ctrlT = tea.KeyMsg{Type: tea.KeyCtrlT}
)

func newModel(t *testing.T) (*Model, *testutil.FakeService) {
	t.Helper()
	ctx := context.Background()
	fake := testutil.NewFakeService()
	fake.CreateAccount("a@b.com", "secret1")
	q := &ui.Queue{}
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	app := screens.NewApp(ctx, session.NewManager(fake, store, nil), q, nil)
	m := New(ctx, app, q, nil)
	t.Cleanup(func() {
		m.Close()
		app.Close()
	})
	return m, fake
}

// send delivers msg and, if it started an operation, runs it to completion.
func send(t *testing.T, m *Model, msg tea.Msg) {
	t.Helper()
	_, cmd := m.Update(msg)
	if m.busy {
		require.NotNil(t, cmd)
		m.Update(cmd())
	}
}

func typeText(t *testing.T, m *Model, s string) {
	t.Helper()
	send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func signIn(t *testing.T, m *Model) {
	t.Helper()
	typeText(t, m, "a@b.com")
	send(t, m, tab)
	typeText(t, m, "secret1")
	send(t, m, enter)
	require.Equal(t, screens.Main, m.app.Router.Current())
}

func TestStartsOnSignIn(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, screens.SignIn, m.app.Router.Current())
	assert.Contains(t, m.View(), ui.SignInHeading)
}

func TestSignInShowsTasks(t *testing.T) {
	m, fake := newModel(t)
	fake.Seed("a@b.com", service.Task{ID: "1", Task: "Comprar pan"})

	signIn(t, m)

	out := m.View()
	assert.Contains(t, out, ui.WelcomePrefix+"a@b.com")
	assert.Contains(t, out, ui.CounterPrefix+"1")
	assert.Contains(t, out, "Comprar pan")
	assert.Nil(t, m.notice)
}

func TestSignInFailureShowsNoticeUntilDismissed(t *testing.T) {
	m, fake := newModel(t)
	fake.SignInErr = errors.New("usuario bloqueado")

	typeText(t, m, "a@b.com")
	send(t, m, enter)

	require.NotNil(t, m.notice)
	assert.Equal(t, ui.TitleSignInFailed, m.notice.Title)
	assert.Contains(t, m.View(), "usuario bloqueado")

	// Keys other than dismiss are swallowed while the notice is up.
	typeText(t, m, "x")
	assert.Equal(t, "a@b.com", m.app.SignIn.Form().Email)

	send(t, m, enter)
	assert.Nil(t, m.notice)
	assert.Equal(t, screens.SignIn, m.app.Router.Current())
}

func TestSignUpBlurShowsFieldError(t *testing.T) {
	m, fake := newModel(t)
	send(t, m, ctrlT)
	require.Equal(t, screens.SignUp, m.app.Router.Current())

	typeText(t, m, "bad-email")
	send(t, m, tab)
	assert.Contains(t, m.View(), ui.EmailInvalid)

	send(t, m, enter)
	require.NotNil(t, m.notice)
	assert.Equal(t, ui.PromptFixErrors, m.notice.Title)
	assert.Empty(t, fake.Calls())
}

func TestAddTaskClearsInput(t *testing.T) {
	m, fake := newModel(t)
	signIn(t, m)
	fake.ResetCalls()

	typeText(t, m, "Buy milk")
	send(t, m, enter)

	assert.Equal(t, []string{"AddTask a@b.com Buy milk", "GetTasks a@b.com"}, fake.Calls())
	assert.Equal(t, "", m.taskIn.Value())
	assert.Contains(t, m.View(), "Buy milk")
}

func TestAddEmptyInputPrompts(t *testing.T) {
	m, fake := newModel(t)
	signIn(t, m)
	fake.ResetCalls()

	send(t, m, enter)
	require.NotNil(t, m.notice)
	assert.Equal(t, ui.PromptEnterTask, m.notice.Title)
	assert.Empty(t, fake.Calls())
}

func TestDeleteSelectedTask(t *testing.T) {
	m, fake := newModel(t)
	fake.Seed("a@b.com", service.Task{ID: "1", Task: "X"}, service.Task{ID: "2", Task: "Y"})
	signIn(t, m)
	fake.ResetCalls()

	send(t, m, down)
	send(t, m, ctrlD)

	assert.Equal(t, []string{"DeleteTask 2", "GetTasks a@b.com"}, fake.Calls())
	assert.Equal(t, 0, m.cursor)
	assert.NotContains(t, m.View(), ui.CompletionIcon+" Y")
}

func TestSignOutReturnsToSignIn(t *testing.T) {
	m, _ := newModel(t)
	signIn(t, m)

	send(t, m, ctrlO)
	assert.Equal(t, screens.SignIn, m.app.Router.Current())
	assert.Equal(t, "", m.emailIn.Value())
}

func TestOutsideSessionChange(t *testing.T) {
	m, _ := newModel(t)
	signIn(t, m)
	<-m.sessions // drop the sign-in wakeup

	m.app.Session.SignOut(context.Background())
	msg := m.waitSession()
	require.IsType(t, sessionChangedMsg{}, msg)

	_, cmd := m.Update(msg)
	assert.NotNil(t, cmd, "keeps listening")
	assert.Equal(t, screens.SignIn, m.app.Router.Current())
	assert.Contains(t, m.View(), ui.SignInHeading)
}

func TestKeysIgnoredWhileBusy(t *testing.T) {
	m, _ := newModel(t)
	m.busy = true
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	assert.Equal(t, "", m.app.SignIn.Form().Email)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
