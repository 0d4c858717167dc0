package screens_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/screens"
	"tareas/internal/service"
	"tareas/internal/session"
	"tareas/internal/testutil"
	"tareas/internal/ui"
)

func newApp(t *testing.T) (*screens.App, *testutil.FakeService, *ui.Queue) {
	t.Helper()
	fake := testutil.NewFakeService()
	fake.CreateAccount("a@b.com", "secret1")
	q := &ui.Queue{}
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	mgr := session.NewManager(fake, store, nil)
	app := screens.NewApp(context.Background(), mgr, q, nil)
	t.Cleanup(app.Close)
	return app, fake, q
}

func TestRouter_SignedOutNavigation(t *testing.T) {
	r := screens.NewRouter(screens.SignIn)
	var moves []string
	r.OnTransition(func(from, to screens.Screen) { moves = append(moves, from.String()+">"+to.String()) })

	require.NoError(t, r.Navigate(screens.SignUp))
	require.NoError(t, r.Navigate(screens.SignIn))
	require.NoError(t, r.Navigate(screens.Main))
	require.NoError(t, r.Navigate(screens.Main))

	assert.Equal(t, []string{"signin>signup", "signup>signin", "signin>main"}, moves)
}

func TestRouter_SessionPinsMain(t *testing.T) {
	r := screens.NewRouter(screens.SignUp)
	left := 0
	r.OnLeave(screens.SignUp, func() { left++ })

	r.SessionChanged(&service.Session{Email: "a@b.com"})
	assert.Equal(t, screens.Main, r.Current())
	assert.Equal(t, 1, left)
	assert.ErrorIs(t, r.Navigate(screens.SignIn), screens.ErrSessionActive)
	assert.ErrorIs(t, r.Navigate(screens.SignUp), screens.ErrSessionActive)
	assert.NoError(t, r.Navigate(screens.Main))

	r.SessionChanged(nil)
	assert.Equal(t, screens.SignIn, r.Current())
	assert.NoError(t, r.Navigate(screens.SignUp))
}

func TestSignIn_Success(t *testing.T) {
	ctx := context.Background()
	app, fake, q := newApp(t)
	fake.Seed("a@b.com", service.Task{ID: "1", Task: "X"})

	app.SignIn.SetEmail("a@b.com")
	app.SignIn.SetPassword("secret1")
	require.NoError(t, app.SignIn.Submit(ctx))

	assert.Equal(t, screens.Main, app.Router.Current())
	assert.Equal(t, 1, app.Tasks.View().Count)
	assert.Empty(t, app.SignIn.Form().Email, "leaving sign-in resets the form")
	assert.Empty(t, q.Drain())
}

func TestSignIn_FailureShowsBackendMessage(t *testing.T) {
	app, fake, q := newApp(t)
	fake.SignInErr = errors.New("usuario bloqueado")

	app.SignIn.SetEmail("a@b.com")
	app.SignIn.SetPassword("whatever")
	assert.Error(t, app.SignIn.Submit(context.Background()))

	assert.Equal(t, screens.SignIn, app.Router.Current())
	assert.Equal(t, "a@b.com", app.SignIn.Form().Email, "form is kept on failure")
	assert.Equal(t, []ui.Notice{{Kind: ui.Error, Title: ui.TitleSignInFailed, Message: "usuario bloqueado"}}, q.Drain())
}

func TestSignIn_NoClientValidation(t *testing.T) {
	app, fake, q := newApp(t)

	assert.ErrorIs(t, app.SignIn.Submit(context.Background()), service.ErrInvalidCredentials)
	assert.Equal(t, []string{"SignIn"}, fake.Calls())
	assert.Len(t, q.Drain(), 1)
}

func TestSignUp_BadEmailDoesNotCallBackend(t *testing.T) {
	app, fake, q := newApp(t)
	require.NoError(t, app.SignIn.GoToSignUp())

	app.SignUp.SetEmail("bad-email")
	app.SignUp.SetPassword("secret1")
	assert.ErrorIs(t, app.SignUp.Submit(context.Background()), screens.ErrInvalidForm)

	assert.Equal(t, ui.EmailInvalid, app.SignUp.Form().EmailError)
	assert.Empty(t, app.SignUp.Form().PasswordError)
	assert.Empty(t, fake.Calls())
	assert.Equal(t, []ui.Notice{{Kind: ui.Error, Title: ui.PromptFixErrors}}, q.Drain())
}

func TestSignUp_BlurValidation(t *testing.T) {
	app, _, _ := newApp(t)

	app.SignUp.BlurEmail()
	assert.Equal(t, ui.EmailRequired, app.SignUp.Form().EmailError)

	app.SignUp.SetPassword("123")
	app.SignUp.BlurPassword()
	assert.Equal(t, ui.PasswordTooShort, app.SignUp.Form().PasswordError)

	app.SignUp.SetEmail("a@b.com")
	app.SignUp.BlurEmail()
	assert.Empty(t, app.SignUp.Form().EmailError)
}

func TestSignUp_SuccessNotifiesAndRedirects(t *testing.T) {
	app, fake, q := newApp(t)
	require.NoError(t, app.SignIn.GoToSignUp())

	app.SignUp.SetEmail("new@b.com")
	app.SignUp.SetPassword("secret1")
	require.NoError(t, app.SignUp.Submit(context.Background()))

	assert.Equal(t, screens.Main, app.Router.Current())
	assert.Equal(t, "new@b.com", app.Tasks.View().Email)
	assert.Equal(t, []string{"SignUp new@b.com", "GetTasks new@b.com"}, fake.Calls())
	assert.Equal(t, []ui.Notice{{Kind: ui.Info, Title: ui.TitleSignUpOK, Message: ui.MessageSignUpOK}}, q.Drain())
	assert.Empty(t, app.SignUp.Form().Email, "leaving sign-up resets the form")
}

func TestSignUp_FailureShowsMessage(t *testing.T) {
	app, _, q := newApp(t)

	app.SignUp.SetEmail("a@b.com")
	app.SignUp.SetPassword("secret1")
	assert.ErrorIs(t, app.SignUp.Submit(context.Background()), service.ErrEmailTaken)
	assert.Equal(t, []ui.Notice{{Kind: ui.Error, Title: ui.TitleSignUpFailed, Message: service.ErrEmailTaken.Error()}}, q.Drain())
}

func TestApp_SignOutReturnsToSignIn(t *testing.T) {
	ctx := context.Background()
	app, _, _ := newApp(t)
	app.SignIn.SetEmail("a@b.com")
	app.SignIn.SetPassword("secret1")
	require.NoError(t, app.SignIn.Submit(ctx))

	app.SignOut(ctx)
	assert.Equal(t, screens.SignIn, app.Router.Current())
	assert.False(t, app.Tasks.View().HasSession)
	assert.Nil(t, app.Session.Current())
}

func TestApp_StartRestoresSession(t *testing.T) {
	ctx := context.Background()
	fake := testutil.NewFakeService()
	fake.Seed("a@b.com", service.Task{ID: "1", Task: "X"})
	store := session.NewFileStore(filepath.Join(t.TempDir(), "session.json"))
	require.NoError(t, store.Save(service.Session{Email: "a@b.com", Token: testutil.Token("a@b.com")}))

	app := screens.NewApp(ctx, session.NewManager(fake, store, nil), &ui.Queue{}, nil)
	defer app.Close()
	require.NoError(t, app.Start(ctx))

	assert.Equal(t, screens.Main, app.Router.Current())
	assert.Equal(t, 1, app.Tasks.View().Count)
}
