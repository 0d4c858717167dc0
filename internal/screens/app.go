package screens

import (
	"context"
	"log/slog"

	"tareas/internal/service"
	"tareas/internal/session"
	"tareas/internal/tasklist"
	"tareas/internal/ui"
)

// App wires the session handle, router and screens together.
type App struct {
	Session *session.Manager
	Router  *Router
	SignIn  *SignInScreen
	SignUp  *SignUpScreen
	Tasks   *tasklist.Model

	logger      *slog.Logger
	unsubscribe func()
}

// NewApp builds the screens over mgr. Session changes move the router and
// reload the task list using ctx, on the goroutine that made the change.
func NewApp(ctx context.Context, mgr *session.Manager, notifier ui.Notifier, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	router := NewRouter(SignIn)
	a := &App{
		Session: mgr,
		Router:  router,
		SignIn:  NewSignInScreen(mgr, router, notifier),
		SignUp:  NewSignUpScreen(mgr, router, notifier),
		Tasks:   tasklist.New(mgr, notifier, logger),
		logger:  logger,
	}
	router.OnTransition(func(from, to Screen) {
		logger.Debug("screen changed", "from", from, "to", to)
	})
	a.unsubscribe = mgr.Subscribe(func(s *service.Session) {
		a.Router.SessionChanged(s)
		if err := a.Tasks.SetSession(ctx, s); err != nil {
			a.logger.Debug("task load after session change failed", "error", err)
		}
	})
	return a
}

// Start restores a saved session, if any.
func (a *App) Start(ctx context.Context) error {
	_, err := a.Session.Restore(ctx)
	return err
}

// SignOut ends the session; the router returns to SignIn.
func (a *App) SignOut(ctx context.Context) {
	a.Session.SignOut(ctx)
}

// Close detaches the app from the session handle.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}
