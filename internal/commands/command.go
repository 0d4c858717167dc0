// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"errors"
	"flag"
	"io"
	"log/slog"

	"tareas/internal/backend/googletasks"
	"tareas/internal/config"
	"tareas/internal/exitcode"
	"tareas/internal/screens"
	"tareas/internal/service"
	"tareas/internal/session"
	"tareas/internal/tasklist"
	"tareas/internal/ui"
)

// Requirement is what the dispatcher prepares before running a command.
type Requirement int

const (
	// NeedsNothing commands only see the config paths (help, version).
	NeedsNothing Requirement = iota
	// NeedsSettings commands also get config.yaml loaded.
	NeedsSettings
	// NeedsBackend commands also get a started App over the backend.
	NeedsBackend
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// Needs returns what must be set up before Run.
	Needs() Requirement

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// env.App and env.Notices are nil unless Needs() is NeedsBackend.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string) int
}

// Env is what a command runs against.
type Env struct {
	Config *config.Config
	Logger *slog.Logger
	Out    io.Writer
	ErrOut io.Writer

	App     *screens.App
	Notices *ui.Queue // the App's notifier
}

// NewEnv builds the screens over svc and restores the saved session.
func NewEnv(ctx context.Context, cfg *config.Config, logger *slog.Logger, svc service.Service, out, errOut io.Writer) (*Env, error) {
	queue := &ui.Queue{}
	mgr := session.NewManager(svc, session.NewFileStore(cfg.SessionPath()), logger)
	app := screens.NewApp(ctx, mgr, queue, logger)
	if err := app.Start(ctx); err != nil {
		app.Close()
		return nil, err
	}
	return &Env{
		Config:  cfg,
		Logger:  logger,
		Out:     out,
		ErrOut:  errOut,
		App:     app,
		Notices: queue,
	}, nil
}

// Close detaches the App from the session.
func (e *Env) Close() {
	if e.App != nil {
		e.App.Close()
	}
}

// finish prints queued notices and picks the exit code: err's if set,
// BackendError if an error notice was shown, Success otherwise.
func finish(env *Env, err error) int {
	w := ui.WriterNotifier{Out: env.Out, ErrOut: env.ErrOut, Quiet: env.Config.Quiet}
	shown := false
	for _, n := range env.Notices.Drain() {
		if n.Kind == ui.Error {
			shown = true
		}
		w.Notify(n)
	}
	if err != nil {
		return ExitCode(err)
	}
	if shown {
		return exitcode.BackendError
	}
	return exitcode.Success
}

// ExitCode maps an operation error to an exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, googletasks.ErrNotLinked):
		return exitcode.AuthError
	case errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrNotFound),
		errors.Is(err, screens.ErrInvalidForm),
		errors.Is(err, screens.ErrSessionActive),
		errors.Is(err, tasklist.ErrNoInput):
		return exitcode.UserError
	default:
		return exitcode.BackendError
	}
}
