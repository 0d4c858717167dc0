package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"tareas/internal/exitcode"
	"tareas/internal/session"
	"tareas/internal/tui"
)

func init() {
	Register(&AppCmd{})
}

// AppCmd runs the interactive terminal app.
type AppCmd struct{}

func (c *AppCmd) Name() string       { return "app" }
func (c *AppCmd) Aliases() []string  { return []string{"tui"} }
func (c *AppCmd) Synopsis() string   { return "Open the interactive app" }
func (c *AppCmd) Usage() string      { return "tareas app" }
func (c *AppCmd) Needs() Requirement { return NeedsBackend }

func (c *AppCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AppCmd) Run(ctx context.Context, env *Env, args []string) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Follow sign-ins and sign-outs made by other tareas processes.
	if err := env.App.Session.Watch(ctx); err != nil && !errors.Is(err, session.ErrNotWatchable) {
		env.Logger.Warn("not watching the session file", "error", err)
	}

	if err := tui.Run(ctx, env.App, env.Notices, env.Logger); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
