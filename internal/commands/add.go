package commands

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"tareas/internal/exitcode"
	"tareas/internal/ui"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Add a task" }
func (c *AddCmd) Usage() string      { return "tareas add <text...>" }
func (c *AddCmd) Needs() Requirement { return NeedsBackend }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(env.ErrOut, "error: text required")
		return exitcode.UserError
	}
	if !requireSession(env) {
		return exitcode.AuthError
	}

	tasks := env.App.Tasks
	tasks.SetInput(strings.Join(args, " "))
	err := tasks.Add(ctx)
	if err == nil && !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return finish(env, err)
}

// requireSession reports whether someone is signed in, printing the
// no-session prompt when not.
func requireSession(env *Env) bool {
	if env.App.Session.Current() != nil {
		return true
	}
	fmt.Fprintf(env.ErrOut, "error: %s\n", ui.NoSessionPrompt)
	return false
}
