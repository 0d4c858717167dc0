package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"tareas/internal/exitcode"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	id string
}

// SetID deletes by task ID instead of row number (for testing).
func (c *RmCmd) SetID(id string) {
	c.id = id
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "tareas rm <n> | --id <id>" }
func (c *RmCmd) Needs() Requirement { return NeedsBackend }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "")
}

func (c *RmCmd) Run(ctx context.Context, env *Env, args []string) int {
	id := c.id
	if id != "" && len(args) > 0 {
		fmt.Fprintln(env.ErrOut, "error: cannot use both --id and a task number")
		return exitcode.UserError
	}

	var num int
	if id == "" {
		var err error
		num, err = ParseTaskNumber(args)
		if err != nil {
			if errors.Is(err, ErrTaskRefRequired) {
				fmt.Fprintln(env.ErrOut, "error: task reference required")
			} else {
				fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			}
			return exitcode.UserError
		}
	}

	if !requireSession(env) {
		return exitcode.AuthError
	}

	if id == "" {
		row, err := rowAt(env.App.Tasks.View().Rows, num)
		if err != nil {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			finish(env, nil)
			return exitcode.UserError
		}
		id = row.ID
	}

	err := env.App.Tasks.Delete(ctx, id)
	if err == nil && !env.Config.Quiet {
		fmt.Fprintln(env.Out, "ok")
	}
	return finish(env, err)
}
