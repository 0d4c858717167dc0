package commands

import (
	"context"
	"flag"

	"tareas/internal/exitcode"
	"tareas/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tareas` (no args) and `tareas list`.
type ListCmd struct {
	ids bool
}

// SetIDs switches to the ID listing (for testing).
func (c *ListCmd) SetIDs(ids bool) {
	c.ids = ids
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "Show the main screen" }
func (c *ListCmd) Usage() string      { return "tareas list [--ids]" }
func (c *ListCmd) Needs() Requirement { return NeedsBackend }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.ids, "ids", false, "")
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string) int {
	v := env.App.Tasks.View()
	if !v.HasSession {
		output.FormatMain(env.Out, v)
		return exitcode.AuthError
	}

	if c.ids {
		for _, row := range v.Rows {
			output.FormatTaskID(env.Out, row)
		}
	} else {
		output.FormatMain(env.Out, v)
	}
	return finish(env, nil)
}
