package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"tareas/internal/backend"
	"tareas/internal/exitcode"
	"tareas/internal/httpapi"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the HTTP task API over the configured store.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the HTTP task API" }
func (c *ServeCmd) Usage() string      { return "tareas serve [--addr <host:port>]" }
func (c *ServeCmd) Needs() Requirement { return NeedsSettings }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, env *Env, args []string) int {
	if len(args) > 0 {
		fmt.Fprintf(env.ErrOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	addr := c.addr
	if addr == "" {
		addr = env.Config.Settings.ListenAddr
	}

	svc, closer, err := backend.OpenLocal(ctx, env.Config, env.Logger)
	if err != nil {
		if errors.Is(err, backend.ErrNoLocalBackend) {
			fmt.Fprintf(env.ErrOut, "error: %v\n", err)
			return exitcode.UserError
		}
		fmt.Fprintf(env.ErrOut, "error: backend error: %v\n", err)
		return ExitCode(err)
	}
	defer closer.Close()

	if !env.Config.Quiet {
		fmt.Fprintf(env.ErrOut, "serving on %s (backend %s)\n", addr, env.Config.Settings.Backend)
	}
	if err := httpapi.New(svc, env.Logger).ListenAndServe(ctx, addr); err != nil {
		fmt.Fprintf(env.ErrOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
