// Package main is the entry point for the tareas CLI.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"tareas/internal/backend"
	"tareas/internal/cli"
	"tareas/internal/commands"
	"tareas/internal/config"
	"tareas/internal/service"
)

func main() {
	// Cancel on interrupt so servers and the terminal app shut down cleanly
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	factory := func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.Service, io.Closer, error) {
		b, err := backend.Open(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, factory)

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
