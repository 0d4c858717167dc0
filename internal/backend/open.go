// Package backend opens the service.Service selected in settings.
package backend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"tareas/internal/auth"
	"tareas/internal/backend/googletasks"
	"tareas/internal/backend/local"
	"tareas/internal/backend/remote"
	"tareas/internal/config"
	"tareas/internal/service"
	"tareas/internal/store"
	"tareas/internal/store/memory"
	"tareas/internal/store/postgres"
	"tareas/internal/store/sqlite"
)

// ErrNoLocalBackend is returned by OpenLocal for the remote backend.
var ErrNoLocalBackend = errors.New("backend remote cannot serve the API (choose sqlite, postgres, memory or google)")

// Backend is an opened service. Close releases its stores.
type Backend struct {
	service.Service
	closers []io.Closer
}

// Close releases every resource the backend opened.
func (b *Backend) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Open returns the backend named by cfg.Settings.Backend.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backend, error) {
	if cfg.Settings.Backend == config.BackendRemote {
		logger.Debug("using remote backend", "url", cfg.Settings.RemoteURL)
		return &Backend{Service: remote.New(cfg.Settings.RemoteURL, nil)}, nil
	}
	svc, closers, err := openLocal(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Backend{Service: svc, closers: closers}, nil
}

// OpenLocal returns the store-backed service, as needed to serve the HTTP API.
func OpenLocal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*local.Service, io.Closer, error) {
	if cfg.Settings.Backend == config.BackendRemote {
		return nil, nil, ErrNoLocalBackend
	}
	svc, closers, err := openLocal(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return svc, &Backend{closers: closers}, nil
}

func openLocal(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*local.Service, []io.Closer, error) {
	s := cfg.Settings
	tokens, err := auth.NewTokens(s.JWTSecret, s.TokenTTL)
	if err != nil {
		return nil, nil, err
	}

	var (
		users   store.UserStore
		tasks   store.TaskStore
		closers []io.Closer
	)

	switch s.Backend {
	case config.BackendMemory:
		mem := memory.New()
		users, tasks = mem, mem
	case config.BackendSQLite, config.BackendGoogle:
		db, err := sqlite.Open(s.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		users, tasks = db, db
		closers = append(closers, db)
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, s.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		users, tasks = db, db
		closers = append(closers, db)
	default:
		return nil, nil, fmt.Errorf("unknown backend: %q", s.Backend)
	}

	// Google keeps the tasks; accounts stay in SQLite.
	if s.Backend == config.BackendGoogle {
		g, err := googletasks.New(ctx, cfg)
		if err != nil {
			for _, c := range closers {
				c.Close()
			}
			return nil, nil, err
		}
		tasks = g
	}

	logger.Debug("using local backend", "backend", s.Backend)
	return local.New(users, tasks, tokens, logger), closers, nil
}
