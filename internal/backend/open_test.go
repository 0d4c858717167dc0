package backend_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/backend"
	"tareas/internal/backend/googletasks"
	"tareas/internal/backend/remote"
	"tareas/internal/config"
)

func newConfig(t *testing.T, name string) *config.Config {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)
	cfg.Settings.Backend = name
	cfg.Settings.JWTSecret = "secret"
	cfg.Settings.SQLitePath = filepath.Join(cfg.Dir, "tareas.db")
	cfg.Settings.RemoteURL = "http://localhost:1"
	return cfg
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpen_SQLite(t *testing.T) {
	ctx := context.Background()
	b, err := backend.Open(ctx, newConfig(t, config.BackendSQLite), discard())
	require.NoError(t, err)
	defer b.Close()

	sess, err := b.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, b.AddTask(ctx, sess.Email, "X"))
	tasks, err := b.GetTasks(ctx, sess.Email)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestOpen_Remote(t *testing.T) {
	b, err := backend.Open(context.Background(), newConfig(t, config.BackendRemote), discard())
	require.NoError(t, err)
	_, ok := b.Service.(*remote.Client)
	assert.True(t, ok)
	assert.NoError(t, b.Close())

	_, _, err = backend.OpenLocal(context.Background(), newConfig(t, config.BackendRemote), discard())
	assert.ErrorIs(t, err, backend.ErrNoLocalBackend)
}

func TestOpen_GoogleRequiresLink(t *testing.T) {
	_, err := backend.Open(context.Background(), newConfig(t, config.BackendGoogle), discard())
	assert.ErrorIs(t, err, googletasks.ErrNotLinked)
}
