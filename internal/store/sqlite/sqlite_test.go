package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/store"
	"tareas/internal/store/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "data", "tareas.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Users(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	require.NoError(t, s.CreateUser(ctx, store.User{ID: "u1", Email: "a@b.com", PasswordHash: "hash"}))
	assert.ErrorIs(t, s.CreateUser(ctx, store.User{ID: "u2", Email: "a@b.com", PasswordHash: "hash"}), store.ErrDuplicate)

	u, err := s.UserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = s.UserByEmail(ctx, "missing@b.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestStore_Tasks(t *testing.T) {
	ctx := context.Background()
	s := openStore(t)

	tasks, err := s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Empty(t, tasks)

	first, err := s.InsertTask(ctx, "a@b.com", "Buy milk")
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "a@b.com", "Walk dog")
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "z@b.com", "Not mine")
	require.NoError(t, err)

	tasks, err = s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, first, tasks[0])
	assert.Equal(t, "Walk dog", tasks[1].Task)

	assert.ErrorIs(t, s.DeleteTask(ctx, "z@b.com", first.ID), store.ErrNotFound)
	require.NoError(t, s.DeleteTask(ctx, "a@b.com", first.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, "a@b.com", first.ID), store.ErrNotFound)

	tasks, err = s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tareas.db")

	s, err := sqlite.Open(path)
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "a@b.com", "persisted")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = sqlite.Open(path)
	require.NoError(t, err)
	defer s.Close()

	tasks, err := s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "persisted", tasks[0].Task)
}
