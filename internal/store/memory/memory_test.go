package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/store"
	"tareas/internal/store/memory"
)

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	require.NoError(t, s.CreateUser(ctx, store.User{ID: "1", Email: "a@b.com", PasswordHash: "h"}))
	assert.ErrorIs(t, s.CreateUser(ctx, store.User{ID: "2", Email: "A@B.com"}), store.ErrDuplicate)

	u, err := s.UserByEmail(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)

	_, err = s.UserByEmail(ctx, "x@y.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	empty, err := s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := s.InsertTask(ctx, "a@b.com", "one")
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "other@b.com", "theirs")
	require.NoError(t, err)
	_, err = s.InsertTask(ctx, "a@b.com", "two")
	require.NoError(t, err)

	tasks, err := s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "one", tasks[0].Task)
	assert.Equal(t, "two", tasks[1].Task)

	assert.ErrorIs(t, s.DeleteTask(ctx, "other@b.com", first.ID), store.ErrNotFound)
	require.NoError(t, s.DeleteTask(ctx, "a@b.com", first.ID))
	assert.ErrorIs(t, s.DeleteTask(ctx, "a@b.com", first.ID), store.ErrNotFound)

	tasks, err = s.ListTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "two", tasks[0].Task)
}
