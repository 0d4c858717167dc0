package local_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/auth"
	"tareas/internal/backend/local"
	"tareas/internal/service"
	"tareas/internal/store/memory"
)

func newService(t *testing.T) *local.Service {
	t.Helper()
	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)
	mem := memory.New()
	return local.New(mem, mem, tokens, nil)
}

func TestSignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sess, err := svc.SignUp(ctx, " A@B.com ", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", sess.Email)
	assert.NotEmpty(t, sess.Token)

	_, err = svc.SignUp(ctx, "a@b.com", "secret1")
	assert.ErrorIs(t, err, service.ErrEmailTaken)

	sess, err = svc.SignIn(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", sess.Email)

	_, err = svc.SignIn(ctx, "a@b.com", "wrong-pass")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody@b.com", "secret1")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestSignUp_ServerSideValidation(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	_, err := svc.SignUp(ctx, "bad-email", "secret1")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Formato de email inválido")

	_, err = svc.SignUp(ctx, "a@b.com", "123")
	assert.ErrorIs(t, err, service.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Debe tener al menos 6 caracteres")
}

func TestResume(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	sess, err := svc.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	resumed, err := svc.Resume(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, sess.Email, resumed.Email)

	_, err = svc.Resume(ctx, service.Session{Email: "other@b.com", Token: sess.Token})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	_, err = svc.Resume(ctx, service.Session{Email: "a@b.com", Token: "garbage"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestTasks(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.SignUp(ctx, "a@b.com", "secret1")
	require.NoError(t, err)

	require.NoError(t, svc.AddTask(ctx, "a@b.com", "Buy milk"))
	require.NoError(t, svc.AddTask(ctx, "a@b.com", "Walk dog"))
	assert.ErrorIs(t, svc.AddTask(ctx, "a@b.com", "   "), service.ErrInvalidInput)

	tasks, err := svc.GetTasks(ctx, "A@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "Buy milk", tasks[0].Task)

	require.NoError(t, svc.DeleteTask(ctx, tasks[0].ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, tasks[0].ID), service.ErrNotFound)

	tasks, err = svc.GetTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Walk dog", tasks[0].Task)
}

func TestDeleteTaskOnlyForOwner(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	require.NoError(t, svc.AddTask(ctx, "a@b.com", "Buy milk"))
	tasks, err := svc.GetTasks(ctx, "a@b.com")
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	id := tasks[0].ID

	assert.ErrorIs(t, svc.DeleteTask(ctx, id), service.ErrUnauthorized)

	_, err = svc.SignUp(ctx, "z@b.com", "secret1")
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteTask(ctx, id), service.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteTaskFor(ctx, "z@b.com", id), service.ErrNotFound)

	require.NoError(t, svc.SignOut(ctx))
	assert.ErrorIs(t, svc.DeleteTask(ctx, id), service.ErrUnauthorized)

	tasks, err = svc.GetTasks(ctx, "a@b.com")
	require.NoError(t, err)
	assert.Len(t, tasks, 1)

	require.NoError(t, svc.DeleteTaskFor(ctx, " A@b.com", id))
}
