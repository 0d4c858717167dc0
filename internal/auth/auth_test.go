package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tareas/internal/auth"
)

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, auth.CheckPassword(hash, "secret1"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "secret2"), auth.ErrPasswordMismatch)
}

func TestTokens_RoundTrip(t *testing.T) {
	tokens, err := auth.NewTokens("s3cr3t", time.Hour)
	require.NoError(t, err)

	tok, expires, err := tokens.Issue("user-1", "a@b.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expires, 5*time.Second)

	claims, err := tokens.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, auth.Issuer, claims.Issuer)
}

func TestTokens_Expired(t *testing.T) {
	tokens, err := auth.NewTokens("s3cr3t", time.Minute)
	require.NoError(t, err)

	start := time.Now()
	tokens.SetClock(func() time.Time { return start })
	tok, _, err := tokens.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	tokens.SetClock(func() time.Time { return start.Add(2 * time.Minute) })
	_, err = tokens.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokens_WrongSecret(t *testing.T) {
	a, err := auth.NewTokens("one", 0)
	require.NoError(t, err)
	b, err := auth.NewTokens("two", 0)
	require.NoError(t, err)

	tok, _, err := a.Issue("user-1", "a@b.com")
	require.NoError(t, err)

	_, err = b.Verify(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = a.Verify("not-a-token")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestNewTokens_RequiresSecret(t *testing.T) {
	_, err := auth.NewTokens("", time.Hour)
	assert.Error(t, err)
}
