package helpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTokens() *TokenManager {
	return NewTokenManager("test-secret", time.Hour, 24*time.Hour, 15*time.Minute)
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	m := newTestTokens()

	tok, exp, err := m.IssueLogin("user-1")
	require.NoError(t, err)

	claims, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.WithinDuration(t, exp, claims.Expiry(), time.Second)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), exp, 5*time.Second)
}

func TestTokenManager_RegistrationTokenIsShorterLived(t *testing.T) {
	m := newTestTokens()
	_, regExp, err := m.IssueRegistration("u")
	require.NoError(t, err)
	_, loginExp, err := m.IssueLogin("u")
	require.NoError(t, err)
	assert.True(t, regExp.Before(loginExp))
}

func TestTokenManager_ParseRejectsExpired(t *testing.T) {
	m := newTestTokens()
	tok, _, err := m.IssueRegistration("user-1")
	require.NoError(t, err)

	later := m.WithClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	_, err = later.Parse(tok)
	assert.Error(t, err)
}

func TestTokenManager_ParseRejectsForeignSignature(t *testing.T) {
	tok, _, err := NewTokenManager("other", time.Hour, time.Hour, time.Hour).IssueLogin("user-1")
	require.NoError(t, err)

	_, err = newTestTokens().Parse(tok)
	assert.Error(t, err)

	_, err = newTestTokens().Parse("not-a-jwt")
	assert.Error(t, err)
}

func TestTokenManager_ResetTokenBoundToPasswordHash(t *testing.T) {
	m := newTestTokens()
	tok, _, err := m.IssueReset("user-1", "$2a$10$oldhash")
	require.NoError(t, err)

	claims, err := m.ParseReset(tok, "$2a$10$oldhash")
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)

	_, err = m.ParseReset(tok, "$2a$10$newhash")
	assert.Error(t, err, "changing the password must invalidate outstanding reset tokens")

	_, err = m.Parse(tok)
	assert.Error(t, err, "reset tokens are not session tokens")
}

func TestTokenManager_ResetSecretIsDeterministic(t *testing.T) {
	m := newTestTokens()
	a, err := m.ResetSecret("hash")
	require.NoError(t, err)
	b, err := m.ResetSecret("hash")
	require.NoError(t, err)
	c, err := m.ResetSecret("other")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 32)
}
