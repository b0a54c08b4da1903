package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blogverse/backend/internal/models"
)

func TestSessionRoundTrip(t *testing.T) {
	m := NewManager("secret")

	user := &models.User{ID: 7, Name: "alice", Gmail: "a@x.com"}
	token, err := m.IssueSession(user)
	require.NoError(t, err)

	claims, err := m.ParseSession(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "a@x.com", claims.Gmail)
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret").IssueSession(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewManager("other").ParseSession(token)
	assert.Error(t, err)
}

func TestSessionRejectsGarbage(t *testing.T) {
	_, err := NewManager("secret").ParseSession("not-a-token")
	assert.Error(t, err)
}

func TestVerifyTokenRoundTrip(t *testing.T) {
	m := NewManager("secret")

	token, err := m.IssueVerifyToken("corr-123", 10*time.Minute)
	require.NoError(t, err)

	got, err := m.ParseVerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "corr-123", got)
}

func TestVerifyTokenExpires(t *testing.T) {
	m := NewManager("secret")

	token, err := m.IssueVerifyToken("corr-123", -time.Minute)
	require.NoError(t, err)

	_, err = m.ParseVerifyToken(token)
	assert.Error(t, err)
}

func TestVerifyTokenIsNotASession(t *testing.T) {
	m := NewManager("secret")

	token, err := m.IssueSession(&models.User{ID: 1, Name: "alice"})
	require.NoError(t, err)

	// a session token has no correlation token inside
	_, err = m.ParseVerifyToken(token)
	assert.Error(t, err)
}
