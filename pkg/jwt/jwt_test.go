package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	manager := newTestManager()
	userID := uuid.New()

	token, err := manager.GenerateAccessToken(userID, "user@test.local", "user")
	require.NoError(t, err)

	claims, err := manager.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "user@test.local", claims.Email)
	assert.Equal(t, "user", claims.Nickname)
	assert.Equal(t, userID.String(), claims.Subject)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	manager := newTestManager()
	userID := uuid.New()

	token, err := manager.GenerateRefreshToken(userID)
	require.NoError(t, err)

	got, err := manager.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAccessTokenRejectsWrongSecret(t *testing.T) {
	manager := newTestManager()
	other := NewManager("different-secret", "refresh-secret", 15*time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@test.local", "user")
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestRefreshSecretDoesNotValidateAccessTokens(t *testing.T) {
	manager := newTestManager()

	// Access and refresh tokens are signed with separate secrets, so one
	// must never pass validation as the other.
	token, err := manager.GenerateAccessToken(uuid.New(), "user@test.local", "user")
	require.NoError(t, err)

	_, err = manager.ValidateRefreshToken(token)
	assert.Error(t, err)
}

func TestExpiredAccessTokenRejected(t *testing.T) {
	manager := NewManager("access-secret", "refresh-secret", -time.Minute, time.Hour)

	token, err := manager.GenerateAccessToken(uuid.New(), "user@test.local", "user")
	require.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestValidateAccessTokenRejectsGarbage(t *testing.T) {
	manager := newTestManager()

	_, err := manager.ValidateAccessToken("not-a-jwt")
	assert.Error(t, err)
}

func TestGetRefreshExpiry(t *testing.T) {
	manager := newTestManager()
	assert.Equal(t, 7*24*time.Hour, manager.GetRefreshExpiry())
}
