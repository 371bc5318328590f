package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionManager_TokenRoundtrip(t *testing.T) {
	sessions := NewSessionManager("test-secret")

	token, err := sessions.GenerateToken(7, "anna", time.Hour)
	require.NoError(t, err)

	claims, err := sessions.ValidToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), claims.UserID)
	assert.Equal(t, "anna", claims.Username)
}

// Tokens are bound to the configured secret; a manager holding a different
// secret must reject them. This is what makes the secret an injected config
// value rather than ambient process state.
func TestSessionManager_SecretBindsTokens(t *testing.T) {
	token, err := NewSessionManager("first-secret").GenerateToken(7, "anna", time.Hour)
	require.NoError(t, err)

	_, err = NewSessionManager("second-secret").ValidToken(token)
	assert.Error(t, err)
}

func TestSessionManager_ExpiredTokenRejected(t *testing.T) {
	sessions := NewSessionManager("test-secret")

	token, err := sessions.GenerateToken(7, "anna", -time.Minute)
	require.NoError(t, err)

	_, err = sessions.ValidToken(token)
	assert.Error(t, err)
}
