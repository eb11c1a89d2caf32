package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := GenerateSessionToken("player-123", "ABC123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "player-123", claims.PlayerID)
	assert.Equal(t, "ABC123", claims.RoomCode)
}

func TestParseSessionTokenInvalid(t *testing.T) {
	_, err := ParseSessionToken("not-a-token")
	assert.Error(t, err)

	// 竄改過的 token 簽章驗證必須失敗
	token, err := GenerateSessionToken("player-123", "ABC123")
	require.NoError(t, err)
	_, err = ParseSessionToken(token + "x")
	assert.Error(t, err)
}
