package jwtutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParse(t *testing.T) {
	token, err := GenerateToken("secret", time.Minute, 42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken("secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "42", claims.Subject)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, err := GenerateToken("secret", time.Minute, 1, "alice")
	require.NoError(t, err)
	expired, err := GenerateToken("secret", -time.Minute, 1, "alice")
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
	}{
		{name: "wrong secret", secret: "other", token: valid},
		{name: "expired", secret: "secret", token: expired},
		{name: "garbage", secret: "secret", token: "not-a-token"},
		{name: "empty", secret: "secret", token: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ParseToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}
