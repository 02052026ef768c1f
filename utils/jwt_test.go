package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinpost-api/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken("user-1", "a@example.com", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
}

func TestExpiredTokenRejected(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "test-secret"})

	token, err := GenerateToken("user-1", "a@example.com", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestTokenSignedWithDifferentSecretRejected(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "first-secret"})
	token, err := GenerateToken("user-1", "a@example.com", time.Hour)
	require.NoError(t, err)

	config.SetForTesting(config.AppConfig{JWTSecret: "second-secret"})
	_, err = ParseToken(token)
	assert.Error(t, err)
}
