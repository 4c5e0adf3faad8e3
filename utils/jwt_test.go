package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkruk/blogpulse/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "unit-test-secret"})

	token, err := GenerateToken("editor", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "editor", claims.Username)
}

func TestExpiredTokenRejected(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "unit-test-secret"})

	token, err := GenerateToken("editor", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	config.SetForTesting(config.AppConfig{JWTSecret: "secret-a"})
	token, err := GenerateToken("editor", time.Hour)
	require.NoError(t, err)

	config.SetForTesting(config.AppConfig{JWTSecret: "secret-b"})
	_, err = ParseToken(token)
	assert.Error(t, err)
}
