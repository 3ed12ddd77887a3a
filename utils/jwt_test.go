package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsched/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.AppConfig.JWTSecret = "round-trip-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	tokenString, err := GenerateToken("user-9", "technician", time.Minute)
	require.NoError(t, err)

	token, err := ValidateToken(tokenString)
	require.NoError(t, err)
	require.True(t, token.Valid)

	subject, role := TokenClaims(token)
	assert.Equal(t, "user-9", subject)
	assert.Equal(t, "technician", role)
}

func TestValidateTokenRejectsRotatedSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "original-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	tokenString, err := GenerateToken("user-9", "professor", time.Minute)
	require.NoError(t, err)

	// The signing secret is resolved per call, so a config rotation
	// invalidates tokens minted under the old one.
	config.AppConfig.JWTSecret = "rotated-secret"
	_, err = ValidateToken(tokenString)
	require.Error(t, err)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	config.AppConfig.JWTSecret = "round-trip-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	tokenString, err := GenerateToken("user-9", "technician", -time.Minute)
	require.NoError(t, err)

	_, err = ValidateToken(tokenString)
	require.Error(t, err)
}
