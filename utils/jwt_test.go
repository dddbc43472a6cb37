package utils

import (
	"testing"
	"time"

	"chronoboard/config"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	token, exp, err := GenerateToken("school-1", "school_admin", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 2*time.Second)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "school-1", claims.Subject)
	assert.Equal(t, "school_admin", claims.Role)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	token, _, err := GenerateToken("school-1", "school_admin", -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsForeignSecret(t *testing.T) {
	config.AppConfig.JWTSecret = "one"
	token, _, err := GenerateToken("school-1", "school_admin", time.Hour)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "two"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRequiresRole(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig.JWTSecret = "" })

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "school-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.ErrorContains(t, err, "role")
}

func TestFallbackSecretIsStable(t *testing.T) {
	config.AppConfig.JWTSecret = ""
	token, _, err := GenerateToken("super-admin", "super_admin", time.Hour)
	require.NoError(t, err)
	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "super_admin", claims.Role)
}

func TestHashToken(t *testing.T) {
	assert.Len(t, HashToken("abc"), 64)
	assert.Equal(t, HashToken("abc"), HashToken("abc"))
	assert.NotEqual(t, HashToken("abc"), HashToken("abd"))
}
