package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	t.Chdir(t.TempDir())

	LoadConfig()

	assert.Equal(t, "firestore", AppConfig.StoreBackend)
	assert.Equal(t, 5*time.Minute, AppConfig.SchoolCacheTTL)
	assert.Equal(t, 12*time.Hour, AppConfig.SessionTTL)
	assert.Equal(t, "@every 5m", AppConfig.RefreshCron)
	assert.False(t, IsProduction())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_BACKEND", "memory")
	t.Setenv("ENV", "production")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("DEFAULT_TIMEZONE", "Europe/Berlin")

	LoadConfig()

	assert.True(t, UseMemoryStore())
	assert.True(t, IsProduction())
	assert.Equal(t, 30*time.Minute, AppConfig.SessionTTL)
	require.NotNil(t, DefaultLocation())
	assert.Equal(t, "Europe/Berlin", DefaultLocation().String())
}

func TestDefaultLocationFallsBackToUTC(t *testing.T) {
	AppConfig.DefaultTimezone = "Mars/Olympus"
	assert.Equal(t, time.UTC, DefaultLocation())
}
