package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_USER", "devconnector")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "devconnector")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestLoadConfigDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 10, cfg.Database.MaxSize)
	assert.Equal(t, "devconnector", cfg.Database.User)
	assert.Equal(t, time.Hour, cfg.Auth.TokenDuration)
	assert.Equal(t, "5000", cfg.Server.Port)
	assert.Empty(t, cfg.GitHub.ClientID)
	assert.Empty(t, cfg.GitHub.ClientSecret)
}

func TestLoadConfigOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6432")
	t.Setenv("DB_POOL_SIZE", "25")
	t.Setenv("JWT_TOKEN_DURATION", "30m")
	t.Setenv("PORT", "8080")
	t.Setenv("GITHUB_CLIENT_ID", "abc")
	t.Setenv("GITHUB_CLIENT_SECRET", "xyz")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 6432, cfg.Database.Port)
	assert.Equal(t, 25, cfg.Database.MaxSize)
	assert.Equal(t, 30*time.Minute, cfg.Auth.TokenDuration)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "abc", cfg.GitHub.ClientID)
	assert.Equal(t, "xyz", cfg.GitHub.ClientSecret)
}

func TestLoadConfigCollectsMissingVariables(t *testing.T) {
	// Only one of the required variables is present; the error should name
	// every missing one so operators fix them in a single pass.
	t.Setenv("DB_USER", "devconnector")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PASSWORD")
	assert.Contains(t, err.Error(), "DB_NAME")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoadConfigRejectsBadValues(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PORT")
}

func TestLoadConfigClampsPoolSize(t *testing.T) {
	setRequiredEnv(t)

	t.Setenv("DB_POOL_SIZE", "1")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Database.MaxSize)

	t.Setenv("DB_POOL_SIZE", "500")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 100, cfg.Database.MaxSize)
}
