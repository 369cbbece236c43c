package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "finvoice", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, 8080, cfg.App.Port)
	assert.True(t, cfg.App.SignupEnabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTTL)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)

	// Development fills in fallback secrets so the server can start
	assert.NotEmpty(t, cfg.JWT.AccessSecret)
	assert.NotEmpty(t, cfg.JWT.RefreshSecret)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	toml := `
[app]
port = 9090
signup_enabled = false

[redis]
enabled = true
host = "redis.internal"
port = 6380
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(toml), 0o600))

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.App.Port)
	assert.False(t, cfg.App.SignupEnabled)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "redis.internal:6380", cfg.Redis.Addr())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[app]\nport = 9090\n"), 0o600))
	t.Setenv("FINVOICE_APP_PORT", "7070")
	t.Setenv("FINVOICE_DATABASE_HOST", "db.internal")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
}

func TestLoadProductionValidation(t *testing.T) {
	t.Setenv("FINVOICE_APP_ENVIRONMENT", "production")

	t.Run("missing jwt secrets", func(t *testing.T) {
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("short access secret", func(t *testing.T) {
		t.Setenv("FINVOICE_JWT_ACCESS_SECRET", "short")
		t.Setenv("FINVOICE_JWT_REFRESH_SECRET", "also-short")
		_, err := Load(t.TempDir())
		assert.Error(t, err)
	})

	t.Run("complete production config", func(t *testing.T) {
		t.Setenv("FINVOICE_JWT_ACCESS_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("FINVOICE_JWT_REFRESH_SECRET", "fedcba9876543210fedcba9876543210")
		t.Setenv("FINVOICE_DATABASE_SSLMODE", "require")
		t.Setenv("FINVOICE_DATABASE_PASSWORD", "secret")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.IsProduction())
	})
}

func TestDatabaseDSN(t *testing.T) {
	dsn := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "finvoice",
		Password: "p@ss",
		Name:     "finvoice",
		SSLMode:  "disable",
	}.DSN()

	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "sslmode=disable")
	// Credentials are URL-escaped
	assert.Contains(t, dsn, "p%40ss")
}
