package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithEnv(t *testing.T) {
	t.Setenv("MATCHMATES_JWT_SECRET", "s3cret")
	t.Setenv("MATCHMATES_DEV_MODE", "true")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Listen)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadRequiresDatabaseOutsideDevMode(t *testing.T) {
	t.Setenv("MATCHMATES_JWT_SECRET", "s3cret")
	_, err := Load("")
	assert.Error(t, err)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen: ":9000"
jwt-secret: from-file
database-url: postgres://localhost/matchmates
redis-addr: localhost:6379
session-ttl: 1h
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "from-file", cfg.JWTSecret)
	assert.Equal(t, "postgres://localhost/matchmates", cfg.DatabaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}
