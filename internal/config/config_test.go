package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, yaml string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))
	return dir
}

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  port: "8080"
  mode: "debug"
database:
  driver: "sqlite"
  path: "test.db"
jwt:
  secret: "short-secret-ok-in-debug"
  expire_hours: 72
storage:
  type: "minio"
embedding:
  base_url: "http://embed.local"
data:
  dhatu_path: "configs/dhatus.json"
rate_limit:
  max_requests: 600
  window_minutes: 1
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 72*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 4096, cfg.Embedding.Dims, "embedding dims default to the model's output size")
	assert.Equal(t, "configs/dhatus.json", cfg.Data.DhatuPath)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
}

func TestLoadConfigRejectsShortSecretInRelease(t *testing.T) {
	viper.Reset()
	dir := writeConfig(t, `
server:
  mode: "release"
jwt:
  secret: "too-short"
storage:
  type: "minio"
`)

	_, err := LoadConfig(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestLoadConfigMissingFile(t *testing.T) {
	viper.Reset()
	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
