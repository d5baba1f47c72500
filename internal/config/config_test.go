package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OTIS_CONFIG_PATH", "OTIS_ENV", "OTIS_DB_PATH",
		"OTIS_WATCH_INTERVAL", "OTIS_LOG_LEVEL", "OTIS_LOG_PATH",
	} {
		t.Setenv(k, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "otis.db", filepath.Base(cfg.DB.Path))
	assert.Equal(t, 500*time.Millisecond, cfg.DB.WatchInterval)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, filepath.Join(filepath.Dir(cfg.DB.Path), "otis.log"), cfg.Log.Path)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "otis.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
env: production
db:
  path: /tmp/shared.db
  watch_interval: 2s
log:
  level: debug
`), 0o644))
	t.Setenv("OTIS_CONFIG_PATH", path)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/tmp/shared.db", cfg.DB.Path)
	assert.Equal(t, 2*time.Second, cfg.DB.WatchInterval)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "otis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db:\n  path: /tmp/file.db\n"), 0o644))
	t.Setenv("OTIS_CONFIG_PATH", path)
	t.Setenv("OTIS_DB_PATH", "/tmp/env.db")
	t.Setenv("OTIS_WATCH_INTERVAL", "1s")
	t.Setenv("OTIS_LOG_PATH", "/tmp/otis-test.log")
	t.Setenv("OTIS_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/env.db", cfg.DB.Path)
	assert.Equal(t, time.Second, cfg.DB.WatchInterval)
	assert.Equal(t, "/tmp/otis-test.log", cfg.Log.Path)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_InvalidInterval(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTIS_WATCH_INTERVAL", "soon")
	_, err := Load()
	assert.ErrorContains(t, err, "OTIS_WATCH_INTERVAL")

	t.Setenv("OTIS_WATCH_INTERVAL", "-1s")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("OTIS_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	assert.ErrorContains(t, err, "read config file")
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "otis.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db: [unclosed"), 0o644))
	t.Setenv("OTIS_CONFIG_PATH", path)
	_, err := Load()
	assert.ErrorContains(t, err, "parse config file")
}
