package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DEXSOME_CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 151, cfg.Window.InitialWindow)
	assert.Equal(t, 50, cfg.Window.IncrementSize)
	assert.Equal(t, 50, cfg.Window.BatchSize)
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dexsome.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: http://localhost:9000/api/v2
  timeout: 5s
window:
  initial_window: 20
  increment_size: 10
storage:
  backend: file
  prefs_path: /tmp/prefs.json
log:
  level: debug
`), 0644))

	t.Setenv("DEXSOME_CONFIG_PATH", path)
	t.Setenv("DEXSOME_BATCH_SIZE", "8")
	t.Setenv("DEXSOME_INCREMENT_SIZE", "25")

	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "http://localhost:9000/api/v2", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, 20, cfg.Window.InitialWindow)
	assert.Equal(t, 25, cfg.Window.IncrementSize)
	assert.Equal(t, 8, cfg.Window.BatchSize)
	assert.Equal(t, 1010, cfg.Window.CatalogSize)
	assert.Equal(t, BackendFile, cfg.Storage.Backend)

	wc := cfg.Window.Catalog()
	assert.Equal(t, 20, wc.InitialWindow)
	assert.Equal(t, 8, wc.BatchSize)
}

func TestLoadInvalidEnv(t *testing.T) {
	t.Setenv("DEXSOME_CONFIG_PATH", "")
	t.Setenv("DEXSOME_INITIAL_WINDOW", "lots")
	_, err := Load("")
	assert.ErrorContains(t, err, "DEXSOME_INITIAL_WINDOW")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero window", func(c *Config) { c.Window.InitialWindow = 0 }},
		{"negative batch", func(c *Config) { c.Window.BatchSize = -1 }},
		{"unknown backend", func(c *Config) { c.Storage.Backend = "cookies" }},
		{"sqlite without path", func(c *Config) { c.Storage.DBPath = "" }},
		{"bad level", func(c *Config) { c.Log.Level = "chatty" }},
		{"no base url", func(c *Config) { c.API.BaseURL = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Default()
	cfg.Storage.DBPath = filepath.Join(t.TempDir(), "data", "dexsome.db")
	cfg.Log.Level = "warn"

	logger, closer, err := NewLogger(cfg, "TEST")
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	logger.Warn("hello", "key", "value")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(cfg.LogPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "key=value")
}
