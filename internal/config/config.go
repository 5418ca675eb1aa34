// Package config loads dexsome settings from defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thesavant42/dexsome/internal/api"
	"github.com/thesavant42/dexsome/internal/catalog"
	"github.com/thesavant42/dexsome/internal/models"
	"gopkg.in/yaml.v3"
)

// Storage backends for preferences
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// Config defines dexsome configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Window  WindowConfig  `yaml:"window"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type WindowConfig struct {
	InitialWindow int `yaml:"initial_window"`
	IncrementSize int `yaml:"increment_size"`
	BatchSize     int `yaml:"batch_size"`
	CatalogSize   int `yaml:"catalog_size"`
}

type StorageConfig struct {
	Backend   string `yaml:"backend"`
	DBPath    string `yaml:"db_path"`
	PrefsPath string `yaml:"prefs_path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		API: APIConfig{
			BaseURL: api.DefaultBaseURL,
			Timeout: api.DefaultTimeout,
		},
		Window: WindowConfig{
			InitialWindow: catalog.DefaultInitialWindow,
			IncrementSize: catalog.DefaultIncrementSize,
			BatchSize:     api.DefaultBatchSize,
			CatalogSize:   models.CatalogSize,
		},
		Storage: StorageConfig{
			Backend:   BackendSQLite,
			DBPath:    "dexsome.db",
			PrefsPath: "dexsome-prefs.json",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads configuration from an optional YAML file and environment variables.
// path wins over DEXSOME_CONFIG_PATH when both are set.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("DEXSOME_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("DEXSOME_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeoutStr := os.Getenv("DEXSOME_API_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid DEXSOME_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	for _, o := range []struct {
		env string
		dst *int
	}{
		{"DEXSOME_INITIAL_WINDOW", &cfg.Window.InitialWindow},
		{"DEXSOME_INCREMENT_SIZE", &cfg.Window.IncrementSize},
		{"DEXSOME_BATCH_SIZE", &cfg.Window.BatchSize},
		{"DEXSOME_CATALOG_SIZE", &cfg.Window.CatalogSize},
	} {
		if s := os.Getenv(o.env); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil {
				return Config{}, fmt.Errorf("invalid %s: %w", o.env, err)
			}
			*o.dst = n
		}
	}
	if backend := os.Getenv("DEXSOME_STORAGE_BACKEND"); backend != "" {
		cfg.Storage.Backend = backend
	}
	if dbPath := os.Getenv("DEXSOME_DB_PATH"); dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	if prefsPath := os.Getenv("DEXSOME_PREFS_PATH"); prefsPath != "" {
		cfg.Storage.PrefsPath = prefsPath
	}
	if level := os.Getenv("DEXSOME_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("DEXSOME_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

// Validate checks sizes and the storage backend
func (c Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api timeout must not be negative")
	}
	if err := c.Window.Catalog().Validate(); err != nil {
		return fmt.Errorf("window: %w", err)
	}
	switch c.Storage.Backend {
	case BackendSQLite:
		if c.Storage.DBPath == "" {
			return fmt.Errorf("storage: db_path is required for the sqlite backend")
		}
	case BackendFile:
		if c.Storage.PrefsPath == "" {
			return fmt.Errorf("storage: prefs_path is required for the file backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("storage: unknown backend %q", c.Storage.Backend)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// Catalog converts the window settings for the catalog controller
func (w WindowConfig) Catalog() catalog.WindowConfig {
	return catalog.WindowConfig{
		InitialWindow: w.InitialWindow,
		IncrementSize: w.IncrementSize,
		BatchSize:     w.BatchSize,
		CatalogSize:   w.CatalogSize,
	}
}

// LogPath returns where the log file goes: the configured path, or
// dexsome.log beside the database
func (c Config) LogPath() string {
	if c.Log.Path != "" {
		return c.Log.Path
	}
	return filepath.Join(filepath.Dir(c.Storage.DBPath), "dexsome.log")
}
