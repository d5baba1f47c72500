package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sadopc/otis/internal/kv"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Env string    `yaml:"env"`
	DB  DBConfig  `yaml:"db"`
	Log LogConfig `yaml:"log"`
}

type DBConfig struct {
	Path string `yaml:"path"`
	// WatchInterval is how often the region is polled for changes made by
	// other processes.
	WatchInterval time.Duration `yaml:"watch_interval"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	dbPath, err := kv.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	cfg := Config{
		Env: "development",
		DB: DBConfig{
			Path:          dbPath,
			WatchInterval: 500 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(filepath.Dir(dbPath), "otis.log"),
		},
	}

	if path := os.Getenv("OTIS_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if env := os.Getenv("OTIS_ENV"); env != "" {
		cfg.Env = env
	}
	if dbPath := os.Getenv("OTIS_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if s := os.Getenv("OTIS_WATCH_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid OTIS_WATCH_INTERVAL: %w", err)
		}
		cfg.DB.WatchInterval = d
	}
	if level := os.Getenv("OTIS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("OTIS_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}

	if cfg.DB.WatchInterval <= 0 {
		return Config{}, fmt.Errorf("watch interval must be positive, got %s", cfg.DB.WatchInterval)
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
