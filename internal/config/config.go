package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// StoreMode selects where the client persists data.
type StoreMode string

const (
	// ModeRemote talks to the managed TinyWins backend.
	ModeRemote StoreMode = "remote"
	// ModeLocal uses an on-disk SQLite database (offline/dev).
	ModeLocal StoreMode = "local"
)

// Backend holds connection settings for the managed data service.
type Backend struct {
	Endpoint   string `yaml:"endpoint"`
	Region     string `yaml:"region"`
	APIKey     string `yaml:"api_key"`
	TimeoutMs  int    `yaml:"timeout_ms"`
	MaxRetries int    `yaml:"max_retries"`
}

// Config is the full client configuration: a YAML file under the config
// directory, overridable field-by-field via TINYWINS_* env vars.
type Config struct {
	Mode      StoreMode `yaml:"mode"`
	DBPath    string    `yaml:"db_path"`
	LogLevel  string    `yaml:"log_level"`
	LogFormat string    `yaml:"log_format"`
	Backend   Backend   `yaml:"backend"`
}

// Default returns a Config with sensible defaults: local mode, database
// and logs under ~/.tinywins.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Mode:      ModeLocal,
		DBPath:    filepath.Join(home, ".tinywins", "tinywins.db"),
		LogLevel:  "info",
		LogFormat: "console",
		Backend: Backend{
			Endpoint:   "https://api.tinywins.example.com",
			Region:     "us-east-1",
			TimeoutMs:  10000,
			MaxRetries: 2,
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// at path (missing file is fine), then env overrides. A .env file in the
// working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, ".tinywins", "config.yaml")
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if cfg.Mode != ModeLocal && cfg.Mode != ModeRemote {
		return cfg, fmt.Errorf("invalid mode %q (want %q or %q)", cfg.Mode, ModeLocal, ModeRemote)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TINYWINS_MODE"); v != "" {
		cfg.Mode = StoreMode(v)
	}
	if v := os.Getenv("TINYWINS_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TINYWINS_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TINYWINS_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TINYWINS_ENDPOINT"); v != "" {
		cfg.Backend.Endpoint = v
	}
	if v := os.Getenv("TINYWINS_REGION"); v != "" {
		cfg.Backend.Region = v
	}
	if v := os.Getenv("TINYWINS_API_KEY"); v != "" {
		cfg.Backend.APIKey = v
	}
	if v := os.Getenv("TINYWINS_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Backend.TimeoutMs = n
		}
	}
	if v := os.Getenv("TINYWINS_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Backend.MaxRetries = n
		}
	}
}
