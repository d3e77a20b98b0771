// Package config loads projecttable configuration from defaults, an optional
// YAML file and PROJECTTABLE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PROJECTTABLE_"

const maxConfigFileSize = 1024 * 1024

// Config is the full runtime configuration.
type Config struct {
	Store   StoreConfig   `koanf:"store"`
	API     APIConfig     `koanf:"api"`
	Log     LogConfig     `koanf:"log"`
	Metrics MetricsConfig `koanf:"metrics"`
}

// StoreConfig points at the multipart projects store used by the table.
type StoreConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`
}

// APIConfig points at the JSON /api/projects collection.
type APIConfig struct {
	BaseURL string `koanf:"base_url"`
}

// LogConfig controls the diagnostic log. The TUI owns the terminal, so logs
// always go to a file.
type LogConfig struct {
	File  string `koanf:"file"`
	Level string `koanf:"level"`
}

// MetricsConfig enables a Prometheus listener when Addr is set.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Store: StoreConfig{
			BaseURL: "http://localhost:3001",
			Timeout: 10 * time.Second,
		},
		API: APIConfig{
			BaseURL: "http://localhost:3000",
		},
		Log: LogConfig{
			File:  filepath.Join(os.TempDir(), "projecttable.log"),
			Level: "info",
		},
	}
}

// DefaultPath returns ~/.config/projecttable/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "projecttable", "config.yaml"), nil
}

// Load reads configuration with precedence env > YAML file > defaults.
// An empty path means DefaultPath; a missing default file is not an error,
// a missing explicit file is.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	content, err := readConfigFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist) && !explicit:
	case err != nil:
		return nil, err
	default:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// PROJECTTABLE_STORE_BASE_URL -> store.base_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		parts := strings.SplitN(lower, "_", 2)
		if len(parts) == 1 {
			return lower
		}
		return parts[0] + "." + parts[1]
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// Validate checks URLs, timeout and log level.
func (c *Config) Validate() error {
	for name, raw := range map[string]string{
		"store.base_url": c.Store.BaseURL,
		"api.base_url":   c.API.BaseURL,
	} {
		u, err := url.Parse(raw)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%s %q: must be an http(s) URL", name, raw)
		}
	}
	if c.Store.Timeout <= 0 {
		return fmt.Errorf("store.timeout must be positive, got %s", c.Store.Timeout)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level %q: want debug, info, warn or error", c.Log.Level)
	}
	return nil
}
