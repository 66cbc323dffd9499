// Package config resolves scrap CLI settings from defaults, an optional YAML
// file and SCRAP_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/scrap-app/cli/internal/api"
	"github.com/scrap-app/cli/internal/auth"
)

const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	configDir  = ".scrap"
	configFile = "config.yaml"
)

// Config holds everything needed to build an API client.
type Config struct {
	BaseURL        string        `yaml:"base_url" env:"SCRAP_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout" env:"SCRAP_TIMEOUT"`
	KeyringService string        `yaml:"keyring_service" env:"SCRAP_KEYRING_SERVICE"`
	LogLevel       string        `yaml:"log_level" env:"SCRAP_LOG_LEVEL"`
	LogFormat      string        `yaml:"log_format" env:"SCRAP_LOG_FORMAT"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		BaseURL:        api.DefaultBaseURL,
		Timeout:        api.DefaultTimeout,
		KeyringService: auth.DefaultService,
		LogLevel:       DefaultLogLevel,
		LogFormat:      DefaultLogFormat,
	}
}

// DefaultPath returns ~/.scrap/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}
	return filepath.Join(homeDir, configDir, configFile), nil
}

// Load builds a Config from defaults, the YAML file at path and the
// environment. An empty path means DefaultPath; a missing default file is
// not an error, a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks every field and returns the first problem found.
func (c Config) Validate() error {
	if _, err := ValidateBaseURL(c.BaseURL); err != nil {
		return err
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout %s: must be positive", c.Timeout)
	}
	if c.KeyringService == "" {
		return fmt.Errorf("keyring service cannot be empty")
	}
	if _, err := ValidateLogLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := ValidateLogFormat(c.LogFormat); err != nil {
		return err
	}
	return nil
}

// ValidateBaseURL checks that raw is an absolute http(s) URL.
func ValidateBaseURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: missing host", raw)
	}
	return u, nil
}

// ValidateLogLevel checks if the given string is a supported log level
func ValidateLogLevel(level string) (string, error) {
	switch level {
	case "debug", "info", "warn", "error":
		return level, nil
	default:
		return "", fmt.Errorf("invalid log level %q: must be 'debug', 'info', 'warn', or 'error'", level)
	}
}

// ValidateLogFormat checks if the given string is a supported log format
func ValidateLogFormat(format string) (string, error) {
	switch format {
	case "text", "json":
		return format, nil
	default:
		return "", fmt.Errorf("invalid log format %q: must be 'text' or 'json'", format)
	}
}
