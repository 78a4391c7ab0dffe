// Package config loads the optional YAML settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ffajobchange/ffa-status/internal/api"
	"github.com/ffajobchange/ffa-status/internal/countdown"
	"github.com/ffajobchange/ffa-status/internal/validate"
)

// DefaultPath is where Load looks when no path is given.
const DefaultPath = "~/.config/ffa-status/config.yaml"

const (
	DefaultShortWaitSeconds = 10
	DefaultHistoryLimit     = 50
)

// Config holds user-tunable settings. Zero RequestTimeout means no timeout.
type Config struct {
	BaseURL          string        `yaml:"base_url" validate:"required,url"`
	ShortWaitSeconds int           `yaml:"short_wait_seconds" validate:"gte=1"`
	ExtensionSeconds int           `yaml:"extension_seconds" validate:"gte=1"`
	RequestTimeout   time.Duration `yaml:"request_timeout" validate:"gte=0"`
	HistoryLimit     int           `yaml:"history_limit" validate:"gte=0"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:          api.DefaultBaseURL,
		ShortWaitSeconds: DefaultShortWaitSeconds,
		ExtensionSeconds: countdown.DefaultExtensionSeconds,
		HistoryLimit:     DefaultHistoryLimit,
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}
	expanded, err := ExpandTilde(path)
	if err != nil {
		return cfg, err
	}

	logrus.Debug("Loading config file from: ", expanded)
	data, err := os.ReadFile(expanded)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", expanded, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", expanded, err)
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ExpandTilde expands the tilde in a path to the user's home directory.
func ExpandTilde(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}
