// Package config loads feelog settings.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Defaults.
const (
	DefaultBaseURL    = "https://diary.hyunjun.org/api"
	DefaultTimeout    = 10 * time.Second
	DefaultLogLevel   = "info"
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 5
	DefaultMaxAgeDays = 30

	dirName = ".feelog"
)

// Config is the full runtime configuration.
type Config struct {
	API  APIConfig  `koanf:"api"`
	Data DataConfig `koanf:"data"`
	Log  LogConfig  `koanf:"log"`
}

// APIConfig points the client at the journal backend.
type APIConfig struct {
	BaseURL   string   `koanf:"base_url"`
	Timeout   Duration `koanf:"timeout"`
	RateLimit float64  `koanf:"rate_limit"` // requests per second, 0 = unlimited
	Burst     int      `koanf:"burst"`
}

// DataConfig locates local state (database, logs).
type DataConfig struct {
	Dir string `koanf:"dir"`
}

// LogConfig controls the log file.
type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"` // defaults to <data dir>/logs/feelog.log
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days"`
}

// DatabasePath is where local sessions and drafts live.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Data.Dir, "feelog.db")
}

// DefaultDir returns ~/.feelog.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultConfigPath returns ~/.feelog/config.yaml.
func DefaultConfigPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func applyDefaults(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = Duration(DefaultTimeout)
	}
	if cfg.API.RateLimit > 0 && cfg.API.Burst == 0 {
		cfg.API.Burst = 1
	}

	if cfg.Data.Dir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return err
		}
		cfg.Data.Dir = dir
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(cfg.Data.Dir, "logs", "feelog.log")
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultMaxSizeMB
	}
	if cfg.Log.MaxBackups == 0 {
		cfg.Log.MaxBackups = DefaultMaxBackups
	}
	if cfg.Log.MaxAgeDays == 0 {
		cfg.Log.MaxAgeDays = DefaultMaxAgeDays
	}
	return nil
}

// Validate checks the configuration after defaults are applied.
func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api.base_url must be an http(s) URL, got %q", c.API.BaseURL))
	}
	if c.API.Timeout.Duration() <= 0 {
		errs = append(errs, errors.New("api.timeout must be positive"))
	}
	if c.API.RateLimit < 0 {
		errs = append(errs, errors.New("api.rate_limit cannot be negative"))
	}
	if c.API.Burst < 0 {
		errs = append(errs, errors.New("api.burst cannot be negative"))
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if c.Log.MaxSizeMB < 0 || c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		errs = append(errs, errors.New("log rotation limits cannot be negative"))
	}

	return errors.Join(errs...)
}
