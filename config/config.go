// Package config manages application configuration and input files.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all application configuration for YouTube data ingestion.
type Config struct {
	// ClientSecretPath is the path to the OAuth client secrets file.
	ClientSecretPath string `json:"client_secret_path"`
	// TokenDir is the directory where credential tokens are persisted.
	TokenDir string `json:"token_dir"`

	// PollInterval is the wait between unsuccessful report poll attempts.
	PollInterval time.Duration `json:"poll_interval"`
	// MaxPollTime is the default total polling budget; the attempt count is
	// derived as MaxPollTime / PollInterval.
	MaxPollTime time.Duration `json:"max_poll_time"`
	// ReportTypeID is the default report type for new reporting jobs.
	ReportTypeID string `json:"report_type_id"`

	// RequestTimeout bounds individual HTTP requests.
	RequestTimeout time.Duration `json:"request_timeout"`
	// DownloadRPS caps the report download request rate (0 = unlimited).
	DownloadRPS float64 `json:"download_rps"`
	// DownloadRetries is the retry budget for report content downloads.
	// Zero preserves the single-attempt download behavior.
	DownloadRetries int `json:"download_retries"`
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		ClientSecretPath: "client_secret.json",
		TokenDir:         ".",
		PollInterval:     60 * time.Second,
		MaxPollTime:      20 * time.Minute,
		ReportTypeID:     "channel_basic_a2",
		RequestTimeout:   30 * time.Second,
		DownloadRPS:      4.0,
		DownloadRetries:  0,
	}
}

// Load loads configuration from environment variables, config file, and
// applies defaults. Priority: env vars > config file > defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	if err := cfg.loadFromFile(); err != nil {
		// Config file is optional
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile attempts to load config from ytingest.json in the current
// directory or the user config directory.
func (c *Config) loadFromFile() error {
	paths := []string{
		"ytingest.json",
		filepath.Join(os.Getenv("HOME"), ".config", "ytingest", "ytingest.json"),
	}

	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return err
		}

		if err := json.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		return nil
	}

	return os.ErrNotExist
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YTINGEST_CLIENT_SECRET"); v != "" {
		c.ClientSecretPath = v
	}
	if v := os.Getenv("YTINGEST_TOKEN_DIR"); v != "" {
		c.TokenDir = v
	}
	if v := os.Getenv("YTINGEST_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("YTINGEST_MAX_POLL_TIME"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxPollTime = d
		}
	}
	if v := os.Getenv("YTINGEST_REPORT_TYPE_ID"); v != "" {
		c.ReportTypeID = v
	}
	if v := os.Getenv("YTINGEST_REQUEST_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.RequestTimeout = d
		}
	}
	if v := os.Getenv("YTINGEST_DOWNLOAD_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			c.DownloadRPS = f
		}
	}
	if v := os.Getenv("YTINGEST_DOWNLOAD_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DownloadRetries = n
		}
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.ClientSecretPath == "" {
		return fmt.Errorf("client_secret_path must not be empty")
	}
	if c.TokenDir == "" {
		return fmt.Errorf("token_dir must not be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.MaxPollTime < 0 {
		return fmt.Errorf("max_poll_time must be non-negative")
	}
	if c.ReportTypeID == "" {
		return fmt.Errorf("report_type_id must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive")
	}
	if c.DownloadRPS < 0 {
		return fmt.Errorf("download_rps must be non-negative")
	}
	if c.DownloadRetries < 0 {
		return fmt.Errorf("download_retries must be non-negative")
	}
	return nil
}
