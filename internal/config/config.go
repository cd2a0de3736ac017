// Package config provides configuration management for the eventdesk client.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"eventdesk/pkg/utils"
)

// DefaultMaxImageBytes is the largest cover image the creation form accepts (5MB).
const DefaultMaxImageBytes = 5242880

// Configuration validation errors.
var (
	ErrMissingBaseURL    = errors.New("api.base_url is required")
	ErrInvalidBaseURL    = errors.New("api.base_url must be an absolute http(s) URL")
	ErrInvalidTimeout    = errors.New("api.timeout_sec must be at least 1")
	ErrMissingTokenEnv   = errors.New("auth.token_env must not be empty")
	ErrInvalidImageLimit = errors.New("upload.max_image_bytes must be at least 1")
	ErrInvalidLogLevel   = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrInvalidLogFormat  = errors.New("logging.format must be 'text' or 'json'")
	ErrInvalidDescWidth  = errors.New("display.description_width must be non-negative")
)

// Config represents the complete client configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Auth    AuthConfig    `yaml:"auth"`
	Upload  UploadConfig  `yaml:"upload"`
	Logging LoggingConfig `yaml:"logging"`
	Display DisplayConfig `yaml:"display"`
}

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL    string `yaml:"base_url"`
	UserAgent  string `yaml:"user_agent"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// AuthConfig controls where the token comes from and how it is sent.
type AuthConfig struct {
	// Scheme prefixes the token in the Authorization header. Empty sends the raw token.
	Scheme    string `yaml:"scheme"`
	TokenFile string `yaml:"token_file"`
	TokenEnv  string `yaml:"token_env"`
}

// UploadConfig limits multipart uploads.
type UploadConfig struct {
	MaxImageBytes int64 `yaml:"max_image_bytes"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DisplayConfig tunes terminal rendering.
type DisplayConfig struct {
	// DescriptionWidth truncates descriptions to this many columns; 0 disables truncation.
	DescriptionWidth int `yaml:"description_width"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:    "http://localhost:4000",
			UserAgent:  "eventdesk/1.0",
			TimeoutSec: 30,
		},
		Auth: AuthConfig{
			Scheme:   "Bearer",
			TokenEnv: "EVENTDESK_TOKEN",
		},
		Upload: UploadConfig{
			MaxImageBytes: DefaultMaxImageBytes,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Display: DisplayConfig{
			DescriptionWidth: 60,
		},
	}
}

// LoadConfig loads configuration from a YAML file. Keys missing from the
// file keep their Default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like LoadConfig but returns Default when path is
// empty or does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}

	return cfg, err
}

// SaveConfig saves configuration to a YAML file.
func (c *Config) SaveConfig(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return ErrMissingBaseURL
	}

	if !utils.NewHTTPHelper("").IsValidURL(c.API.BaseURL) {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}

	if c.API.TimeoutSec < 1 {
		return ErrInvalidTimeout
	}

	if c.Auth.TokenEnv == "" {
		return ErrMissingTokenEnv
	}

	if c.Upload.MaxImageBytes < 1 {
		return ErrInvalidImageLimit
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return ErrInvalidLogFormat
	}

	if c.Display.DescriptionWidth < 0 {
		return ErrInvalidDescWidth
	}

	return nil
}

// GetTimeout returns the HTTP timeout.
func (c *APIConfig) GetTimeout() time.Duration {
	return time.Duration(c.TimeoutSec) * time.Second
}

// GetTokenFile returns the token file path, defaulting to
// <UserConfigDir>/eventdesk/token.
func (c *AuthConfig) GetTokenFile() (string, error) {
	if c.TokenFile != "" {
		return c.TokenFile, nil
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate user config dir: %w", err)
	}

	return filepath.Join(dir, "eventdesk", "token"), nil
}

// String returns a string representation of the config.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{BaseURL: %s, Timeout: %ds, Scheme: %q, MaxImage: %d}",
		c.API.BaseURL,
		c.API.TimeoutSec,
		c.Auth.Scheme,
		c.Upload.MaxImageBytes,
	)
}
