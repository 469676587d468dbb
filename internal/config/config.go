// Package config loads and validates the bot's YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// PlaceholderToken is the sentinel shipped in the default config. The bot
// still starts with it, but logs a setup instruction and cannot reach the
// remote API.
const PlaceholderToken = "GET-YOUR-TOKEN"

// Config is the root configuration.
type Config struct {
	Spark    SparkConfig  `yaml:"spark"`
	Server   ServerConfig `yaml:"server"`
	LogLevel string       `yaml:"log_level"`
}

// SparkConfig holds the remote API access parameters.
type SparkConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	AuthScheme     string `yaml:"auth_scheme"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ServerConfig holds the inbound webhook server parameters.
type ServerConfig struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	WebhookSecret string `yaml:"webhook_secret,omitempty"`
}

// Timeout returns the configured HTTP timeout as a duration.
func (s SparkConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// TokenIsPlaceholder reports whether the token was never provisioned.
func (c *Config) TokenIsPlaceholder() bool {
	return c.Spark.Token == "" || c.Spark.Token == PlaceholderToken
}

// SlogLevel maps the configured log level to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DefaultConfigDir returns ~/.sparkbot.
func DefaultConfigDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".sparkbot")
}

// DefaultConfigPath returns ~/.sparkbot/config.yml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yml")
}

// Load reads and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a config file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks ranges and required fields.
func Validate(cfg *Config) error {
	if cfg.Spark.BaseURL == "" {
		return fmt.Errorf("spark.base_url is required")
	}
	if cfg.Spark.TimeoutSeconds <= 0 {
		return fmt.Errorf("spark.timeout_seconds must be positive, got %d", cfg.Spark.TimeoutSeconds)
	}
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug/info/warn/error, got %q", cfg.LogLevel)
	}
	return nil
}
