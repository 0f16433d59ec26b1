package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/profile-dashboard/internal/domain"
)

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	Port int `yaml:"port"`

	// DRF backend configuration
	APIBaseURL string `yaml:"api_base_url"`
	// RequestTimeoutSeconds bounds each upstream request. 0 keeps the transport default.
	RequestTimeoutSeconds int `yaml:"request_timeout_seconds"`

	// Dashboard configuration
	SessionTTLMinutes int `yaml:"session_ttl_minutes"`
	UIRefreshSeconds  int `yaml:"ui_refresh_seconds"`

	// Logging configuration
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:              8080,
		APIBaseURL:        domain.DefaultAPIBaseURL,
		SessionTTLMinutes: 30,
		UIRefreshSeconds:  1,
		LogLevel:          "info",
		LogFormat:         "text",
	}
}

// Load loads configuration from environment variables over the defaults.
func Load() (*Config, error) {
	cfg := Default()
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile loads configuration from a YAML file, then applies environment variables.
// An empty path behaves like Load.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// BindFlags registers command-line flags whose defaults are the current values,
// so parsed flags override file and environment settings.
func (c *Config) BindFlags(fs *pflag.FlagSet) {
	fs.IntVar(&c.Port, "port", c.Port, "HTTP port for the dashboard")
	fs.StringVar(&c.APIBaseURL, "api-url", c.APIBaseURL, "base URL of the DRF backend")
	fs.IntVar(&c.RequestTimeoutSeconds, "request-timeout", c.RequestTimeoutSeconds, "upstream request timeout in seconds (0 = transport default)")
	fs.IntVar(&c.SessionTTLMinutes, "session-ttl", c.SessionTTLMinutes, "minutes before an idle session is forgotten")
	fs.IntVar(&c.UIRefreshSeconds, "ui-refresh", c.UIRefreshSeconds, "seconds between page refreshes while a request is running")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&c.LogFormat, "log-format", c.LogFormat, "log format: text or json")
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range", c.Port))
	}
	if c.RequestTimeoutSeconds < 0 {
		errs = append(errs, errors.New("request timeout must not be negative"))
	}
	if c.SessionTTLMinutes <= 0 {
		errs = append(errs, errors.New("session TTL must be positive"))
	}
	if c.UIRefreshSeconds <= 0 {
		errs = append(errs, errors.New("UI refresh interval must be positive"))
	}
	return errors.Join(errs...)
}

// RequestTimeout returns the upstream request timeout; 0 means none is set.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// SessionTTL returns how long an idle session is kept.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func (c *Config) applyEnv() {
	c.Port = getEnvInt("PORT", c.Port)
	c.APIBaseURL = getEnvOrDefault("DRF_API_URL", c.APIBaseURL)
	c.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", c.RequestTimeoutSeconds)
	c.SessionTTLMinutes = getEnvInt("SESSION_TTL_MINUTES", c.SessionTTLMinutes)
	c.UIRefreshSeconds = getEnvInt("UI_REFRESH_SECONDS", c.UIRefreshSeconds)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnvOrDefault("LOG_FORMAT", c.LogFormat)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt returns the integer value of key, or defaultValue when unset or invalid.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
