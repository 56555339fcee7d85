package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines configuration for the rabpro CLI.
type Config struct {
	DataRoot   string        `yaml:"data_root"`
	ConfigRoot string        `yaml:"config_root"`
	Proxy      string        `yaml:"proxy"`
	Progress   bool          `yaml:"progress"`
	CatalogTTL time.Duration `yaml:"catalog_ttl"`
	Merit      MeritConfig   `yaml:"merit"`
	Retry      RetryConfig   `yaml:"retry"`
}

// MeritConfig holds MERIT Hydro registration credentials.
type MeritConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// RetryConfig defines retry behavior.
type RetryConfig struct {
	Attempts   int           `yaml:"attempts"`
	Backoff    time.Duration `yaml:"backoff"`
	MaxBackoff time.Duration `yaml:"max_backoff"`
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		Progress:   true,
		CatalogTTL: 24 * time.Hour,
		Retry: RetryConfig{
			Attempts:   5,
			Backoff:    time.Second,
			MaxBackoff: 30 * time.Second,
		},
	}
}

// yamlConfig is used for YAML unmarshaling with string durations.
type yamlConfig struct {
	DataRoot   string          `yaml:"data_root"`
	ConfigRoot string          `yaml:"config_root"`
	Proxy      string          `yaml:"proxy"`
	Progress   *bool           `yaml:"progress"`
	CatalogTTL string          `yaml:"catalog_ttl"`
	Merit      MeritConfig     `yaml:"merit"`
	Retry      yamlRetryConfig `yaml:"retry"`
}

type yamlRetryConfig struct {
	Attempts   int    `yaml:"attempts"`
	Backoff    string `yaml:"backoff"`
	MaxBackoff string `yaml:"max_backoff"`
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}

	cfg := Default()

	if yc.DataRoot != "" {
		cfg.DataRoot = yc.DataRoot
	}
	if yc.ConfigRoot != "" {
		cfg.ConfigRoot = yc.ConfigRoot
	}
	if yc.Proxy != "" {
		cfg.Proxy = yc.Proxy
	}
	if yc.Progress != nil {
		cfg.Progress = *yc.Progress
	}
	if yc.CatalogTTL != "" {
		d, err := time.ParseDuration(yc.CatalogTTL)
		if err != nil {
			return Config{}, fmt.Errorf("parse catalog_ttl: %w", err)
		}
		cfg.CatalogTTL = d
	}
	if yc.Merit.Username != "" {
		cfg.Merit.Username = yc.Merit.Username
	}
	if yc.Merit.Password != "" {
		cfg.Merit.Password = yc.Merit.Password
	}
	if yc.Retry.Attempts != 0 {
		cfg.Retry.Attempts = yc.Retry.Attempts
	}
	if yc.Retry.Backoff != "" {
		d, err := time.ParseDuration(yc.Retry.Backoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.backoff: %w", err)
		}
		cfg.Retry.Backoff = d
	}
	if yc.Retry.MaxBackoff != "" {
		d, err := time.ParseDuration(yc.Retry.MaxBackoff)
		if err != nil {
			return Config{}, fmt.Errorf("parse retry.max_backoff: %w", err)
		}
		cfg.Retry.MaxBackoff = d
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the RABPRO_ prefix.
func (c *Config) LoadFromEnv() error {
	if v := os.Getenv("RABPRO_DATA"); v != "" {
		c.DataRoot = v
	}
	if v := os.Getenv("RABPRO_CONFIG"); v != "" {
		c.ConfigRoot = v
	}
	if v := os.Getenv("RABPRO_PROXY"); v != "" {
		c.Proxy = v
	}
	if v := os.Getenv("RABPRO_PROGRESS"); v != "" {
		c.Progress = v == "true" || v == "1"
	}
	if v := os.Getenv("RABPRO_CATALOG_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RABPRO_CATALOG_TTL: %w", err)
		}
		c.CatalogTTL = d
	}
	if v := os.Getenv("RABPRO_MERIT_USERNAME"); v != "" {
		c.Merit.Username = v
	}
	if v := os.Getenv("RABPRO_MERIT_PASSWORD"); v != "" {
		c.Merit.Password = v
	}
	if v := os.Getenv("RABPRO_RETRY_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("parse RABPRO_RETRY_ATTEMPTS: %w", err)
		}
		c.Retry.Attempts = n
	}
	if v := os.Getenv("RABPRO_RETRY_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RABPRO_RETRY_BACKOFF: %w", err)
		}
		c.Retry.Backoff = d
	}
	if v := os.Getenv("RABPRO_RETRY_MAX_BACKOFF"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("parse RABPRO_RETRY_MAX_BACKOFF: %w", err)
		}
		c.Retry.MaxBackoff = d
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.CatalogTTL <= 0 {
		return errors.New("config: catalog_ttl must be positive")
	}
	if c.Retry.Attempts < 0 {
		return errors.New("config: retry.attempts must not be negative")
	}
	return nil
}

// ValidateMerit checks that MERIT Hydro credentials are present; they
// are required only for tile downloads.
func (c *Config) ValidateMerit() error {
	if c.Merit.Username == "" || c.Merit.Password == "" {
		return errors.New("config: MERIT Hydro username and password are required (register at the MERIT Hydro site)")
	}
	return nil
}

// Merge merges override values into c, returning a new Config.
// Zero values in override are ignored.
func (c Config) Merge(override Config) Config {
	if override.DataRoot != "" {
		c.DataRoot = override.DataRoot
	}
	if override.ConfigRoot != "" {
		c.ConfigRoot = override.ConfigRoot
	}
	if override.Proxy != "" {
		c.Proxy = override.Proxy
	}
	if override.Progress {
		c.Progress = override.Progress
	}
	if override.CatalogTTL != 0 {
		c.CatalogTTL = override.CatalogTTL
	}
	if override.Merit.Username != "" {
		c.Merit.Username = override.Merit.Username
	}
	if override.Merit.Password != "" {
		c.Merit.Password = override.Merit.Password
	}
	if override.Retry.Attempts != 0 {
		c.Retry.Attempts = override.Retry.Attempts
	}
	if override.Retry.Backoff != 0 {
		c.Retry.Backoff = override.Retry.Backoff
	}
	if override.Retry.MaxBackoff != 0 {
		c.Retry.MaxBackoff = override.Retry.MaxBackoff
	}
	return c
}
