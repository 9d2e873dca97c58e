// Package config loads runtime settings from the environment and optional
// .env files.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"resource-planner/periods"
)

// DefaultEnvFiles are loaded, when present, before the environment is parsed.
var DefaultEnvFiles = []string{".env", ".env.local"}

type Config struct {
	LogLevel    string `env:"PLANNER_LOG_LEVEL" envDefault:"info"`
	DefaultView string `env:"PLANNER_DEFAULT_VIEW" envDefault:"week"`
	Snapshot    string `env:"PLANNER_SNAPSHOT"`
	Workers     int    `env:"PLANNER_WORKERS" envDefault:"4"`
	CacheSize   int    `env:"PLANNER_CACHE_SIZE" envDefault:"1024"`
	MetricsAddr string `env:"PLANNER_METRICS_ADDR"`
	PushURL     string `env:"PLANNER_PUSH_URL"`
}

// LoadEnv loads the env files that exist and returns how many were loaded.
// Values already present in the environment are not overridden.
func LoadEnv(envFiles []string) (int, error) {
	existing := make([]string, 0, len(envFiles))
	for _, file := range envFiles {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) == 0 {
		return 0, nil
	}
	return len(existing), godotenv.Load(existing...)
}

// Load reads env files and parses the environment into a Config. Callers
// apply their overrides and then call Validate.
func Load(envFiles []string) (*Config, error) {
	if _, err := LoadEnv(envFiles); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	c := &Config{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return c, nil
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil && c.LogLevel != "silent" {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	if _, err := periods.ParseViewMode(c.DefaultView); err != nil {
		return err
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache size must be non-negative, got %d", c.CacheSize)
	}
	return nil
}
