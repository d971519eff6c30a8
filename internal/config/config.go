// Package config loads pagoda configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pagoda-notes/pagoda/internal/ai"
)

// Config is the on-disk configuration. Every field is optional;
// zero values fall back to defaults when converted for use.
type Config struct {
	// Model names the Anthropic model for content generation.
	// The PAGODA_MODEL environment variable overrides it.
	Model string `yaml:"model,omitempty"`

	// MaxTokens caps generation response length
	MaxTokens int64 `yaml:"max_tokens,omitempty"`

	// RateLimit is the generation request budget in requests per second
	RateLimit float64 `yaml:"rate_limit,omitempty"`

	// EventLogCapacity bounds the in-memory activity feed
	EventLogCapacity int `yaml:"event_log_capacity,omitempty"`

	// Retry tunes generation API retries
	Retry RetryYAML `yaml:"retry,omitempty"`
}

// RetryYAML represents retry tuning in the YAML file. Durations are
// strings like "30s" or "2m"; it is converted to ai.RetryConfig for use.
type RetryYAML struct {
	MaxRetries         int    `yaml:"max_retries,omitempty"`
	InitialBackoff     string `yaml:"initial_backoff,omitempty"`
	MaxBackoff         string `yaml:"max_backoff,omitempty"`
	Timeout            string `yaml:"timeout,omitempty"`
	BreakerEnabled     *bool  `yaml:"breaker_enabled,omitempty"`
	FailureThreshold   int    `yaml:"failure_threshold,omitempty"`
	SuccessThreshold   int    `yaml:"success_threshold,omitempty"`
	OpenTimeout        string `yaml:"open_timeout,omitempty"`
	MaxConcurrentCalls *int   `yaml:"max_concurrent_calls,omitempty"`
}

// DefaultPath returns the conventional config file location
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pagoda.yaml"
	}
	return filepath.Join(home, ".config", "pagoda", "config.yaml")
}

// Load reads and parses the config file at path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads the config file at path, falling back to an empty
// config (all defaults) when the file does not exist. Any other read or
// parse failure is still an error.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// GeneratorConfig converts the file values into an ai.Config, applying
// defaults for anything left unset and validating duration strings.
func (c *Config) GeneratorConfig() (*ai.Config, error) {
	retry, err := c.Retry.toRetryConfig()
	if err != nil {
		return nil, err
	}
	return &ai.Config{
		Model:     c.Model,
		MaxTokens: c.MaxTokens,
		RateLimit: c.RateLimit,
		Retry:     retry,
	}, nil
}

func (r *RetryYAML) toRetryConfig() (ai.RetryConfig, error) {
	cfg := ai.DefaultRetryConfig()

	if r.MaxRetries > 0 {
		cfg.MaxRetries = r.MaxRetries
	}
	if r.FailureThreshold > 0 {
		cfg.FailureThreshold = r.FailureThreshold
	}
	if r.SuccessThreshold > 0 {
		cfg.SuccessThreshold = r.SuccessThreshold
	}
	if r.BreakerEnabled != nil {
		cfg.BreakerEnabled = *r.BreakerEnabled
	}
	if r.MaxConcurrentCalls != nil {
		cfg.MaxConcurrentCalls = *r.MaxConcurrentCalls
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"initial_backoff", r.InitialBackoff, &cfg.InitialBackoff},
		{"max_backoff", r.MaxBackoff, &cfg.MaxBackoff},
		{"timeout", r.Timeout, &cfg.Timeout},
		{"open_timeout", r.OpenTimeout, &cfg.OpenTimeout},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return cfg, fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		*d.dst = parsed
	}

	return cfg, nil
}
