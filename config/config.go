// Package config provides YAML configuration parsing for jsonpoll.
//
// This package enables running the poller as a standalone binary with a
// configuration file, as an alternative to the programmatic builder.
//
// Example configuration:
//
//	url: https://api.example.com/data
//	poll_interval: 500ms
//	pool_max_idle_per_host: 1
//	pool_idle_timeout: 90s
//	request_timeout: 1s
//	tcp_keepalive: 60s
package config

import (
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/jsonpoll"
)

// Config is the root configuration structure for a single poller.
//
// It maps directly to the YAML configuration file. Use [Load] or [Parse]
// to create a Config from YAML with defaults applied.
type Config struct {
	// URL is the target endpoint to poll. Required.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`

	// PollInterval is the time between fetch attempts.
	// Accepts duration strings like "500ms", "10s", "1m". Defaults to 500ms.
	PollInterval Duration `yaml:"poll_interval"`

	// PoolMaxIdlePerHost caps idle pooled connections to the target host.
	// Defaults to 1.
	PoolMaxIdlePerHost int `yaml:"pool_max_idle_per_host"`

	// PoolIdleTimeout is how long an idle pooled connection is kept.
	// Defaults to 90s.
	PoolIdleTimeout Duration `yaml:"pool_idle_timeout"`

	// RequestTimeout is the per-request deadline. Defaults to 1s.
	RequestTimeout Duration `yaml:"request_timeout"`

	// TCPKeepalive is the keepalive probe interval on the underlying
	// socket. Defaults to 60s.
	TCPKeepalive Duration `yaml:"tcp_keepalive"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		if len(submatches) < 2 {
			return match
		}

		varName := submatches[1]
		hasDefault := len(submatches) > 2 && submatches[2] != ""
		defaultVal := ""
		if hasDefault && len(submatches) > 3 {
			defaultVal = submatches[3]
		}

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
//
// Environment variables in the URL are expanded before validation.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Defaults are applied for every field except URL, which is required.
// The URL is env-expanded and must carry an http or https scheme; this
// validation lives in the config layer only, the builder itself accepts
// any URL.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyDefaults fills unset fields with the jsonpoll package defaults.
func (c *Config) applyDefaults() {
	if c.PollInterval == 0 {
		c.PollInterval = Duration(jsonpoll.DefaultPollInterval)
	}
	if c.PoolMaxIdlePerHost == 0 {
		c.PoolMaxIdlePerHost = jsonpoll.DefaultPoolMaxIdlePerHost
	}
	if c.PoolIdleTimeout == 0 {
		c.PoolIdleTimeout = Duration(jsonpoll.DefaultPoolIdleTimeout)
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = Duration(jsonpoll.DefaultRequestTimeout)
	}
	if c.TCPKeepalive == 0 {
		c.TCPKeepalive = Duration(jsonpoll.DefaultTCPKeepalive)
	}
}

// Validate expands environment variables in the URL and checks the config.
//
// Durations must be non-negative. Intervals are deliberately not bounded
// below: an aggressive poll_interval is the operator's call.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("url is required")
	}

	expanded, err := expandEnvVars(c.URL)
	if err != nil {
		return fmt.Errorf("url: %w", err)
	}
	c.URL = expanded

	parsedURL, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if parsedURL.Scheme == "" {
		return fmt.Errorf("url must have a scheme (http:// or https://)")
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", parsedURL.Scheme)
	}

	for name, d := range map[string]Duration{
		"poll_interval":     c.PollInterval,
		"pool_idle_timeout": c.PoolIdleTimeout,
		"request_timeout":   c.RequestTimeout,
		"tcp_keepalive":     c.TCPKeepalive,
	} {
		if d.Duration() < 0 {
			return fmt.Errorf("%s cannot be negative, got %s", name, d.Duration())
		}
	}

	if c.PoolMaxIdlePerHost < 0 {
		return fmt.Errorf("pool_max_idle_per_host cannot be negative, got %d", c.PoolMaxIdlePerHost)
	}

	return nil
}
