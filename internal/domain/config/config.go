// Package config loads the optional setup.yaml overrides file.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries operator overrides for a bootstrap run. Every field is
// optional; the zero value plus Default() covers a stock Debian machine.
type Config struct {
	// SecretsFile overrides where phase 1 reads its credentials from.
	SecretsFile string `yaml:"secrets_file,omitempty"`

	// Hostname is used for the tailnet join instead of prompting.
	Hostname string `yaml:"hostname,omitempty"`

	// DaemonSettleTimeout bounds the wait for tailscaled after a detached
	// start, as a Go duration string ("30s", "1m").
	DaemonSettleTimeout string `yaml:"daemon_settle_timeout,omitempty"`

	// Disabled lists tool names to leave out of the run entirely.
	Disabled []string `yaml:"disabled,omitempty"`
}

// Default returns the configuration used when no setup.yaml exists.
func Default() *Config {
	return &Config{
		SecretsFile: ".env.secrets",
	}
}

// Parse decodes a Config from YAML and validates it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that YAML decoding alone cannot.
func (c *Config) Validate() error {
	if c.SecretsFile == "" {
		return fmt.Errorf("secrets_file must not be empty")
	}
	if c.DaemonSettleTimeout != "" {
		if _, err := time.ParseDuration(c.DaemonSettleTimeout); err != nil {
			return fmt.Errorf("daemon_settle_timeout: %w", err)
		}
	}
	return nil
}

// SettleTimeout returns the parsed daemon settle timeout, or fallback when
// the field is unset. Validate has already rejected malformed values.
func (c *Config) SettleTimeout(fallback time.Duration) time.Duration {
	if c.DaemonSettleTimeout == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.DaemonSettleTimeout)
	if err != nil {
		return fallback
	}
	return d
}

// ToolEnabled reports whether a tool name is absent from the disabled list.
func (c *Config) ToolEnabled(name string) bool {
	for _, d := range c.Disabled {
		if d == name {
			return false
		}
	}
	return true
}
