// Package config holds the options that shape compiled output.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional name of the configuration file.
const FileName = "malina.yaml"

// Config represents the malina.yaml configuration.
type Config struct {
	// Component name used in diagnostics
	Name string `yaml:"name,omitempty"`

	// Emit <!----> instead of labeled comments at dynamic mount points
	HideLabel bool `yaml:"hideLabel"`

	// Keep template comments in the static markup
	PreserveComments bool `yaml:"preserveComments"`

	// Run the whitespace normalizer before compiling (default true)
	CompactDOM *bool `yaml:"compactDOM,omitempty"`

	// Indentation unit of generated code (default two spaces)
	Indent string `yaml:"indent,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	compact := true
	return &Config{
		Name:       "widget",
		CompactDOM: &compact,
		Indent:     "  ",
	}
}

// Load loads configuration from path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML configuration and applies defaults for missing values.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults applies default values to missing configuration
func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Name == "" {
		cfg.Name = defaults.Name
	}
	if cfg.CompactDOM == nil {
		cfg.CompactDOM = defaults.CompactDOM
	}
	if cfg.Indent == "" {
		cfg.Indent = defaults.Indent
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Indent != "" && strings.Trim(c.Indent, " \t") != "" {
		return fmt.Errorf("config: indent must be spaces or tabs, got %q", c.Indent)
	}
	return nil
}

// Compact reports whether the whitespace normalizer should run.
func (c *Config) Compact() bool {
	return c.CompactDOM == nil || *c.CompactDOM
}

// Marshal encodes the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
