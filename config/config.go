// Package config implements global configuration options.
package config

import (
	"bytes"
	"fmt"
	"io"

	"github.com/a8m/envsubst"
	"gopkg.in/yaml.v3"

	metrics "github.com/nupic-community/seedrand/common/metrics/config"
	checkpoint "github.com/nupic-community/seedrand/common/persistent/config"
	random "github.com/nupic-community/seedrand/common/random/config"
	common "github.com/nupic-community/seedrand/seedrand/cmd/common/config"
)

// GlobalConfig holds the global configuration options.
var GlobalConfig Config

// Config is the top-level configuration structure.
type Config struct {
	Common     common.Config     `yaml:"common"`
	Random     random.Config     `yaml:"random"`
	Checkpoint checkpoint.Config `yaml:"checkpoint,omitempty"`
	Metrics    metrics.Config    `yaml:"metrics,omitempty"`
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	if err := c.Common.Validate(); err != nil {
		return fmt.Errorf("common: %w", err)
	}
	if err := c.Random.Validate(); err != nil {
		return fmt.Errorf("random: %w", err)
	}
	if err := c.Checkpoint.Validate(); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if err := c.Metrics.Validate(); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() Config {
	return Config{
		Common:     common.DefaultConfig(),
		Random:     random.DefaultConfig(),
		Checkpoint: checkpoint.DefaultConfig(),
		Metrics:    metrics.DefaultConfig(),
	}
}

// InitConfig initializes the global configuration from the given file.
func InitConfig(cfgFile string) error {
	// Read the specified config file and substitute environment variables.
	cfg, err := envsubst.ReadFile(cfgFile)
	if err != nil {
		return fmt.Errorf("unable to read config file '%s': %w", cfgFile, err)
	}

	cfgNew, err := Parse(cfg)
	if err != nil {
		return fmt.Errorf("failed to load config file '%s': %w", cfgFile, err)
	}
	GlobalConfig = *cfgNew

	return nil
}

// Parse parses and validates a YAML configuration document on top of
// the defaults. Unknown fields are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func init() {
	GlobalConfig = DefaultConfig()
}
