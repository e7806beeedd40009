// Package config implements checkpoint store configuration options.
package config

import (
	"fmt"
	"time"

	"github.com/nupic-community/seedrand/common/persistent"
)

// Config is the checkpoint store configuration structure.
type Config struct {
	// Make every checkpoint write durable before returning.
	SyncWrites bool `yaml:"sync_writes"`
	// How long to retry opening a locked store.
	OpenTimeout time.Duration `yaml:"open_timeout,omitempty"`
	// Value log GC interval.
	GCInterval time.Duration `yaml:"gc_interval,omitempty"`
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	if c.OpenTimeout < 0 {
		return fmt.Errorf("open_timeout must not be negative")
	}
	if c.GCInterval < 0 {
		return fmt.Errorf("gc_interval must not be negative")
	}
	return nil
}

// Options converts the configuration into store options.
func (c *Config) Options() persistent.Options {
	return persistent.Options{
		SyncWrites:  c.SyncWrites,
		OpenTimeout: c.OpenTimeout,
		GCInterval:  c.GCInterval,
	}
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() Config {
	return Config{
		SyncWrites:  true,
		OpenTimeout: persistent.DefaultOpenTimeout,
		GCInterval:  0,
	}
}
