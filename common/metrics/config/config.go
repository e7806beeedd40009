// Package config implements metrics configuration options.
package config

import "fmt"

// Config is the metrics configuration structure.
type Config struct {
	// Metrics mode (none, push).
	Mode string `yaml:"mode"`
	// Push gateway address.
	Address string `yaml:"address"`
	// Push job name.
	JobName string `yaml:"job_name,omitempty"`
	// Push grouping labels.
	Labels map[string]string `yaml:"labels,omitempty"`
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	switch c.Mode {
	case "none":
	case "push":
		if len(c.Address) == 0 {
			return fmt.Errorf("missing address in push mode")
		}
		if len(c.JobName) == 0 {
			return fmt.Errorf("missing job_name in push mode")
		}
	default:
		return fmt.Errorf("unknown metrics mode: %s", c.Mode)
	}

	return nil
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() Config {
	return Config{
		Mode:    "none",
		Address: "127.0.0.1:9091",
		JobName: "seedrand",
		Labels:  map[string]string{},
	}
}
