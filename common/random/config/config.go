// Package config implements generator configuration options.
package config

import (
	"fmt"

	"github.com/nupic-community/seedrand/common/random"
)

const (
	// PolicyFixed resolves the zero seed to a fixed fallback seed.
	PolicyFixed = "fixed"
	// PolicyCrypto resolves the zero seed from crypto/rand.
	PolicyCrypto = "crypto"
)

// Config is the generator configuration structure.
type Config struct {
	// How a zero (unspecified) seed is resolved (fixed, crypto).
	ZeroSeedPolicy string `yaml:"zero_seed_policy"`
	// Seed substituted for zero under the fixed policy.
	FallbackSeed uint64 `yaml:"fallback_seed,omitempty"`
	// Root seed used for seed derivation (0 means unspecified).
	RootSeed uint64 `yaml:"root_seed,omitempty"`
}

// Validate validates the configuration settings.
func (c *Config) Validate() error {
	switch c.ZeroSeedPolicy {
	case PolicyFixed:
		if c.FallbackSeed == 0 {
			return fmt.Errorf("fallback_seed must be non-zero with the %s policy", PolicyFixed)
		}
	case PolicyCrypto:
	default:
		return fmt.Errorf("unknown zero_seed_policy: %s", c.ZeroSeedPolicy)
	}
	return nil
}

// EntropySource returns the entropy source selected by the configuration.
func (c *Config) EntropySource() random.EntropySource {
	if c.ZeroSeedPolicy == PolicyCrypto {
		return random.CryptoEntropy{}
	}
	return random.FixedEntropy(c.FallbackSeed)
}

// DefaultConfig returns the default configuration settings.
func DefaultConfig() Config {
	return Config{
		ZeroSeedPolicy: PolicyFixed,
		FallbackSeed:   random.DefaultFallbackSeed,
		RootSeed:       0,
	}
}
