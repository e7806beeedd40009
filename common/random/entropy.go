package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/nupic-community/seedrand/common/logging"
)

// DefaultFallbackSeed is the seed substituted for the zero sentinel by
// the default (reproducible) zero-seed policy.
const DefaultFallbackSeed uint64 = 7

// EntropySource resolves the seed used when a generator is constructed
// with the zero sentinel.
type EntropySource interface {
	// Seed returns a seed value.
	Seed() (uint64, error)
}

// FixedEntropy is an EntropySource that always returns the same value.
type FixedEntropy uint64

// Seed implements EntropySource.
func (e FixedEntropy) Seed() (uint64, error) {
	return uint64(e), nil
}

// CryptoEntropy is an EntropySource backed by crypto/rand.
type CryptoEntropy struct{}

// Seed implements EntropySource.
func (CryptoEntropy) Seed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("random: failed to read entropy: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// DefaultEntropy is the zero-seed policy used when none is configured.
var DefaultEntropy EntropySource = FixedEntropy(DefaultFallbackSeed)

type options struct {
	entropy EntropySource
	logger  *logging.Logger
}

// Option is a generator construction option.
type Option func(*options)

// WithEntropy sets the source consulted when the zero sentinel seed is
// passed to New.
func WithEntropy(src EntropySource) Option {
	return func(o *options) {
		o.entropy = src
	}
}

// WithLogger sets the logger used by the generator.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		entropy: DefaultEntropy,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
