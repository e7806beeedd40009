package random

import (
	"fmt"

	"github.com/nupic-community/seedrand/common/cbor"
	"github.com/nupic-community/seedrand/common/errors"
	"github.com/nupic-community/seedrand/common/version"
)

// Snapshot is the binary (CBOR) form of the complete generator state.
type Snapshot struct {
	// Version is the packed (version.Version.ToU64) snapshot format.
	Version uint64 `json:"v"`

	Seed   uint64    `json:"seed"`
	Engine [2]uint64 `json:"engine"`

	Uint32 [2]uint32  `json:"uint32"`
	Uint64 [2]uint64  `json:"uint64"`
	Real   [2]float64 `json:"real"`
}

// Snapshot returns a snapshot of the current generator state.
func (g *Generator) Snapshot() Snapshot {
	hi, lo := g.engineState()
	return Snapshot{
		Version: version.SnapshotFormat.ToU64(),
		Seed:    g.seed,
		Engine:  [2]uint64{hi, lo},
		Uint32:  [2]uint32{g.u32.Min, g.u32.Max},
		Uint64:  [2]uint64{g.u64.Min, g.u64.Max},
		Real:    [2]float64{g.real.Min, g.real.Max},
	}
}

// Validate checks the snapshot for consistency.
func (s *Snapshot) Validate() error {
	// Minor and patch bumps stay readable.
	if v := version.FromU64(s.Version); v.Major != version.SnapshotFormat.Major {
		return errors.WithContextf(ErrVersionMismatch, "snapshot version %s", v)
	}
	if s.Seed == 0 {
		return errors.WithContext(ErrMalformedToken, "seed: zero seed")
	}
	if !(UniformUint32{Min: s.Uint32[0], Max: s.Uint32[1]}).valid() {
		return errors.WithContext(ErrMalformedToken, "uint32: invalid range")
	}
	if !(UniformUint64{Min: s.Uint64[0], Max: s.Uint64[1]}).valid() {
		return errors.WithContext(ErrMalformedToken, "uint64: invalid range")
	}
	if !(UniformFloat64{Min: s.Real[0], Max: s.Real[1]}).valid() {
		return errors.WithContext(ErrMalformedToken, "real: invalid range")
	}
	return nil
}

// FromSnapshot creates a generator from a snapshot.
func FromSnapshot(s Snapshot, opts ...Option) (*Generator, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	o := newOptions(opts)
	g := &Generator{logger: o.logger}
	g.restoreSnapshot(&s)
	return g, nil
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (g *Generator) MarshalBinary() ([]byte, error) {
	s := g.Snapshot()
	return cbor.Marshal(&s), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler. On failure the
// generator is left unchanged.
func (g *Generator) UnmarshalBinary(data []byte) error {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("random: failed to unmarshal snapshot: %w", err)
	}
	if err := s.Validate(); err != nil {
		return err
	}

	g.restoreSnapshot(&s)
	return nil
}

func (g *Generator) restoreSnapshot(s *Snapshot) {
	g.restore(
		s.Seed,
		s.Engine[0],
		s.Engine[1],
		UniformUint32{Min: s.Uint32[0], Max: s.Uint32[1]},
		UniformUint64{Min: s.Uint64[0], Max: s.Uint64[1]},
		UniformFloat64{Min: s.Real[0], Max: s.Real[1]},
	)
}
