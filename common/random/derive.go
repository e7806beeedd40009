package random

import (
	"io"
	"sync"
)

// DeriveSeed returns a seed drawn from a transient generator built with
// the zero sentinel seed, and therefore resolved by DefaultEntropy.
//
// With the default fixed policy every call returns the same value. Use a
// Deriver to hand out distinct seeds from a single root.
func DeriveSeed() uint64 {
	return MustNew(0).DrawUint64()
}

// Deriver hands out deterministic seeds for independently owned
// generators, all derived from a single root generator.
//
// Unlike Generator, a Deriver is safe for concurrent use.
type Deriver struct {
	sync.Mutex

	root *Generator
}

// NewDeriver creates a deriver drawing from root. The deriver takes
// ownership of root.
func NewDeriver(root *Generator) *Deriver {
	return &Deriver{
		root: root,
	}
}

// NewDeriverFromSeed creates a deriver whose root generator is built
// from the given root seed.
func NewDeriverFromSeed(seed uint64, opts ...Option) (*Deriver, error) {
	root, err := New(seed, opts...)
	if err != nil {
		return nil, err
	}
	return NewDeriver(root), nil
}

// DeriveSeed returns the next derived seed. The result is never zero.
func (d *Deriver) DeriveSeed() uint64 {
	d.Lock()
	defer d.Unlock()

	for {
		if seed := d.root.DrawUint64(); seed != 0 {
			return seed
		}
	}
}

// NewGenerator creates a new generator seeded with the next derived seed.
func (d *Deriver) NewGenerator(opts ...Option) (*Generator, error) {
	return New(d.DeriveSeed(), opts...)
}

// Serialize writes the state of the root generator to w.
func (d *Deriver) Serialize(w io.Writer) error {
	d.Lock()
	defer d.Unlock()

	return d.root.Serialize(w)
}

// Snapshot returns a snapshot of the root generator.
func (d *Deriver) Snapshot() Snapshot {
	d.Lock()
	defer d.Unlock()

	return d.root.Snapshot()
}
