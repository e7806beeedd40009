package random

import (
	"math"
	"math/rand/v2"
)

// UniformUint32 is a uniform distribution over the closed interval
// [Min, Max] of uint32 values.
type UniformUint32 struct {
	Min uint32
	Max uint32
}

// Draw returns the next value of the distribution.
func (d UniformUint32) Draw(rng *rand.Rand) uint32 {
	if d.Min == 0 && d.Max == math.MaxUint32 {
		return rng.Uint32()
	}
	return d.Min + rng.Uint32N(d.Max-d.Min+1)
}

func (d UniformUint32) valid() bool {
	return d.Min <= d.Max
}

// UniformUint64 is a uniform distribution over the closed interval
// [Min, Max] of uint64 values.
type UniformUint64 struct {
	Min uint64
	Max uint64
}

// Draw returns the next value of the distribution.
func (d UniformUint64) Draw(rng *rand.Rand) uint64 {
	if d.Min == 0 && d.Max == math.MaxUint64 {
		return rng.Uint64()
	}
	return d.Min + rng.Uint64N(d.Max-d.Min+1)
}

func (d UniformUint64) valid() bool {
	return d.Min <= d.Max
}

// UniformFloat64 is a uniform distribution over the half-open interval
// [Min, Max) of float64 values.
type UniformFloat64 struct {
	Min float64
	Max float64
}

// Draw returns the next value of the distribution.
func (d UniformFloat64) Draw(rng *rand.Rand) float64 {
	v := rng.Float64()
	if d.Min == 0 && d.Max == 1 {
		return v
	}

	// Interpolate instead of scaling Max-Min, which overflows for spans
	// wider than MaxFloat64.
	v = d.Min*(1-v) + d.Max*v
	switch {
	case v >= d.Max:
		// Rounding can land on the open upper bound.
		v = math.Nextafter(d.Max, d.Min)
	case v < d.Min:
		v = d.Min
	}
	return v
}

func (d UniformFloat64) valid() bool {
	if math.IsNaN(d.Min) || math.IsInf(d.Min, 0) || math.IsNaN(d.Max) || math.IsInf(d.Max, 0) {
		return false
	}
	return d.Min < d.Max
}

func defaultUint32Distribution() UniformUint32 {
	return UniformUint32{Min: 0, Max: math.MaxUint32}
}

func defaultUint64Distribution() UniformUint64 {
	return UniformUint64{Min: 0, Max: math.MaxUint64}
}

func defaultRealDistribution() UniformFloat64 {
	return UniformFloat64{Min: 0.0, Max: 1.0}
}
