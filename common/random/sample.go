package random

import "github.com/nupic-community/seedrand/common/errors"

// Uint32N returns the next value in [0, n). It panics if n is zero.
func (g *Generator) Uint32N(n uint32) uint32 {
	if n == 0 {
		panic("random: Uint32N with zero bound")
	}
	return g.rng.Uint32N(n)
}

// Uint64N returns the next value in [0, n). It panics if n is zero.
func (g *Generator) Uint64N(n uint64) uint64 {
	if n == 0 {
		panic("random: Uint64N with zero bound")
	}
	return g.rng.Uint64N(n)
}

// Shuffle pseudo-randomizes the order of n elements using the
// Fisher-Yates algorithm. swap swaps the elements with indexes i and j.
func (g *Generator) Shuffle(n int, swap func(i, j int)) {
	g.rng.Shuffle(n, swap)
}

// Sample picks n distinct elements of population without replacement.
// The chosen elements keep their relative order in population.
func Sample[T any](g *Generator, population []T, n int) ([]T, error) {
	if n < 0 || n > len(population) {
		return nil, errors.WithContextf(ErrInvalidSample, "want %d of %d", n, len(population))
	}

	// Selection sampling: every element is taken with probability
	// needed/remaining, which yields exactly n elements.
	out := make([]T, 0, n)
	for i := 0; i < len(population) && len(out) < n; i++ {
		remaining := uint64(len(population) - i)
		needed := uint64(n - len(out))
		if g.rng.Uint64N(remaining) < needed {
			out = append(out, population[i])
		}
	}
	return out, nil
}
