package random

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/errors"
)

func TestBoundedDraws(t *testing.T) {
	require := require.New(t)

	a, b := MustNew(11), MustNew(11)
	for i := 0; i < 1000; i++ {
		v := a.Uint32N(2)
		require.Less(v, uint32(2))
		require.Equal(v, b.Uint32N(2), "Uint32N #%d", i)

		w := a.Uint64N(1000)
		require.Less(w, uint64(1000))
		require.Equal(w, b.Uint64N(1000), "Uint64N #%d", i)
	}
	require.Zero(a.Uint32N(1))
	require.True(a.Equal(b))

	require.Panics(func() { a.Uint32N(0) })
	require.Panics(func() { a.Uint64N(0) })
}

func TestSample(t *testing.T) {
	require := require.New(t)

	population := make([]uint32, 100)
	for i := range population {
		population[i] = uint32(i) * 3
	}

	a, b := MustNew(5), MustNew(5)
	for _, n := range []int{0, 1, 10, 99, 100} {
		s, err := Sample(a, population, n)
		require.NoError(err)
		require.Len(s, n)

		s2, err := Sample(b, population, n)
		require.NoError(err)
		require.Equal(s, s2, "same seed, same sample (n %d)", n)

		seen := make(map[uint32]bool)
		for i, v := range s {
			require.Zero(v%3, "sampled values come from the population")
			require.False(seen[v], "no element is drawn twice")
			seen[v] = true
			if i > 0 {
				require.Greater(v, s[i-1], "population order is kept")
			}
		}
	}
	require.Equal(population, mustSample(t, a, population, len(population)))

	_, err := Sample(a, population, 101)
	require.ErrorIs(err, ErrInvalidSample)
	module, code := errors.Code(err)
	require.Equal(ModuleName, module)
	require.EqualValues(5, code)
	_, err = Sample(a, population, -1)
	require.ErrorIs(err, ErrInvalidSample)
}

func mustSample(t *testing.T, g *Generator, population []uint32, n int) []uint32 {
	s, err := Sample(g, population, n)
	require.NoError(t, err)
	return s
}

func TestShuffle(t *testing.T) {
	require := require.New(t)

	index := func() []int {
		v := make([]int, 50)
		for i := range v {
			v[i] = i
		}
		return v
	}

	a, b := MustNew(9), MustNew(9)
	va, vb := index(), index()
	a.Shuffle(len(va), func(i, j int) { va[i], va[j] = va[j], va[i] })
	b.Shuffle(len(vb), func(i, j int) { vb[i], vb[j] = vb[j], vb[i] })
	require.Equal(va, vb)
	require.NotEqual(index(), va)
	require.ElementsMatch(index(), va, "a shuffle is a permutation")
}

func TestSamplingResumesAfterRestore(t *testing.T) {
	require := require.New(t)

	population := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	g := MustNew(77)
	g.Uint32N(10)
	_, err := Sample(g, population, 3)
	require.NoError(err)

	var buf bytes.Buffer
	require.NoError(g.Serialize(&buf))
	restored, err := Deserialize(&buf)
	require.NoError(err)

	fromBinary := MustNew(1)
	data, err := g.MarshalBinary()
	require.NoError(err)
	require.NoError(fromBinary.UnmarshalBinary(data))

	for _, r := range []*Generator{restored, fromBinary} {
		c := g.Clone()
		require.Equal(c.Uint32N(7), r.Uint32N(7))
		require.Equal(c.Uint64N(1<<40), r.Uint64N(1<<40))

		sc, err := Sample(c, population, 4)
		require.NoError(err)
		sr, err := Sample(r, population, 4)
		require.NoError(err)
		require.Equal(sc, sr)

		vc, vr := []int{0, 1, 2, 3, 4, 5}, []int{0, 1, 2, 3, 4, 5}
		c.Shuffle(len(vc), func(i, j int) { vc[i], vc[j] = vc[j], vc[i] })
		r.Shuffle(len(vr), func(i, j int) { vr[i], vr[j] = vr[j], vr[i] })
		require.Equal(vc, vr)
		require.True(c.Equal(r))
	}
}
