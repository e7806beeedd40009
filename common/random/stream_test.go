package random

import (
	"bytes"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/errors"
)

func drawMixed(g *Generator, n int) {
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			g.DrawUint32()
		case 1:
			g.DrawUint64()
		default:
			g.DrawReal64()
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	require := require.New(t)

	for _, history := range []int{0, 1, 2, 3, 17, 1000} {
		g := MustNew(42)
		drawMixed(g, history)

		var buf bytes.Buffer
		require.NoError(g.Serialize(&buf), "Serialize")

		g2, err := Deserialize(&buf)
		require.NoError(err, "Deserialize (history %d)", history)
		require.True(g.Equal(g2), "restored generator must be equal (history %d)", history)
		require.Zero(buf.Len(), "the whole stream must be consumed")

		for i := 0; i < 100; i++ {
			require.Equal(g.DrawUint64(), g2.DrawUint64())
			require.Equal(g.DrawUint32(), g2.DrawUint32())
			require.Equal(g.DrawReal64(), g2.DrawReal64())
		}
	}
}

func TestStreamFormat(t *testing.T) {
	require := require.New(t)

	g := MustNew(7)

	var buf bytes.Buffer
	require.NoError(g.Serialize(&buf))
	out := buf.String()

	require.True(strings.HasSuffix(out, " endrandom-v1\n"), "single trailing control byte")
	require.Equal(g.String()+"\n", out)

	tokens := strings.Fields(out)
	require.Len(tokens, 11)
	require.Equal(StreamVersion, tokens[0])
	require.Equal("7", tokens[1], "seed")
	require.Equal("7", tokens[2], "engine high word starts at the seed")
	require.Equal([]string{"0", "4294967295", "0", "18446744073709551615", "0", "1"}, tokens[4:10])
	require.Equal(StreamTerminator, tokens[10])
}

func TestStreamWhitespace(t *testing.T) {
	require := require.New(t)

	g := MustNew(1000)
	drawMixed(g, 5)

	spaced := "\n\t random-v1\t" + strings.Join(strings.Fields(g.String())[1:], "   \r\n ")
	g2, err := Deserialize(strings.NewReader(spaced))
	require.NoError(err, "token spacing is not part of the format")
	require.True(g.Equal(g2))
}

func TestStreamVersionMismatch(t *testing.T) {
	require := require.New(t)

	g := MustNew(42)
	drawMixed(g, 10)
	before := g.Clone()

	stream := strings.Replace(g.String(), StreamVersion, "bogus-v1", 1)
	err := g.Deserialize(strings.NewReader(stream))
	require.True(errors.Is(err, ErrVersionMismatch), "bad version tag")
	require.Equal("found 'bogus-v1'", errors.Context(err))
	require.True(g.Equal(before), "generator must be left unchanged")

	err = g.Deserialize(strings.NewReader(""))
	require.True(errors.Is(err, ErrVersionMismatch), "empty stream")
	require.True(g.Equal(before))
}

func TestStreamTerminatorMismatch(t *testing.T) {
	require := require.New(t)

	g := MustNew(42)
	before := g.Clone()

	stream := strings.TrimSuffix(g.String(), StreamTerminator)
	err := g.Deserialize(strings.NewReader(stream))
	require.True(errors.Is(err, ErrTerminatorMismatch), "missing end tag")
	require.True(g.Equal(before))

	stream = strings.Replace(g.String(), StreamTerminator, "endrandom-v2", 1)
	err = g.Deserialize(strings.NewReader(stream))
	require.True(errors.Is(err, ErrTerminatorMismatch), "wrong end tag")
	require.Equal("found 'endrandom-v2'", errors.Context(err))
	require.True(g.Equal(before))
}

func TestStreamMalformed(t *testing.T) {
	const valid = "random-v1 9 1 2 0 4294967295 0 18446744073709551615 0 1 endrandom-v1\n"

	_, err := Deserialize(strings.NewReader(valid))
	require.NoError(t, err, "baseline stream must parse")

	for _, tc := range []struct {
		name   string
		stream string
	}{
		{"NonNumericSeed", "random-v1 nine 1 2 0 4294967295 0 18446744073709551615 0 1 endrandom-v1\n"},
		{"ZeroSeed", "random-v1 0 1 2 0 4294967295 0 18446744073709551615 0 1 endrandom-v1\n"},
		{"NegativeEngine", "random-v1 9 -1 2 0 4294967295 0 18446744073709551615 0 1 endrandom-v1\n"},
		{"Uint32Overflow", "random-v1 9 1 2 0 4294967296 0 18446744073709551615 0 1 endrandom-v1\n"},
		{"Uint64Overflow", "random-v1 9 1 2 0 4294967295 0 18446744073709551616 0 1 endrandom-v1\n"},
		{"InvertedRange", "random-v1 9 1 2 5 4 0 18446744073709551615 0 1 endrandom-v1\n"},
		{"BadReal", "random-v1 9 1 2 0 4294967295 0 18446744073709551615 zero 1 endrandom-v1\n"},
		{"EmptyRealRange", "random-v1 9 1 2 0 4294967295 0 18446744073709551615 1 1 endrandom-v1\n"},
		{"InfiniteReal", "random-v1 9 1 2 0 4294967295 0 18446744073709551615 0 +Inf endrandom-v1\n"},
		{"Truncated", "random-v1 9 1 2 0 4294967295"},
		{"TokenTooLong", "random-v1 " + strings.Repeat("1", 100) + " 1 2 0 4294967295 0 18446744073709551615 0 1 endrandom-v1\n"},
	} {
		t.Run(tc.name, func(t *testing.T) {
			g := MustNew(3)
			before := g.Clone()

			err := g.Deserialize(strings.NewReader(tc.stream))
			require.True(t, errors.Is(err, ErrMalformedToken), "expected malformed token, got: %v", err)
			require.NotEmpty(t, errors.Context(err))
			require.True(t, g.Equal(before), "generator must be left unchanged")
		})
	}
}

func TestStreamNoReadAhead(t *testing.T) {
	require := require.New(t)

	a, b := MustNew(1), MustNew(2)
	drawMixed(b, 4)

	var buf bytes.Buffer
	require.NoError(a.Serialize(&buf))
	require.NoError(b.Serialize(&buf))
	buf.WriteString("trailer")

	// A plain io.Reader must not be read past the delimiter either.
	r := iotest.OneByteReader(bytes.NewReader(buf.Bytes()))
	for _, expected := range []*Generator{a, b} {
		g, err := Deserialize(r)
		require.NoError(err)
		require.True(expected.Equal(g))
	}

	rest := make([]byte, 16)
	n, _ := r.Read(rest)
	require.Equal("t", string(rest[:n]), "the payload after the second delimiter is untouched")

	// Same with a reader implementing io.ByteReader.
	for _, expected := range []*Generator{a, b} {
		g, err := Deserialize(&buf)
		require.NoError(err)
		require.True(expected.Equal(g))
	}
	require.Equal("trailer", buf.String())
}

func TestTextMarshaler(t *testing.T) {
	require := require.New(t)

	g := MustNew(77)
	drawMixed(g, 33)

	text, err := g.MarshalText()
	require.NoError(err)
	require.Equal(g.String(), string(text))

	var g2 Generator
	require.NoError(g2.UnmarshalText(text), "zero value generator can be restored")
	require.True(g.Equal(&g2))
	require.Equal(g.DrawReal64(), g2.DrawReal64())
}

func FuzzDeserialize(f *testing.F) {
	g := MustNew(42)
	f.Add(g.String())
	drawMixed(g, 9)
	f.Add(g.String() + "\n")
	f.Add("random-v1")
	f.Add("bogus-v1 1 2 3")

	f.Fuzz(func(t *testing.T, stream string) {
		g := MustNew(5)
		before := g.Clone()

		if err := g.Deserialize(strings.NewReader(stream)); err != nil {
			require.True(t, g.Equal(before), "failed restore must not mutate the generator")
			return
		}

		// Anything accepted must round-trip.
		g2, err := Deserialize(strings.NewReader(g.String()))
		require.NoError(t, err)
		require.True(t, g.Equal(g2))
	})
}
