package state

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/random"
	cmdFlags "github.com/nupic-community/seedrand/seedrand/cmd/common/flags"
)

func TestStateFileRoundTrip(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "gen.state")
	g := random.MustNew(42)
	require.NoError(Skip(g, cmdFlags.KindUint64, 10))
	require.NoError(WriteStateFile(path, g))

	raw, err := os.ReadFile(path)
	require.NoError(err)
	require.True(strings.HasPrefix(string(raw), random.StreamVersion+" 42 "))
	require.True(strings.HasSuffix(string(raw), random.StreamTerminator+"\n"))

	restored, err := ReadStateFile(path)
	require.NoError(err)
	require.True(g.Equal(restored))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(err)
	require.Len(entries, 1, "no temporary files are left behind")
}

func TestReadStateFileErrors(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	_, err := ReadStateFile(filepath.Join(dir, "missing"))
	require.ErrorIs(err, os.ErrNotExist)

	path := filepath.Join(dir, "bad")
	require.NoError(os.WriteFile(path, []byte("random-v2 1 2 3\n"), 0o600))
	_, err = ReadStateFile(path)
	require.ErrorIs(err, random.ErrVersionMismatch)
}

func TestDraw(t *testing.T) {
	require := require.New(t)

	for _, kind := range []string{cmdFlags.KindUint32, cmdFlags.KindUint64, cmdFlags.KindReal} {
		var buf bytes.Buffer
		require.NoError(Draw(&buf, random.MustNew(5), kind, 4), kind)

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(lines, 4, kind)

		ref := random.MustNew(5)
		for _, line := range lines {
			switch kind {
			case cmdFlags.KindUint32:
				require.Equal(strconv.FormatUint(uint64(ref.DrawUint32()), 10), line)
			case cmdFlags.KindUint64:
				require.Equal(strconv.FormatUint(ref.DrawUint64(), 10), line)
			case cmdFlags.KindReal:
				v, err := strconv.ParseFloat(line, 64)
				require.NoError(err)
				require.Equal(ref.DrawReal64(), v)
			}
		}
	}

	require.Error(Draw(&bytes.Buffer{}, random.MustNew(5), "u8", 1))
}

func TestDrawResume(t *testing.T) {
	require := require.New(t)

	// Drawing 3 then resuming for 3 more matches 6 straight draws.
	path := filepath.Join(t.TempDir(), "resume.state")
	first := random.MustNew(9)
	var out bytes.Buffer
	require.NoError(Draw(&out, first, cmdFlags.KindUint64, 3))
	require.NoError(WriteStateFile(path, first))

	resumed, err := ReadStateFile(path)
	require.NoError(err)
	require.NoError(Draw(&out, resumed, cmdFlags.KindUint64, 3))

	var straight bytes.Buffer
	require.NoError(Draw(&straight, random.MustNew(9), cmdFlags.KindUint64, 6))
	require.Equal(straight.String(), out.String())
}

func TestInspect(t *testing.T) {
	require := require.New(t)

	g := random.MustNew(3)
	before := g.String()

	var buf bytes.Buffer
	require.NoError(Inspect(context.Background(), &buf, g, cmdFlags.FormatText, 2))
	require.Contains(buf.String(), "next[1]")
	require.Equal(before, g.String(), "inspect does not advance the generator")

	buf.Reset()
	require.NoError(Inspect(context.Background(), &buf, g, cmdFlags.FormatJSON, 2))
	var pg random.PrettyGenerator
	require.NoError(json.Unmarshal(buf.Bytes(), &pg))
	require.EqualValues(3, pg.Seed)
	c := g.Clone()
	require.Equal([]uint64{c.DrawUint64(), c.DrawUint64()}, pg.Preview)

	require.Error(Inspect(context.Background(), &buf, g, "xml", 0))
}

func TestDiff(t *testing.T) {
	require := require.New(t)

	a := random.MustNew(11)
	diff, err := Diff(a, a.Clone(), "a", "b")
	require.NoError(err)
	require.Empty(diff)

	b := a.Clone()
	b.DrawUint64()
	diff, err = Diff(a, b, "a.state", "b.state")
	require.NoError(err)
	require.Contains(diff, "--- a.state")
	require.Contains(diff, "+++ b.state")
	require.Contains(diff, "-engine.hi: ")
	require.Contains(diff, "+engine.hi: ")
	require.NotContains(diff, "-seed: ")
	require.Contains(diff, " seed: 11")
}

func TestCreateStateFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "gen.state")
	require.NoError(CreateStateFile(path, random.MustNew(1), false))

	err := CreateStateFile(path, random.MustNew(2), false)
	require.ErrorIs(err, os.ErrExist)
	require.Contains(err.Error(), "--force")

	g, err := ReadStateFile(path)
	require.NoError(err)
	require.EqualValues(1, g.Seed(), "the existing file is untouched")

	require.NoError(CreateStateFile(path, random.MustNew(2), true))
	g, err = ReadStateFile(path)
	require.NoError(err)
	require.EqualValues(2, g.Seed())
}

func TestPreviewCount(t *testing.T) {
	require.Equal(t, 0, previewCount(0, false))
	require.Equal(t, verbosePreview, previewCount(0, true))
	require.Equal(t, 3, previewCount(3, true), "an explicit count wins")
	require.Equal(t, 3, previewCount(3, false))
}
