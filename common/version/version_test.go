package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU64(t *testing.T) {
	v := Version{Major: 300, Minor: 2, Patch: 1}
	require.Equal(t, v, FromU64(v.ToU64()))
	require.Equal(t, "300.2.1", v.String())
	require.EqualValues(t, 1<<32, SnapshotFormat.ToU64())
}
