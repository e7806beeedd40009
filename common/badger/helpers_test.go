package badger

import (
	"bytes"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/logging"
)

func TestLogAdapter(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewLogAdapter(logging.NewJSONLogger(&buf))
	adapter.Warningf("value log %d rotated\n", 3)
	require.Contains(t, buf.String(), `"msg":"value log 3 rotated"`)
}

func TestGCWorker(t *testing.T) {
	require := require.New(t)

	opts := badger.DefaultOptions(t.TempDir()).WithLogger(NewLogAdapter(logging.NewNopLogger()))
	db, err := badger.Open(opts)
	require.NoError(err)
	defer db.Close()

	gc := NewGCWorker(logging.NewNopLogger(), db, 10*time.Millisecond)
	require.Equal(10*time.Millisecond, gc.interval)
	require.NoError(gc.runOnce(), "nothing to collect")

	time.Sleep(30 * time.Millisecond)
	gc.Close()
	gc.Close()

	gc = NewGCWorker(logging.NewNopLogger(), db, 0)
	defer gc.Close()
	require.Equal(DefaultGCInterval, gc.interval)
}
