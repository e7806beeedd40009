package persistent

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nupic-community/seedrand/common/random"
)

func newTestStore(t *testing.T) *CommonStore {
	common, err := NewCommonStore(context.Background(), t.TempDir(), Options{})
	require.NoError(t, err, "NewCommonStore")
	t.Cleanup(func() { _ = common.Close() })
	return common
}

func TestPersistent(t *testing.T) {
	common := newTestStore(t)

	svc, err := common.GetServiceStore("persistent_test")
	assert.NoError(t, err, "GetServiceStore")

	key := []byte("foo")
	val := "bar"

	err = svc.PutCBOR(key, &val)
	assert.NoError(t, err, "PutCBOR")

	var valOut string
	err = svc.GetCBOR(key, &valOut)
	assert.NoError(t, err, "GetCBOR")
	assert.Equal(t, val, valOut)

	nonexistentKey := []byte("baz")
	err = svc.GetCBOR(nonexistentKey, &valOut)
	assert.Equal(t, ErrNotFound, err, "GetCBOR(nonexistent)")

	err = svc.Delete(key)
	assert.NoError(t, err, "Delete")
	err = svc.Delete(key)
	assert.Equal(t, ErrNotFound, err, "Delete(deleted)")

	assert.Equal(t, ErrInvalidKey, svc.PutCBOR(nil, &val))
	_, err = common.GetServiceStore("a/b")
	assert.True(t, errors.Is(err, ErrInvalidKey))
}

func TestServiceStoreIsolation(t *testing.T) {
	require := require.New(t)

	common := newTestStore(t)
	a, err := common.GetServiceStore("a")
	require.NoError(err)
	b, err := common.GetServiceStore("b")
	require.NoError(err)

	v := uint64(1)
	require.NoError(a.PutCBOR([]byte("k1"), &v))
	require.NoError(a.PutCBOR([]byte("k2"), &v))
	require.NoError(b.PutCBOR([]byte("k3"), &v))

	keys, err := a.Keys()
	require.NoError(err)
	require.Equal([][]byte{[]byte("k1"), []byte("k2")}, keys)

	var out uint64
	require.Equal(ErrNotFound, b.GetCBOR([]byte("k1"), &out))
}

func TestCheckpointStore(t *testing.T) {
	require := require.New(t)

	common := newTestStore(t)
	store, err := NewCheckpointStore(common)
	require.NoError(err)

	saves := testutil.ToFloat64(checkpointOps.WithLabelValues("save", "ok"))

	g := random.MustNew(42)
	for i := 0; i < 25; i++ {
		g.DrawUint64()
	}
	require.NoError(store.Save("epoch-0001", g))
	require.NoError(store.Save("epoch-0000", random.MustNew(1)))
	require.Equal(saves+2, testutil.ToFloat64(checkpointOps.WithLabelValues("save", "ok")))

	names, err := store.List()
	require.NoError(err)
	require.Equal([]string{"epoch-0000", "epoch-0001"}, names)

	restored, err := store.Load("epoch-0001")
	require.NoError(err)
	require.True(g.Equal(restored), "checkpoint restores the exact state")
	require.Equal(g.DrawReal64(), restored.DrawReal64())

	require.NoError(store.Remove("epoch-0001"))
	_, err = store.Load("epoch-0001")
	require.True(errors.Is(err, ErrNotFound))
	require.True(errors.Is(store.Remove("epoch-0001"), ErrNotFound))

	err = store.Create("epoch-0000", g)
	require.True(errors.Is(err, ErrExists), "Create refuses an existing name")
	restored, err = store.Load("epoch-0000")
	require.NoError(err)
	require.EqualValues(1, restored.Seed(), "the existing checkpoint is untouched")

	require.NoError(store.Create("epoch-0002", g))
	restored, err = store.Load("epoch-0002")
	require.NoError(err)
	require.True(g.Equal(restored))
}

func TestReopen(t *testing.T) {
	require := require.New(t)

	dir := t.TempDir()
	common, err := NewCommonStore(context.Background(), dir, Options{SyncWrites: true})
	require.NoError(err)
	store, err := NewCheckpointStore(common)
	require.NoError(err)

	g := random.MustNew(8)
	require.NoError(store.Save("root", g))
	require.NoError(CloseAll(common, nil))

	common, err = NewCommonStore(context.Background(), dir, Options{})
	require.NoError(err)
	defer common.Close()
	store, err = NewCheckpointStore(common)
	require.NoError(err)

	restored, err := store.Load("root")
	require.NoError(err)
	require.True(g.Equal(restored))
}

func TestInMemory(t *testing.T) {
	common, err := NewCommonStore(context.Background(), "", Options{InMemory: true})
	require.NoError(t, err)
	defer common.Close()

	svc, err := common.GetServiceStore("mem")
	require.NoError(t, err)
	v := "x"
	require.NoError(t, svc.PutCBOR([]byte("k"), &v))
}
