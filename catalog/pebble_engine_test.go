package catalog

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/cockroachdb/pebble/vfs"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/superblob/errs"
)

func collect(t *testing.T, e Engine, lower, upper []byte) []string {
	t.Helper()

	cur, err := e.NewCursor(lower, upper)
	require.NoError(t, err)
	defer cur.Close()

	var keys []string
	for cur.Next() {
		keys = append(keys, string(cur.Key()))
	}
	require.NoError(t, cur.Err())

	return keys
}

func TestPebbleEngine_InsertFetch(t *testing.T) {
	e, err := NewMemPebbleEngine()
	require.NoError(t, err)
	defer e.Close()

	_, err = e.Fetch([]byte("missing"))
	require.ErrorIs(t, err, errs.ErrNotFound)

	key := []byte("k1")
	value := []byte("v1")
	require.NoError(t, e.Insert(Entry{Key: key, Value: value}, Entry{Key: []byte("k2"), Value: []byte("v2")}))

	// the engine must not retain caller buffers
	value[0] = 'x'

	got, err := e.Fetch(key)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), got)

	got[0] = 'y'
	again, err := e.Fetch(key)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), again)

	require.NoError(t, e.Insert(Entry{Key: key, Value: []byte("v3")}))
	got, err = e.Fetch(key)
	require.NoError(t, err)
	require.Equal(t, []byte("v3"), got)
}

func TestPebbleEngine_Cursor(t *testing.T) {
	e, err := NewMemPebbleEngine()
	require.NoError(t, err)
	defer e.Close()

	for _, k := range []string{"a", "b1", "b2", "c", "d"} {
		require.NoError(t, e.Insert(Entry{Key: []byte(k), Value: []byte(k)}))
	}

	require.Equal(t, []string{"b1", "b2", "c"}, collect(t, e, []byte("b"), []byte("d")))
	require.Equal(t, []string{"c", "d"}, collect(t, e, []byte("c"), nil))
	require.Empty(t, collect(t, e, []byte("x"), []byte("z")))

	cur, err := e.NewCursor([]byte("a"), []byte("b"))
	require.NoError(t, err)
	require.True(t, cur.Next())
	require.Equal(t, []byte("a"), cur.Value())
	require.False(t, cur.Next())
	require.NoError(t, cur.Close())
}

func TestPebbleEngine_Persistence(t *testing.T) {
	fs := vfs.NewMem()

	e, err := NewPebbleEngine("db", WithFS(fs))
	require.NoError(t, err)
	require.NoError(t, e.Insert(Entry{Key: []byte("k"), Value: []byte("v")}))
	require.NoError(t, e.Flush())
	require.NoError(t, e.Close())

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	e, err = NewPebbleEngine("db", WithFS(fs), WithReadOnly(), WithEngineLogger(logger))
	require.NoError(t, err)
	defer e.Close()

	got, err := e.Fetch([]byte("k"))
	require.NoError(t, err)
	require.Equal(t, []byte("v"), got)

	require.Error(t, e.Insert(Entry{Key: []byte("k2"), Value: []byte("v")}), "read-only engine rejects writes")
}

func TestPebbleEngine_Options(t *testing.T) {
	_, err := NewPebbleEngine("db", WithFS(nil))
	require.Error(t, err)
	require.Contains(t, err.Error(), "WithFS")
}
