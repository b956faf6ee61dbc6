package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestPutAndGet(t *testing.T) {
	store := openTestStore(t)

	_, found := store.Get("missing")
	assert.False(t, found)

	require.NoError(t, store.Put("key", []byte("body")))
	body, found := store.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("body"), body)
}

func TestPutReplacesExistingEntry(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("key", []byte("old")))
	require.NoError(t, store.Put("key", []byte("new")))

	body, found := store.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("new"), body)
}

func TestClear(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("key", []byte("body")))
	require.NoError(t, store.Clear())

	_, found := store.Get("key")
	assert.False(t, found)
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("key", []byte("body")))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	body, found := reopened.Get("key")
	require.True(t, found)
	assert.Equal(t, []byte("body"), body)
}
