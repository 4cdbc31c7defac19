package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set("students_teacher1", `[{"id":"1"}]`))
	value, err := store.Get("students_teacher1")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, value)

	require.NoError(t, store.Delete("students_teacher1"))
	_, err = store.Get("students_teacher1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreReloadsPersistedData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set("currentUser", `{"username":"teacher1"}`))

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	value, err := reopened.Get("currentUser")
	require.NoError(t, err)
	assert.Equal(t, `{"username":"teacher1"}`, value)
}

func TestFileStoreDeleteMissingKeyIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vault.json")
	store, err := NewFileStore(path)
	require.NoError(t, err)

	assert.NoError(t, store.Delete("never-set"))
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("k", "v"))
	value, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)

	require.NoError(t, store.Delete("k"))
	_, err = store.Get("k")
	assert.ErrorIs(t, err, ErrNotFound)
}
