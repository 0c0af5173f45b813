package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tokenRecord struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(t.TempDir())
	saved := tokenRecord{AccessToken: "abc", RefreshToken: "def"}

	require.NoError(t, store.Save("reporting", saved))

	var loaded tokenRecord
	require.NoError(t, store.Load("reporting", &loaded))
	assert.Equal(t, saved, loaded)
}

func TestTokenStore_LoadMissingKey(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(t.TempDir())

	var loaded tokenRecord
	err := store.Load("analytics", &loaded)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenStore_KeysAreIsolated(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(t.TempDir())
	require.NoError(t, store.Save("analytics", tokenRecord{AccessToken: "a"}))
	require.NoError(t, store.Save("reporting", tokenRecord{AccessToken: "r"}))

	var analytics, reporting tokenRecord
	require.NoError(t, store.Load("analytics", &analytics))
	require.NoError(t, store.Load("reporting", &reporting))
	assert.Equal(t, "a", analytics.AccessToken)
	assert.Equal(t, "r", reporting.AccessToken)
}

func TestTokenStore_CorruptEntry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store := NewTokenStore(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "token_reporting.json"), []byte("{not json"), 0600))

	var loaded tokenRecord
	err := store.Load("reporting", &loaded)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestTokenStore_SaveOverwrites(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(t.TempDir())
	require.NoError(t, store.Save("reporting", tokenRecord{AccessToken: "old"}))
	require.NoError(t, store.Save("reporting", tokenRecord{AccessToken: "new"}))

	var loaded tokenRecord
	require.NoError(t, store.Load("reporting", &loaded))
	assert.Equal(t, "new", loaded.AccessToken)
}

func TestTokenStore_Delete(t *testing.T) {
	t.Parallel()

	store := NewTokenStore(t.TempDir())
	require.NoError(t, store.Save("reporting", tokenRecord{AccessToken: "abc"}))
	require.NoError(t, store.Delete("reporting"))

	var loaded tokenRecord
	assert.ErrorIs(t, store.Load("reporting", &loaded), ErrNotFound)

	// Deleting a missing key is not an error.
	assert.NoError(t, store.Delete("reporting"))
}

func TestWriteFile_Atomic(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "out", "report.csv")
	require.NoError(t, WriteFile(path, []byte("a,b\n1,2\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2\n", string(data))

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
