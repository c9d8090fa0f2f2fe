package authclient

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	s := NewMemoryStorage()

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	s.Delete("k")
	_, ok = s.Get("k")
	assert.False(t, ok)

	// Deleting an absent key is a no-op.
	s.Delete("k")
}

func TestFileStorage_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s := NewFileStorage(path)

	_, ok := s.Get("missing")
	assert.False(t, ok)

	require.NoError(t, s.Set("accessToken", "abc"))
	require.NoError(t, s.Set("user", `{"id":"u1"}`))

	v, ok := s.Get("accessToken")
	assert.True(t, ok)
	assert.Equal(t, "abc", v)

	// A fresh handle over the same path sees persisted values.
	reopened := NewFileStorage(path)
	v, ok = reopened.Get("user")
	assert.True(t, ok)
	assert.Equal(t, `{"id":"u1"}`, v)

	reopened.Delete("accessToken")
	_, ok = s.Get("accessToken")
	assert.False(t, ok)
}

func TestFileStorage_CorruptFileReadsAsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o600))

	s := NewFileStorage(path)
	_, ok := s.Get("accessToken")
	assert.False(t, ok)

	// A write recovers the file.
	require.NoError(t, s.Set("k", "v"))
	v, ok := s.Get("k")
	assert.True(t, ok)
	assert.Equal(t, "v", v)
}

func TestFileStorage_FilePermissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s := NewFileStorage(path)
	require.NoError(t, s.Set("k", "v"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
