package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Names []string `json:"names"`
	Count int      `json:"count"`
}

func TestJSONFile_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	f, err := NewJSONFile[doc](dir, "doc.json")
	require.NoError(t, err)

	_, ok, err := f.Load()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, f.Exists())

	require.NoError(t, f.Save(doc{Names: []string{"a", "b"}, Count: 2}))
	assert.True(t, f.Exists())

	got, ok, err := f.Load()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, doc{Names: []string{"a", "b"}, Count: 2}, got)

	_, err = os.Stat(f.Path() + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file must not survive a save")
}

func TestJSONFile_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "doc.json"), []byte("{not json"), 0o644))

	f, err := NewJSONFile[doc](dir, "doc.json")
	require.NoError(t, err)

	_, ok, err := f.Load()
	assert.Error(t, err)
	assert.False(t, ok)
}
