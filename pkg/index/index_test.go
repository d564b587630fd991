package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexPersists(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewEventIndex(dir)
	require.NoError(t, err)

	idx.Set("row-a", "evt1")
	idx.Set("row-b", "evt2")
	idx.Remove("row-b")
	require.NoError(t, idx.Save())

	again, err := NewEventIndex(dir)
	require.NoError(t, err)
	assert.Equal(t, "evt1", again.Get("row-a"))
	assert.Empty(t, again.Get("row-b"))
	assert.Equal(t, []string{"row-a"}, again.Keys())
}

func TestSaveWithoutChangesWritesNothing(t *testing.T) {
	idx, err := NewEventIndex(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, idx.Save())
	assert.NoFileExists(t, idx.Path)
}

func TestKeysAreSorted(t *testing.T) {
	idx, err := NewEventIndex(t.TempDir())
	require.NoError(t, err)
	idx.Set("row-c", "evt3")
	idx.Set("row-a", "evt1")
	idx.Set("row-b", "evt2")
	assert.Equal(t, []string{"row-a", "row-b", "row-c"}, idx.Keys())
}

func TestCorruptIndexIsAnError(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "events.json"), []byte("{not json"), 0600))
	_, err := NewEventIndex(dir)
	assert.ErrorContains(t, err, "corrupt event index")
}

func TestSaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	idx, err := NewEventIndex(dir)
	require.NoError(t, err)
	idx.Set("row-a", "evt1")
	require.NoError(t, idx.Save())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "events.json", entries[0].Name())
}
