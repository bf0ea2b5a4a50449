package ingestion

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCorpus(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("Search engines rank pages"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("Graphs of links"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".hidden"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	docs, err := LoadCorpus(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, 0, docs[0].DocID)
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, 1, docs[1].DocID)
	assert.Equal(t, "b", docs[1].Name)
	assert.NotEmpty(t, docs[1].Tokens)
}

func TestLoadCorpus_MissingDir(t *testing.T) {
	_, err := LoadCorpus(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}
