package segment

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
)

func TestWriteAndReadTerm(t *testing.T) {
	dir := t.TempDir()
	idx := index.NewMemoryIndex()
	idx.Insert("search", 0, 3)
	idx.Insert("search", 2, 0)
	idx.Insert("engine", 2, 1)

	w := NewWriter(dir)
	n, err := w.WriteIndex(idx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	r := NewReader(dir)
	pl, err := r.ReadTerm("search")
	require.NoError(t, err)
	assert.Equal(t, []index.Posting{{DocID: 0, Offset: 3, Score: 1}, {DocID: 2, Offset: 0, Score: 1}}, pl.Postings())
}

func TestWriteIndex_AppendsAcrossFlushes(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir)

	first := index.NewMemoryIndex()
	first.Insert("term", 0, 0)
	_, err := w.WriteIndex(first)
	require.NoError(t, err)

	second := index.NewMemoryIndex()
	second.Insert("term", 1, 5)
	_, err = w.WriteIndex(second)
	require.NoError(t, err)

	pl, err := NewReader(dir).ReadTerm("term")
	require.NoError(t, err)
	require.Equal(t, 2, pl.Len())
	assert.Equal(t, 1, pl.Get(1).DocID)
}

func TestReadTerm_NotFound(t *testing.T) {
	_, err := NewReader(t.TempDir()).ReadTerm("absent")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReadTerm_SkipsMalformedLines(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(TermPath(dir, "x"), []byte("1 2\ngarbage\n3\n-1 4\n5 6\n"), 0644))

	pl, err := NewReader(dir).ReadTerm("x")
	require.NoError(t, err)
	assert.Equal(t, []index.Posting{{DocID: 1, Offset: 2, Score: 1}, {DocID: 5, Offset: 6, Score: 1}}, pl.Postings())
}

func TestTermPath_EscapesSeparators(t *testing.T) {
	dir := t.TempDir()
	idx := index.NewMemoryIndex()
	idx.Insert("a/b", 0, 0)
	_, err := NewWriter(dir).WriteIndex(idx)
	require.NoError(t, err)

	pl, err := NewReader(dir).ReadTerm("a/b")
	require.NoError(t, err)
	assert.Equal(t, 1, pl.Len())
}

func TestDocs_RoundTripNamesWithSpaces(t *testing.T) {
	dir := t.TempDir()
	docs := []DocMeta{{DocID: 0, Length: 12, Name: "Barack Obama"}, {DocID: 1, Length: 3, Name: "KTH"}}
	require.NoError(t, NewWriter(dir).WriteDocs(docs))

	got, err := NewReader(dir).ReadDocs()
	require.NoError(t, err)
	assert.Equal(t, docs, got)

	empty, err := NewReader(t.TempDir()).ReadDocs()
	require.NoError(t, err)
	assert.Empty(t, empty)
}
