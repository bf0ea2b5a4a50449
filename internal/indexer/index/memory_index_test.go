package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_Insert(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Insert("quick", 0, 0)
	idx.Insert("brown", 0, 1)
	idx.Insert("quick", 1, 4)

	pl, ok := idx.GetPostings("quick")
	require.True(t, ok)
	require.Equal(t, 2, pl.Len())
	assert.Equal(t, Posting{DocID: 0, Offset: 0, Score: 1}, pl.Get(0))
	assert.Equal(t, Posting{DocID: 1, Offset: 4, Score: 1}, pl.Get(1))

	assert.Equal(t, []string{"brown", "quick"}, idx.Terms())
	assert.Equal(t, 2, idx.Len())
	assert.Equal(t, 3, idx.PostingCount())
}

func TestMemoryIndex_GetPostings_NotFound(t *testing.T) {
	idx := NewMemoryIndex()
	pl, ok := idx.GetPostings("missing")
	assert.False(t, ok)
	assert.Nil(t, pl)
}

func TestMemoryIndex_Reset(t *testing.T) {
	idx := NewMemoryIndex()
	idx.Insert("a", 0, 0)
	idx.Reset()

	_, ok := idx.GetPostings("a")
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, 0, idx.PostingCount())
}

func TestBiwordIndex_Session(t *testing.T) {
	bi := NewBiwordIndex()
	s := bi.NewSession()
	for offset, term := range []string{"new", "york", "times"} {
		s.Insert(term, 0, offset)
	}
	for offset, term := range []string{"york", "new", "york"} {
		s.Insert(term, 1, offset)
	}

	pl, ok := bi.GetPostings("new", "york")
	require.True(t, ok)
	require.Equal(t, 2, pl.Len())
	assert.Equal(t, Posting{DocID: 0, Offset: 1, Score: 1}, pl.Get(0))
	assert.Equal(t, Posting{DocID: 1, Offset: 2, Score: 1}, pl.Get(1))

	_, ok = bi.GetPostings("times", "york")
	assert.False(t, ok, "a document's first token never pairs with the previous document")

	_, ok = bi.GetPostings("york", "new")
	assert.True(t, ok)
	assert.Equal(t, 3, bi.NumBigrams())
}

func TestBiwordIndex_IndependentSessions(t *testing.T) {
	bi := NewBiwordIndex()
	first := bi.NewSession()
	second := bi.NewSession()

	first.Insert("alpha", 0, 0)
	second.Insert("gamma", 1, 0)
	first.Insert("beta", 0, 1)
	second.Insert("delta", 1, 1)

	_, ok := bi.GetPostings("alpha", "beta")
	assert.True(t, ok)
	_, ok = bi.GetPostings("gamma", "delta")
	assert.True(t, ok)
	_, ok = bi.GetPostings("gamma", "beta")
	assert.False(t, ok)
	assert.Equal(t, 2, bi.NumBigrams())
}

func TestBiwordIndex_NotFound(t *testing.T) {
	bi := NewBiwordIndex()
	bi.NewSession().Insert("solo", 0, 0)

	_, ok := bi.GetPostings("solo", "other")
	assert.False(t, ok)
	_, ok = bi.GetPostings("other", "solo")
	assert.False(t, ok)

	bi.Reset()
	assert.Equal(t, 0, bi.NumBigrams())
}

func TestParseModes(t *testing.T) {
	r, err := ParseRanking("Combination")
	require.NoError(t, err)
	assert.Equal(t, RankingCombination, r)

	s, err := ParseStructure("biword")
	require.NoError(t, err)
	assert.Equal(t, StructureBigram, s)

	_, err = ParseRanking("bm25")
	assert.Error(t, err)
	_, err = ParseStructure("trigram")
	assert.Error(t, err)
}

func BenchmarkMemoryIndexInsert(b *testing.B) {
	idx := NewMemoryIndex()
	terms := make([]string, 64)
	for i := range terms {
		terms[i] = fmt.Sprintf("term-%d", i)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Insert(terms[i%len(terms)], i/100, i%100)
	}
}
