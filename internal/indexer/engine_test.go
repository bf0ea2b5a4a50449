package indexer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

func newTestEngine(t *testing.T, fileBacked bool) (*Engine, string) {
	t.Helper()
	dir := t.TempDir()
	e, err := NewEngine(config.IndexConfig{DataDir: dir, FileBacked: fileBacked}, metrics.New(prometheus.NewRegistry()))
	require.NoError(t, err)
	return e, dir
}

func TestEngine_IndexDocument(t *testing.T) {
	e, _ := newTestEngine(t, false)
	e.IndexDocument(0, "Doc A", tokenizer.Tokenize("distributed search engine"))
	e.IndexDocument(1, "Doc B", tokenizer.Tokenize("search ranking"))

	pl, ok := e.GetPostings("search")
	require.True(t, ok)
	assert.Equal(t, 2, pl.Len())

	bi, ok := e.GetBigramPostings("search", "engin")
	require.True(t, ok)
	assert.Equal(t, 1, bi.Len())

	_, ok = e.GetBigramPostings("engin", "search")
	assert.False(t, ok)

	assert.Equal(t, 2, e.NumDocuments())
	length, ok := e.DocLength(0)
	require.True(t, ok)
	assert.Equal(t, 3, length)
	name, ok := e.DocName(1)
	require.True(t, ok)
	assert.Equal(t, "Doc B", name)

	_, ok = e.DocLength(7)
	assert.False(t, ok)
}

func TestEngine_InsertCountsDocuments(t *testing.T) {
	e, _ := newTestEngine(t, false)
	e.Insert("a", 0, 0)
	e.Insert("b", 0, 1)
	e.Insert("a", 3, 0)
	assert.Equal(t, 2, e.NumDocuments())
	assert.Equal(t, 1, e.NumBigrams())
}

func TestEngine_FlushServesFromDisk(t *testing.T) {
	e, dir := newTestEngine(t, false)
	e.IndexDocument(0, "first", tokenizer.Tokenize("graph ranking"))
	require.NoError(t, e.Flush())

	e.IndexDocument(1, "second", tokenizer.Tokenize("graph walks"))
	pl, ok := e.GetPostings("graph")
	require.True(t, ok)
	assert.Equal(t, 2, pl.Len(), "flushed and unflushed postings are merged")

	require.NoError(t, e.Flush())

	reopened, err := NewEngine(config.IndexConfig{DataDir: dir, FileBacked: true}, nil)
	require.NoError(t, err)
	pl, ok = reopened.GetPostings("graph")
	require.True(t, ok)
	assert.Equal(t, 2, pl.Len())
	assert.Equal(t, 2, reopened.NumDocuments())
	name, ok := reopened.DocName(1)
	require.True(t, ok)
	assert.Equal(t, "second", name)

	_, ok = reopened.GetPostings("missing")
	assert.False(t, ok)
}

func TestEngine_Reset(t *testing.T) {
	e, _ := newTestEngine(t, false)
	e.IndexDocument(0, "doc", tokenizer.Tokenize("alpha beta"))
	e.Reset()

	_, ok := e.GetPostings("alpha")
	assert.False(t, ok)
	_, ok = e.GetBigramPostings("alpha", "beta")
	assert.False(t, ok)
	assert.Equal(t, 0, e.NumDocuments())
}

func TestNewEngine_FileBackedMissingDir(t *testing.T) {
	e, err := NewEngine(config.IndexConfig{DataDir: t.TempDir() + "/nope", FileBacked: true}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, e.NumDocuments())
}

func TestEngine_ConcurrentFeedAndRead(t *testing.T) {
	e, _ := newTestEngine(t, false)
	const docs = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < docs; i++ {
			e.IndexDocument(i, fmt.Sprintf("doc-%d", i), tokenizer.Tokenize("graph ranking walks"))
		}
	}()

	last := 0
	for last < docs {
		n := e.NumDocuments()
		assert.GreaterOrEqual(t, n, last, "document count never shrinks")
		last = n
		_, _ = e.DocLength(n / 2)
		_, _ = e.DocName(n / 2)
		_, _ = e.GetPostings("graph")
		_ = e.NumBigrams()
	}
	wg.Wait()
	assert.Equal(t, docs, e.NumDocuments())
}

func TestEngine_GenerationAdvancesOnWrite(t *testing.T) {
	e, _ := newTestEngine(t, false)
	assert.Equal(t, uint64(0), e.Generation())

	require.NoError(t, e.Flush())
	assert.Equal(t, uint64(0), e.Generation(), "empty flush writes nothing")

	e.IndexDocument(0, "doc", tokenizer.Tokenize("alpha beta"))
	require.NoError(t, e.Flush())
	assert.Equal(t, uint64(1), e.Generation())

	require.NoError(t, e.Flush())
	assert.Equal(t, uint64(1), e.Generation())
}
