package ranker

import (
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

type docTable struct {
	lengths map[int]int
	names   map[int]string
}

func (d docTable) DocLength(docID int) (int, bool) {
	l, ok := d.lengths[docID]
	return l, ok
}

func (d docTable) DocName(docID int) (string, bool) {
	n, ok := d.names[docID]
	return n, ok
}

func TestIDF(t *testing.T) {
	assert.InDelta(t, math.Log(4), IDF(8, 2), 1e-12)
	assert.Equal(t, 0.0, IDF(8, 0))
	assert.Equal(t, 0.0, IDF(0, 3))
}

func TestTfIdf(t *testing.T) {
	assert.InDelta(t, 2*(1+math.Log(3))/10, TfIdf(2, 3, 10), 1e-12)
	assert.Equal(t, 0.0, TfIdf(2, 3, 0))
	assert.Equal(t, 0.0, TfIdf(2, 0, 5))
}

func TestScorer_Score(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	docs := docTable{lengths: map[int]int{1: 4, 2: 8}}
	s := NewScorer(docs, m)

	pl := index.NewPostingList()
	pl.Insert(1, 0, 1)
	pl.Insert(2, 3, math.E)
	pl.Insert(3, 5, 1)

	idf := IDF(10, 3)
	out := s.Score("walk", 0.5, idf, pl, true)
	require.Equal(t, 3, out.Len())
	assert.InDelta(t, 0.5*idf/4, out.Get(0).Score, 1e-12)
	assert.InDelta(t, 0.5*idf*2/8, out.Get(1).Score, 1e-12)
	assert.Equal(t, 3, out.Get(1).Offset)
	assert.Equal(t, 0.0, out.Get(2).Score, "unknown length contributes nothing")

	assert.InDelta(t, idf/4, s.Table().TfIdf("walk", 1), 1e-12, "table holds unweighted score")
	assert.Equal(t, 0.0, s.Table().TfIdf("walk", 42))
	assert.Equal(t, 0.0, s.Table().TfIdf("other", 1))

	assert.Equal(t, math.E, pl.Get(1).Score, "input list untouched")
}

func TestScorer_ScoreWithoutRecording(t *testing.T) {
	s := NewScorer(docTable{lengths: map[int]int{1: 2}}, nil)
	pl := index.NewPostingList()
	pl.Insert(1, 0, 1)
	s.Score("a b", 1, 1, pl, false)
	assert.Equal(t, 0, s.Table().Len())
}

func TestApplyAuthority(t *testing.T) {
	docs := docTable{names: map[int]string{1: "Alpha", 2: "Beta"}}
	authority := map[string]float64{"Alpha": 0.25}

	results := index.NewPostingList()
	results.Insert(1, 0, 2)
	results.Insert(2, 0, 3)
	results.Insert(3, 0, 4)

	combined := ApplyAuthority(results, index.RankingCombination, docs, authority)
	assert.Equal(t, []float64{0.5, 0, 0}, scores(combined))

	pure := ApplyAuthority(results, index.RankingPageRank, docs, authority)
	assert.Equal(t, []float64{0.25, 0, 0}, scores(pure))

	same := ApplyAuthority(results, index.RankingTFIDF, docs, authority)
	assert.Equal(t, []float64{2, 3, 4}, scores(same))
}

func scores(pl *index.PostingList) []float64 {
	out := make([]float64, 0, pl.Len())
	for _, p := range pl.Postings() {
		out = append(out, p.Score)
	}
	return out
}
