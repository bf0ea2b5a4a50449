package query

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
)

type tableLookup map[string]map[int]float64

func (t tableLookup) TfIdf(term string, docID int) float64 {
	return t[term][docID]
}

func TestNew(t *testing.T) {
	q := New("  search   engine ranking ")
	assert.Equal(t, []string{"search", "engine", "ranking"}, q.Terms)
	assert.Equal(t, []float64{1, 1, 1}, q.Weights)
	assert.Equal(t, 3, q.Size())

	empty := New("   ")
	assert.Equal(t, 0, empty.Size())
}

func TestCopy_IsDeep(t *testing.T) {
	q := New("a b")
	c := q.Copy()
	c.Terms[0] = "z"
	c.Weights[1] = 7
	assert.Equal(t, "a", q.Terms[0])
	assert.Equal(t, 1.0, q.Weights[1])
}

func TestNormalize(t *testing.T) {
	q := &Query{Terms: []string{"a", "b"}, Weights: []float64{3, 4}}
	q.Normalize()
	if diff := cmp.Diff([]float64{0.6, 0.8}, q.Weights, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("weights mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	q := &Query{Terms: []string{"a"}, Weights: []float64{0}}
	q.Normalize()
	assert.Equal(t, []float64{0}, q.Weights)
}

func TestRelevanceFeedback(t *testing.T) {
	q := New("graph walk")
	results := index.NewPostingList()
	results.Insert(4, 0, 0.9)
	results.Insert(7, 0, 0.5)
	results.Insert(9, 0, 0.1)

	lookup := tableLookup{
		"graph": {4: 0.4, 7: 0.2, 9: 5},
	}
	fb := q.RelevanceFeedback(results, []bool{true, true, false, true}, lookup)
	require.Equal(t, []string{"graph", "walk"}, fb.Terms)

	// graph: 0.5 + 0.5*(0.4+0.2)/2 = 0.65, walk: 0.5 (absent from relevant docs)
	norm := math.Sqrt(0.65*0.65 + 0.5*0.5)
	assert.InDelta(t, 0.65/norm, fb.Weights[0], 1e-12)
	assert.InDelta(t, 0.5/norm, fb.Weights[1], 1e-12)

	assert.Equal(t, []float64{1, 1}, q.Weights, "original query untouched")
}

func TestRelevanceFeedback_NeverNegative(t *testing.T) {
	q := &Query{Terms: []string{"a", "b", "c"}, Weights: []float64{1, 0.2, 0.7}}
	results := index.NewPostingList()
	results.Insert(1, 0, 1)
	results.Insert(2, 0, 1)
	lookup := tableLookup{"a": {1: 3, 2: 1}}

	fb := q.RelevanceFeedback(results, []bool{true, true}, lookup)
	for i, w := range fb.Weights {
		assert.GreaterOrEqual(t, w, 0.0, fb.Terms[i])
	}
	// terms absent from every relevant document keep their alpha-scaled ratio
	assert.InDelta(t, 0.2/0.7, fb.Weights[1]/fb.Weights[2], 1e-12)
}

func TestRelevanceFeedback_NoRelevantDocs(t *testing.T) {
	q := &Query{Terms: []string{"a", "b"}, Weights: []float64{3, 4}}
	results := index.NewPostingList()
	results.Insert(1, 0, 1)

	fb := q.RelevanceFeedback(results, []bool{false}, tableLookup{})
	assert.InDeltaSlice(t, []float64{0.6, 0.8}, fb.Weights, 1e-12)
}

func TestRelevanceFeedback_MergesDuplicateTerms(t *testing.T) {
	q := New("rank graph rank")
	fb := q.RelevanceFeedback(index.NewPostingList(), nil, tableLookup{})
	require.Equal(t, []string{"rank", "graph"}, fb.Terms)
	norm := math.Sqrt(1 + 0.25)
	assert.InDeltaSlice(t, []float64{1 / norm, 0.5 / norm}, fb.Weights, 1e-12)
}

func TestRelevanceFeedback_NilLookup(t *testing.T) {
	q := New("a b")
	results := index.NewPostingList()
	results.Insert(1, 0, 1)
	fb := q.RelevanceFeedback(results, []bool{true}, nil)
	assert.Equal(t, q.Terms, fb.Terms)
	assert.Equal(t, q.Weights, fb.Weights)
	fb.Weights[0] = 3
	assert.Equal(t, 1.0, q.Weights[0])
}
