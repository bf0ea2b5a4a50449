// Package query holds the weighted term vector a search is evaluated with
// and the Rocchio relevance feedback that rewrites it.
package query

import (
	"math"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
)

// Rocchio coefficients for the original query and the relevant centroid.
const (
	Alpha = 0.5
	Beta  = 0.5
)

// TfIdfLookup returns the unweighted tf-idf of term in docID as recorded by
// the last ranked evaluation, or 0 when the pair was not scored.
type TfIdfLookup interface {
	TfIdf(term string, docID int) float64
}

// Query is a list of terms with aligned weights.
type Query struct {
	Terms   []string
	Weights []float64
}

// New splits raw on whitespace and gives every term weight 1.
func New(raw string) *Query {
	return FromTerms(strings.Fields(raw))
}

func FromTerms(terms []string) *Query {
	q := &Query{
		Terms:   make([]string, len(terms)),
		Weights: make([]float64, len(terms)),
	}
	copy(q.Terms, terms)
	for i := range q.Weights {
		q.Weights[i] = 1.0
	}
	return q
}

func (q *Query) Size() int {
	return len(q.Terms)
}

func (q *Query) String() string {
	return strings.Join(q.Terms, " ")
}

func (q *Query) Copy() *Query {
	c := &Query{
		Terms:   make([]string, len(q.Terms)),
		Weights: make([]float64, len(q.Weights)),
	}
	copy(c.Terms, q.Terms)
	copy(c.Weights, q.Weights)
	return c
}

// Normalize scales the weights to unit L2 length. A zero vector is left
// unchanged.
func (q *Query) Normalize() {
	var sum float64
	for _, w := range q.Weights {
		sum += w * w
	}
	if sum == 0 {
		return
	}
	norm := math.Sqrt(sum)
	for i := range q.Weights {
		q.Weights[i] /= norm
	}
}

// RelevanceFeedback returns a new query moved towards the documents flagged
// relevant. relevant[i] refers to results.Get(i); flags past the end of the
// result list are ignored. Repeated terms are folded into their first
// occurrence. With a nil lookup the query is returned unchanged.
func (q *Query) RelevanceFeedback(results *index.PostingList, relevant []bool, lookup TfIdfLookup) *Query {
	if lookup == nil {
		return q.Copy()
	}

	out := &Query{}
	slot := make(map[string]int, len(q.Terms))
	for i, term := range q.Terms {
		if j, ok := slot[term]; ok {
			out.Weights[j] += Alpha * q.Weights[i]
			continue
		}
		slot[term] = len(out.Terms)
		out.Terms = append(out.Terms, term)
		out.Weights = append(out.Weights, Alpha*q.Weights[i])
	}

	n := min(results.Len(), len(relevant))
	var docs []int
	for i := 0; i < n; i++ {
		if relevant[i] {
			docs = append(docs, results.Get(i).DocID)
		}
	}
	if len(docs) > 0 {
		share := Beta / float64(len(docs))
		for _, docID := range docs {
			for i, term := range out.Terms {
				if score := lookup.TfIdf(term, docID); score > 0 {
					out.Weights[i] += share * score
				}
			}
		}
	}

	out.Normalize()
	return out
}
