// Package ranker computes tf-idf contributions for ranked retrieval, keeps
// the per-term per-document table relevance feedback reads from, and folds
// link authority into final scores.
package ranker

import (
	"log/slog"
	"math"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// DocLengths reports the token length of a document.
type DocLengths interface {
	DocLength(docID int) (int, bool)
}

// DocNames maps a document id to the title authority scores are keyed by.
type DocNames interface {
	DocName(docID int) (string, bool)
}

// IDF returns ln(total/df), or 0 when either count is not positive.
func IDF(total, df int) float64 {
	if total <= 0 || df <= 0 {
		return 0
	}
	return math.Log(float64(total) / float64(df))
}

// TfIdf is idf * (1 + ln tf) / length. Non-positive tf or length score 0.
func TfIdf(idf, tf float64, length int) float64 {
	if tf <= 0 || length <= 0 {
		return 0
	}
	return idf * (1 + math.Log(tf)) / float64(length)
}

// TfIdfTable records unweighted tf-idf scores per term and document.
type TfIdfTable struct {
	scores map[string]map[int]float64
}

func NewTfIdfTable() *TfIdfTable {
	return &TfIdfTable{scores: make(map[string]map[int]float64)}
}

func (t *TfIdfTable) Set(term string, docID int, score float64) {
	docs, ok := t.scores[term]
	if !ok {
		docs = make(map[int]float64)
		t.scores[term] = docs
	}
	docs[docID] = score
}

// TfIdf returns the recorded score, or 0 for an unscored pair.
func (t *TfIdfTable) TfIdf(term string, docID int) float64 {
	return t.scores[term][docID]
}

func (t *TfIdfTable) Len() int {
	return len(t.scores)
}

func (t *TfIdfTable) Reset() {
	t.scores = make(map[string]map[int]float64)
}

// Scorer turns deduplicated postings, whose scores hold raw term counts,
// into tf-idf contributions.
type Scorer struct {
	lengths DocLengths
	table   *TfIdfTable
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewScorer(lengths DocLengths, m *metrics.Metrics) *Scorer {
	return &Scorer{
		lengths: lengths,
		table:   NewTfIdfTable(),
		metrics: m,
		logger:  slog.Default().With("component", "ranker"),
	}
}

func (s *Scorer) Table() *TfIdfTable {
	return s.table
}

// Score returns a new list with each posting's score replaced by
// weight * idf * (1 + ln tf) / length. A document without a known positive
// length contributes 0. When record is set, the unweighted score is stored
// under key for feedback.
func (s *Scorer) Score(key string, weight, idf float64, postings *index.PostingList, record bool) *index.PostingList {
	out := index.NewPostingList()
	for _, p := range postings.Postings() {
		length, ok := s.lengths.DocLength(p.DocID)
		if !ok || length <= 0 {
			s.metrics.ObserveMissingDocLength()
			s.logger.Warn("document length unavailable, scoring zero",
				"term", key,
				"doc_id", p.DocID,
			)
			length = 0
		}
		score := TfIdf(idf, p.Score, length)
		if record {
			s.table.Set(key, p.DocID, score)
		}
		out.Insert(p.DocID, p.Offset, weight*score)
	}
	return out
}

// ApplyAuthority folds authority scores into results. Combination
// multiplies each score by the document's authority, PageRank replaces it.
// Documents without a name or a score get authority 0. TF-IDF ranking
// returns results untouched.
func ApplyAuthority(results *index.PostingList, ranking index.Ranking, names DocNames, authority map[string]float64) *index.PostingList {
	if ranking == index.RankingTFIDF {
		return results
	}
	out := index.NewPostingList()
	for _, p := range results.Postings() {
		var a float64
		if name, ok := names.DocName(p.DocID); ok {
			a = authority[name]
		}
		score := a
		if ranking == index.RankingCombination {
			score = p.Score * a
		}
		out.Insert(p.DocID, p.Offset, score)
	}
	return out
}
