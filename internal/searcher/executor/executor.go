// Package executor evaluates intersection, phrase and ranked queries against
// the unigram and biword indexes.
package executor

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/query"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/ranker"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// DefaultChampionListSize bounds each term's postings in ranked retrieval.
const DefaultChampionListSize = 10

type QueryType int

const (
	QueryIntersection QueryType = iota
	QueryPhrase
	QueryRanked
)

func (q QueryType) String() string {
	switch q {
	case QueryIntersection:
		return "intersection"
	case QueryPhrase:
		return "phrase"
	case QueryRanked:
		return "ranked"
	default:
		return fmt.Sprintf("QueryType(%d)", int(q))
	}
}

func ParseQueryType(s string) (QueryType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "intersection":
		return QueryIntersection, nil
	case "phrase":
		return QueryPhrase, nil
	case "ranked":
		return QueryRanked, nil
	default:
		return 0, apperrors.Newf(apperrors.ErrInvalidInput, "executor.ParseQueryType", "unknown query type %q", s)
	}
}

// Source is the read side of a built index.
type Source interface {
	GetPostings(term string) (*index.PostingList, bool)
	GetBigramPostings(first, second string) (*index.PostingList, bool)
	NumDocuments() int
	NumBigrams() int
	DocLength(docID int) (int, bool)
	DocName(docID int) (string, bool)
}

type Options struct {
	QueryType     QueryType
	RankingType   index.Ranking
	StructureType index.Structure
}

// Executor runs queries against a Source. It is not safe for concurrent
// use: a ranked evaluation rewrites the tf-idf table feedback reads from.
type Executor struct {
	source    Source
	scorer    *ranker.Scorer
	authority map[string]float64
	champions int
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// New creates an Executor. championListSize < 0 selects the default and 0
// disables champion truncation.
func New(source Source, championListSize int, m *metrics.Metrics) *Executor {
	if championListSize < 0 {
		championListSize = DefaultChampionListSize
	}
	return &Executor{
		source:    source,
		scorer:    ranker.NewScorer(source, m),
		authority: make(map[string]float64),
		champions: championListSize,
		metrics:   m,
		logger:    slog.Default().With("component", "query-executor"),
	}
}

// SetAuthority installs the title to authority table used by PageRank and
// combination ranking.
func (e *Executor) SetAuthority(scores map[string]float64) {
	if scores == nil {
		scores = make(map[string]float64)
	}
	e.authority = scores
}

// FeedbackLookup returns the tf-idf table of the last ranked evaluation, or
// nil for the bigram structure, which records none.
func (e *Executor) FeedbackLookup(structure index.Structure) query.TfIdfLookup {
	if structure == index.StructureBigram {
		return nil
	}
	return e.scorer.Table()
}

// RelevanceFeedback rewrites q from the results flagged relevant.
func (e *Executor) RelevanceFeedback(q *query.Query, results *index.PostingList, relevant []bool, structure index.Structure) *query.Query {
	return q.RelevanceFeedback(results, relevant, e.FeedbackLookup(structure))
}

// Execute evaluates q. Terms missing from the index never fail a query:
// they empty intersection and phrase results and contribute nothing to
// ranked ones.
func (e *Executor) Execute(q *query.Query, opts Options) (*index.PostingList, error) {
	if q == nil {
		return nil, apperrors.New(apperrors.ErrInvalidInput, "executor.Execute", "nil query")
	}
	if len(q.Weights) != len(q.Terms) {
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, "executor.Execute",
			"query has %d terms but %d weights", len(q.Terms), len(q.Weights))
	}
	start := time.Now()
	var result *index.PostingList
	switch opts.QueryType {
	case QueryIntersection:
		result = e.intersection(q, opts.RankingType)
	case QueryPhrase:
		result = e.phrase(q, opts.RankingType)
	case QueryRanked:
		result = e.ranked(q, opts)
	default:
		return nil, apperrors.Newf(apperrors.ErrInvalidInput, "executor.Execute", "unknown query type %d", int(opts.QueryType))
	}
	elapsed := time.Since(start)
	e.metrics.ObserveQuery(opts.QueryType.String(), opts.RankingType.String(), opts.StructureType.String(), elapsed, result.Len())
	e.logger.Info("query executed",
		"query", q.String(),
		"query_type", opts.QueryType.String(),
		"ranking", opts.RankingType.String(),
		"structure", opts.StructureType.String(),
		"results", result.Len(),
		"elapsed", elapsed,
	)
	return result, nil
}

func (e *Executor) intersection(q *query.Query, ranking index.Ranking) *index.PostingList {
	if q.Size() == 0 {
		return index.NewPostingList()
	}
	result, ok := e.source.GetPostings(q.Terms[0])
	if !ok {
		return index.NewPostingList()
	}
	result = result.Clone()
	for _, term := range q.Terms[1:] {
		pl, _ := e.source.GetPostings(term)
		result.Intersect(pl)
		if result.Len() == 0 {
			break
		}
	}
	result.RemoveDuplicate(ranking)
	return result
}

func (e *Executor) phrase(q *query.Query, ranking index.Ranking) *index.PostingList {
	if q.Size() == 0 {
		return index.NewPostingList()
	}
	result, ok := e.source.GetPostings(q.Terms[0])
	if !ok {
		return index.NewPostingList()
	}
	result = result.Clone()
	for i := 1; i < q.Size(); i++ {
		pl, _ := e.source.GetPostings(q.Terms[i])
		result.AppendPhrase(pl, i)
		if result.Len() == 0 {
			break
		}
	}
	result.RemoveDuplicate(ranking)
	return result
}

func (e *Executor) ranked(q *query.Query, opts Options) *index.PostingList {
	var result *index.PostingList
	switch opts.StructureType {
	case index.StructureBigram:
		result = e.rankedBigrams(q, opts.RankingType)
	case index.StructureSubphrase:
		// documents matching the whole pairs keep their bigram score and
		// earn damped credit for single terms; the rest rank on terms alone
		result = e.rankedBigrams(q, opts.RankingType)
		e.scorer.Table().Reset()
		result.Expand(e.rankedUnigrams(q, opts.RankingType), index.StructureSubphrase)
	default:
		e.scorer.Table().Reset()
		result = e.rankedUnigrams(q, opts.RankingType)
	}
	result = ranker.ApplyAuthority(result, opts.RankingType, e.source, e.authority)
	result.Sort()
	return result
}

// rankedUnigrams sums each term's weighted tf-idf contribution per document.
func (e *Executor) rankedUnigrams(q *query.Query, ranking index.Ranking) *index.PostingList {
	result := index.NewPostingList()
	total := e.source.NumDocuments()
	for i, term := range q.Terms {
		pl, ok := e.source.GetPostings(term)
		if !ok {
			continue
		}
		result.Expand(e.termContribution(term, q.Weights[i], pl, total, ranking, true), index.StructureUnigram)
	}
	return result
}

// rankedBigrams scores each adjacent pair of query terms against the biword
// index. Pairs are unweighted.
func (e *Executor) rankedBigrams(q *query.Query, ranking index.Ranking) *index.PostingList {
	result := index.NewPostingList()
	total := e.source.NumBigrams()
	for i := 1; i < q.Size(); i++ {
		pl, ok := e.source.GetBigramPostings(q.Terms[i-1], q.Terms[i])
		if !ok {
			continue
		}
		key := q.Terms[i-1] + " " + q.Terms[i]
		result.Expand(e.termContribution(key, 1.0, pl, total, ranking, false), index.StructureUnigram)
	}
	return result
}

func (e *Executor) termContribution(key string, weight float64, postings *index.PostingList, total int, ranking index.Ranking, record bool) *index.PostingList {
	pl := postings.Clone()
	pl.RemoveDuplicate(ranking)
	df := pl.Len()
	if e.champions > 0 {
		pl.SortChampionList(e.champions)
	}
	if ranking == index.RankingPageRank || df == 0 {
		return pl
	}
	return e.scorer.Score(key, weight, ranker.IDF(total, df), pl, record)
}
