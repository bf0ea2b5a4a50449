// Package parser turns raw user input into a query over index terms.
package parser

import (
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/searcher/query"
)

// Plan is a parsed query. Quoted is set when the whole input was wrapped in
// double quotes, which drivers treat as a request for phrase matching.
type Plan struct {
	Query    *query.Query
	RawQuery string
	Quoted   bool
}

// Parse normalises raw with the same tokenizer the index is built with, so
// stop-words vanish and every term is stemmed.
func Parse(raw string) *Plan {
	trimmed := strings.TrimSpace(raw)
	quoted := len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`)
	if quoted {
		trimmed = trimmed[1 : len(trimmed)-1]
	}
	tokens := tokenizer.Tokenize(trimmed)
	terms := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		terms = append(terms, tok.Term)
	}
	return &Plan{
		Query:    query.FromTerms(terms),
		RawQuery: raw,
		Quoted:   quoted,
	}
}
