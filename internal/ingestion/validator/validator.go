// Package validator checks document events before they reach the index.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
)

const maxNameLength = 1024

// ValidationError holds per-field failure messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for field, msg := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s:%s", field, msg))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}

// ValidateEvent rejects events the engine could not index consistently:
// negative document ids, names containing line breaks (the document registry
// is line oriented) and tokens with empty terms or negative positions.
func ValidateEvent(ev ingestion.DocumentEvent) error {
	errs := make(map[string]string)

	if ev.DocID < 0 {
		errs["doc_id"] = "doc id must be non-negative"
	}
	if strings.ContainsAny(ev.Name, "\r\n") {
		errs["name"] = "name must be a single line"
	} else if len(ev.Name) > maxNameLength {
		errs["name"] = fmt.Sprintf("name must be at most %d characters", maxNameLength)
	}
	for i, tok := range ev.Tokens {
		if tok.Term == "" || strings.ContainsAny(tok.Term, " \t\r\n") {
			errs["tokens"] = fmt.Sprintf("token %d has an invalid term", i)
			break
		}
		if tok.Position < 0 {
			errs["tokens"] = fmt.Sprintf("token %d has a negative position", i)
			break
		}
	}
	if len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}
