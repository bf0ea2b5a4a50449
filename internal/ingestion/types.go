// Package ingestion turns a directory of plain-text documents into tokenized
// document events and defines the Kafka event schema the indexer consumes.
package ingestion

import (
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
)

// DocumentEvent carries one tokenized document. DocID is assigned by the
// producer in discovery order; Name is the title used to match authority
// scores.
type DocumentEvent struct {
	DocID      int               `json:"doc_id"`
	Name       string            `json:"name"`
	Tokens     []tokenizer.Token `json:"tokens"`
	IngestedAt time.Time         `json:"ingested_at"`
}
