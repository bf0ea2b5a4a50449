// Package consumer feeds tokenized document events from Kafka into the
// indexer engine.
package consumer

import (
	"context"
	"log/slog"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion/validator"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// DocumentIndexer is the part of indexer.Engine the consumer drives.
type DocumentIndexer interface {
	IndexDocument(docID int, name string, tokens []tokenizer.Token)
}

// HandleMessage returns a handler that indexes every decoded event. Events
// that fail to decode or validate are counted and skipped so they do not
// block the partition.
func HandleMessage(engine DocumentIndexer, m *metrics.Metrics) kafka.MessageHandler {
	logger := slog.Default().With("component", "index-consumer")
	return func(_ context.Context, key []byte, value []byte) error {
		event, err := kafka.DecodeJSON[ingestion.DocumentEvent](value)
		if err != nil {
			m.ObserveMalformedLine("kafka")
			logger.Error("skipping undecodable event", "key", string(key), "error", err)
			return nil
		}
		if err := validator.ValidateEvent(event); err != nil {
			m.ObserveMalformedLine("kafka")
			logger.Error("skipping invalid event", "key", string(key), "error", err)
			return nil
		}
		engine.IndexDocument(event.DocID, event.Name, event.Tokens)
		return nil
	}
}
