// Package publisher sends tokenized documents to Kafka for the indexer to
// consume.
package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/kafka"
)

// BatchProducer is the part of kafka.Producer the publisher needs.
type BatchProducer interface {
	PublishBatch(ctx context.Context, events []kafka.Event) error
}

type Publisher struct {
	producer  BatchProducer
	batchSize int
	logger    *slog.Logger
}

func New(producer BatchProducer, batchSize int) *Publisher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Publisher{
		producer:  producer,
		batchSize: batchSize,
		logger:    slog.Default().With("component", "publisher"),
	}
}

// Publish sends docs in batches keyed by document id, preserving order
// within a partition. It stops at the first failed batch.
func (p *Publisher) Publish(ctx context.Context, docs []ingestion.DocumentEvent) (int, error) {
	sent := 0
	for start := 0; start < len(docs); start += p.batchSize {
		end := min(start+p.batchSize, len(docs))
		batch := make([]kafka.Event, 0, end-start)
		for _, doc := range docs[start:end] {
			batch = append(batch, kafka.Event{
				Key:   strconv.Itoa(doc.DocID),
				Value: doc,
			})
		}
		if err := p.producer.PublishBatch(ctx, batch); err != nil {
			return sent, fmt.Errorf("publishing documents %d-%d: %w", start, end-1, err)
		}
		sent += len(batch)
		p.logger.Debug("batch published", "from", start, "to", end-1)
	}
	p.logger.Info("documents published", "count", sent)
	return sent, nil
}
