package publisher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/ingestion"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/kafka"
)

type fakeProducer struct {
	batches [][]kafka.Event
	failAt  int
}

func (f *fakeProducer) PublishBatch(_ context.Context, events []kafka.Event) error {
	if f.failAt > 0 && len(f.batches)+1 == f.failAt {
		return errors.New("broker down")
	}
	f.batches = append(f.batches, events)
	return nil
}

func docs(n int) []ingestion.DocumentEvent {
	out := make([]ingestion.DocumentEvent, n)
	for i := range out {
		out[i] = ingestion.DocumentEvent{DocID: i, Name: "d"}
	}
	return out
}

func TestPublish_Batches(t *testing.T) {
	prod := &fakeProducer{}
	sent, err := New(prod, 2).Publish(context.Background(), docs(5))
	require.NoError(t, err)
	assert.Equal(t, 5, sent)
	require.Len(t, prod.batches, 3)
	assert.Len(t, prod.batches[2], 1)
	assert.Equal(t, "4", prod.batches[2][0].Key)
}

func TestPublish_StopsOnError(t *testing.T) {
	prod := &fakeProducer{failAt: 2}
	sent, err := New(prod, 2).Publish(context.Background(), docs(5))
	require.Error(t, err)
	assert.Equal(t, 2, sent)
}
