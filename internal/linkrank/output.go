package linkrank

import (
	"container/heap"
	"fmt"
	"io"
)

// DefaultTopN is how many documents a ranking listing shows.
const DefaultTopN = 50

// Score is the authority of one document.
type Score struct {
	ID    int     `json:"id" db:"-"`
	Name  string  `json:"name" db:"name"`
	Value float64 `json:"score" db:"score"`
}

// Scores pairs every id of g with its entry in vec, in id order.
func Scores(g *Graph, vec []float64) []Score {
	out := make([]Score, g.Len())
	for id := range out {
		out[id] = Score{ID: id, Name: g.Name(id), Value: vec[id]}
	}
	return out
}

// Top returns the n highest scores, best first, ties broken by ascending id.
func Top(scores []Score, n int) []Score {
	if n <= 0 {
		return nil
	}
	h := &scoreHeap{}
	for _, s := range scores {
		heap.Push(h, s)
		if h.Len() > n {
			heap.Pop(h)
		}
	}
	out := make([]Score, h.Len())
	for i := len(out) - 1; i >= 0; i-- {
		out[i] = heap.Pop(h).(Score)
	}
	return out
}

// WriteTop prints scores as "rank: name score" lines, ranks from 1.
func WriteTop(w io.Writer, scores []Score) error {
	for i, s := range scores {
		if _, err := fmt.Fprintf(w, "%d: %s %v\n", i+1, s.Name, s.Value); err != nil {
			return fmt.Errorf("writing ranking: %w", err)
		}
	}
	return nil
}

// scoreHeap is a min-heap on rank: the root is the worst score kept.
type scoreHeap []Score

func (h scoreHeap) Len() int { return len(h) }

func (h scoreHeap) Less(i, j int) bool {
	if h[i].Value != h[j].Value {
		return h[i].Value < h[j].Value
	}
	return h[i].ID > h[j].ID
}

func (h scoreHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *scoreHeap) Push(x any) {
	*h = append(*h, x.(Score))
}

func (h *scoreHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
