package tokenizer

import (
	"fmt"
	"strings"
	"testing"
)

var sampleTexts = map[string]string{
	"short": "The quick brown fox jumps over the lazy dog",
	"medium": `Search engines answer queries from an inverted index that maps every
        term to the documents containing it, along with the offsets needed for
        phrase queries. Ranked retrieval weighs each matching term by how rare it
        is across the collection and how often it occurs in the document.`,
	"long": strings.Repeat(`Link analysis treats the web as a graph. A random surfer follows
        outgoing links and occasionally jumps to a random page, and the share of
        time spent on each page is its authority. Monte Carlo walks estimate the
        same distribution without iterating over the whole matrix. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = Tokenize(text)
			}
		})
	}
}

func BenchmarkTokenizeParallel(b *testing.B) {
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = Tokenize(text)
		}
	})
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	base := "ranking retrieval feedback authority walks "
	for _, size := range []int{10, 100, 1000, 5000} {
		text := strings.Repeat(base, size/len(base)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				_ = Tokenize(text)
			}
		})
	}
}
