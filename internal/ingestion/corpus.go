package ingestion

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
)

// LoadCorpus reads every regular file directly under dir in lexical order and
// tokenizes it. Document ids follow that order starting at 0, and a document
// is named after its file name without extension.
func LoadCorpus(dir string) ([]DocumentEvent, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.Type().IsRegular() && !strings.HasPrefix(entry.Name(), ".") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	now := time.Now().UTC()
	events := make([]DocumentEvent, 0, len(names))
	for docID, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading corpus file %s: %w", name, err)
		}
		events = append(events, DocumentEvent{
			DocID:      docID,
			Name:       strings.TrimSuffix(name, filepath.Ext(name)),
			Tokens:     tokenizer.Tokenize(string(data)),
			IngestedAt: now,
		})
	}
	return events, nil
}
