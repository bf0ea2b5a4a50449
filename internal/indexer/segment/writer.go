// Package segment persists postings as plain text: one append-only file per
// term holding "docID offset" lines, plus a docs.meta file with
// "docID length name" lines.
package segment

import (
	"bufio"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
)

const (
	TermFileSuffix = ".index"
	DocsFileName   = "docs.meta"
)

// DocMeta describes one indexed document.
type DocMeta struct {
	DocID  int
	Length int
	Name   string
}

// Writer appends postings files into a data directory.
type Writer struct {
	dataDir string
}

func NewWriter(dataDir string) *Writer {
	return &Writer{dataDir: dataDir}
}

// TermPath returns the file holding term's postings under dataDir.
func TermPath(dataDir, term string) string {
	return filepath.Join(dataDir, url.PathEscape(term)+TermFileSuffix)
}

// WriteIndex appends every term's postings to its file and returns the
// number of terms written.
func (w *Writer) WriteIndex(idx *index.MemoryIndex) (int, error) {
	if err := os.MkdirAll(w.dataDir, 0755); err != nil {
		return 0, fmt.Errorf("creating segment directory: %w", err)
	}
	written := 0
	for _, term := range idx.Terms() {
		pl, _ := idx.GetPostings(term)
		if err := w.appendTerm(term, pl); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

func (w *Writer) appendTerm(term string, pl *index.PostingList) error {
	path := TermPath(w.dataDir, term)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening postings file for term %q: %w", term, err)
	}
	bw := bufio.NewWriter(f)
	for _, p := range pl.Postings() {
		if _, err := fmt.Fprintf(bw, "%d %d\n", p.DocID, p.Offset); err != nil {
			f.Close()
			return fmt.Errorf("writing postings for term %q: %w", term, err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing postings for term %q: %w", term, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing postings file for term %q: %w", term, err)
	}
	return nil
}

// WriteDocs appends document metadata lines.
func (w *Writer) WriteDocs(docs []DocMeta) error {
	if len(docs) == 0 {
		return nil
	}
	if err := os.MkdirAll(w.dataDir, 0755); err != nil {
		return fmt.Errorf("creating segment directory: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(w.dataDir, DocsFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening docs file: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, d := range docs {
		if _, err := fmt.Fprintf(bw, "%d %d %s\n", d.DocID, d.Length, d.Name); err != nil {
			f.Close()
			return fmt.Errorf("writing docs file: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("flushing docs file: %w", err)
	}
	return f.Close()
}
