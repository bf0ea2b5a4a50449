package segment

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
)

// Reader loads postings files from a data directory.
type Reader struct {
	dataDir string
	logger  *slog.Logger
}

func NewReader(dataDir string) *Reader {
	return &Reader{
		dataDir: dataDir,
		logger:  slog.Default().With("component", "segment-reader"),
	}
}

// ReadTerm loads the postings of term. A term without a file yields
// ErrNotFound; malformed lines are skipped.
func (r *Reader) ReadTerm(term string) (*index.PostingList, error) {
	f, err := os.Open(TermPath(r.dataDir, term))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperrors.Newf(apperrors.ErrNotFound, "read term", "no postings file for %q", term)
		}
		return nil, fmt.Errorf("opening postings file for term %q: %w", term, err)
	}
	defer f.Close()

	pl := index.NewPostingList()
	scanner := bufio.NewScanner(f)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			r.logger.Warn("skipping malformed postings line", "term", term, "line", line)
			continue
		}
		docID, err1 := strconv.Atoi(fields[0])
		offset, err2 := strconv.Atoi(fields[1])
		if err1 != nil || err2 != nil || docID < 0 || offset < 0 {
			r.logger.Warn("skipping malformed postings line", "term", term, "line", line)
			continue
		}
		pl.Insert(docID, offset, 1.0)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading postings for term %q: %w", term, err)
	}
	return pl, nil
}

// ReadDocs loads document metadata. A missing docs file yields no documents.
func (r *Reader) ReadDocs() ([]DocMeta, error) {
	f, err := os.Open(filepath.Join(r.dataDir, DocsFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening docs file: %w", err)
	}
	defer f.Close()

	var docs []DocMeta
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), " ", 3)
		if len(parts) < 2 {
			continue
		}
		docID, err1 := strconv.Atoi(parts[0])
		length, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			r.logger.Warn("skipping malformed docs line", "line", scanner.Text())
			continue
		}
		meta := DocMeta{DocID: docID, Length: length}
		if len(parts) == 3 {
			meta.Name = parts[2]
		}
		docs = append(docs, meta)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading docs file: %w", err)
	}
	return docs, nil
}
