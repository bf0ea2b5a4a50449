package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/linkrank"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// FileStore keeps scores in a text file, one "title score" line per
// document. Titles may contain spaces; the score is the last field.
type FileStore struct {
	path    string
	metrics *metrics.Metrics
	logger  *slog.Logger
}

func NewFileStore(path string, m *metrics.Metrics) *FileStore {
	return &FileStore{
		path:    path,
		metrics: m,
		logger:  slog.Default().With("component", "authority-store", "backend", "file"),
	}
}

// Save replaces the file with scores in the given order.
func (s *FileStore) Save(_ context.Context, scores []linkrank.Score) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".authority-*")
	if err != nil {
		return fmt.Errorf("creating authority file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, sc := range scores {
		if _, err := fmt.Fprintf(w, "%s %s\n", sc.Name, strconv.FormatFloat(sc.Value, 'g', -1, 64)); err != nil {
			tmp.Close()
			return fmt.Errorf("writing authority file: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return fmt.Errorf("flushing authority file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing authority file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing authority file: %w", err)
	}
	s.logger.Info("authority scores saved", "path", s.path, "documents", len(scores))
	return nil
}

// Load reads the file into a title to score table. Unparseable lines are
// skipped. A missing file yields an empty table and an error matching
// apperrors.ErrNotFound.
func (s *FileStore) Load(_ context.Context) (map[string]float64, error) {
	scores := make(map[string]float64)
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return scores, fmt.Errorf("opening authority file: %w: %w", apperrors.ErrNotFound, err)
		}
		return scores, fmt.Errorf("opening authority file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		name, score, err := parseScoreLine(line)
		if err != nil {
			s.metrics.ObserveMalformedLine("authority")
			s.logger.Warn("skipping authority line", "line", lineNo, "error", err)
			continue
		}
		scores[name] = score
	}
	if err := scanner.Err(); err != nil {
		return scores, fmt.Errorf("reading authority file: %w", err)
	}
	return scores, nil
}

func (s *FileStore) Close() error {
	return nil
}

func parseScoreLine(line string) (string, float64, error) {
	i := strings.LastIndexByte(line, ' ')
	if i <= 0 {
		return "", 0, apperrors.Newf(apperrors.ErrMalformedInput, "store.parseScoreLine", "no score in %q", line)
	}
	score, err := strconv.ParseFloat(line[i+1:], 64)
	if err != nil {
		return "", 0, apperrors.Newf(apperrors.ErrMalformedInput, "store.parseScoreLine", "bad score in %q", line)
	}
	return line[:i], score, nil
}
