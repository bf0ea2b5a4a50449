package indexer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/segment"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/config"
	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
	"github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/metrics"
)

// Engine owns the unigram and biword indexes of one build, the document
// registry (lengths and names) and the postings files under DataDir. Every
// method takes the mutex, so a consumer goroutine may feed the engine while
// health checks read it.
type Engine struct {
	mu          sync.Mutex
	memIndex    *index.MemoryIndex
	biword      *index.BiwordIndex
	session     *index.BiwordSession
	writer      *segment.Writer
	reader      *segment.Reader
	fileBacked  bool
	cfg         config.IndexConfig
	logger      *slog.Logger
	metrics     *metrics.Metrics
	docs        map[int]struct{}
	docLengths  map[int]int
	docNames    map[int]string
	pendingDocs []segment.DocMeta
	generation  uint64
}

func NewEngine(cfg config.IndexConfig, m *metrics.Metrics) (*Engine, error) {
	biword := index.NewBiwordIndex()
	e := &Engine{
		memIndex:   index.NewMemoryIndex(),
		biword:     biword,
		session:    biword.NewSession(),
		writer:     segment.NewWriter(cfg.DataDir),
		reader:     segment.NewReader(cfg.DataDir),
		fileBacked: cfg.FileBacked,
		cfg:        cfg,
		logger:     slog.Default().With("component", "indexer"),
		metrics:    m,
		docs:       make(map[int]struct{}),
		docLengths: make(map[int]int),
		docNames:   make(map[int]string),
	}
	if cfg.FileBacked {
		if err := e.loadDocs(); err != nil {
			return nil, fmt.Errorf("loading document registry: %w", err)
		}
	}
	return e, nil
}

// Insert records one token occurrence in both index structures.
func (e *Engine) Insert(term string, docID, offset int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.insertLocked(term, docID, offset)
}

func (e *Engine) insertLocked(term string, docID, offset int) {
	e.memIndex.Insert(term, docID, offset)
	e.session.Insert(term, docID, offset)
	e.docs[docID] = struct{}{}
	e.metrics.ObservePosting("unigram")
}

// AddDocument registers a document's name and token length.
func (e *Engine) AddDocument(docID int, name string, length int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addDocumentLocked(docID, name, length)
}

func (e *Engine) addDocumentLocked(docID int, name string, length int) {
	e.docs[docID] = struct{}{}
	e.docLengths[docID] = length
	e.docNames[docID] = name
	e.pendingDocs = append(e.pendingDocs, segment.DocMeta{DocID: docID, Length: length, Name: name})
	e.metrics.ObserveDocument()
}

// IndexDocument registers a document and inserts its token stream.
func (e *Engine) IndexDocument(docID int, name string, tokens []tokenizer.Token) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.addDocumentLocked(docID, name, len(tokens))
	for _, tok := range tokens {
		e.insertLocked(tok.Term, docID, tok.Position)
	}
	e.logger.Debug("document indexed",
		"doc_id", docID,
		"name", name,
		"token_count", len(tokens),
	)
}

// GetPostings returns term's postings. In file-backed mode the list is read
// from disk and merged with anything inserted since the last flush.
func (e *Engine) GetPostings(term string) (*index.PostingList, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	mem, inMemory := e.memIndex.GetPostings(term)
	if !e.fileBacked {
		return mem, inMemory
	}
	pl, err := e.reader.ReadTerm(term)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			e.logger.Error("reading postings file failed", "term", term, "error", err)
		}
		return mem, inMemory
	}
	pl.Append(mem)
	return pl, true
}

func (e *Engine) GetBigramPostings(first, second string) (*index.PostingList, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.biword.GetPostings(first, second)
}

func (e *Engine) NumDocuments() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.docs)
}

func (e *Engine) NumBigrams() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.biword.NumBigrams()
}

// DocLength reports the registered token length of docID.
func (e *Engine) DocLength(docID int) (int, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.docLengths[docID]
	return l, ok
}

func (e *Engine) DocName(docID int) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.docNames[docID]
	return n, ok
}

// Flush appends the in-memory unigram index and new document metadata to
// the postings files and clears the in-memory unigram index. From then on
// lookups are served from disk. The biword index stays in memory.
func (e *Engine) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	err := e.flushLocked()
	e.metrics.ObserveFlush(err)
	return err
}

func (e *Engine) flushLocked() error {
	if e.memIndex.Len() == 0 && len(e.pendingDocs) == 0 {
		return nil
	}
	terms, err := e.writer.WriteIndex(e.memIndex)
	if err != nil {
		return fmt.Errorf("writing postings files: %w", err)
	}
	if err := e.writer.WriteDocs(e.pendingDocs); err != nil {
		return fmt.Errorf("writing document registry: %w", err)
	}
	e.logger.Info("postings flushed",
		"terms", terms,
		"postings", e.memIndex.PostingCount(),
		"docs", len(e.pendingDocs),
		"data_dir", e.cfg.DataDir,
	)
	e.memIndex.Reset()
	e.pendingDocs = e.pendingDocs[:0]
	e.fileBacked = true
	e.generation++
	return nil
}

// Generation counts the flushes that wrote something. Callers compare it
// across flushes to tell whether on-disk postings changed.
func (e *Engine) Generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.generation
}

// Reset discards every in-memory structure and the document registry.
// Files already flushed are left on disk.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.memIndex.Reset()
	e.biword.Reset()
	e.session = e.biword.NewSession()
	e.docs = make(map[int]struct{})
	e.docLengths = make(map[int]int)
	e.docNames = make(map[int]string)
	e.pendingDocs = nil
}

func (e *Engine) loadDocs() error {
	if _, err := os.Stat(e.cfg.DataDir); err != nil {
		if os.IsNotExist(err) {
			e.logger.Warn("index data directory missing, starting empty", "data_dir", e.cfg.DataDir)
			return nil
		}
		return fmt.Errorf("checking data directory: %w", err)
	}
	docs, err := e.reader.ReadDocs()
	if err != nil {
		return err
	}
	for _, d := range docs {
		e.docs[d.DocID] = struct{}{}
		e.docLengths[d.DocID] = d.Length
		e.docNames[d.DocID] = d.Name
	}
	e.logger.Info("document registry loaded", "docs", len(docs), "data_dir", e.cfg.DataDir)
	return nil
}
