package index

import "sort"

// MemoryIndex maps terms to their postings lists. It is built by a single
// writer and read-only afterwards.
type MemoryIndex struct {
	index    map[string]*PostingList
	postings int
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		index: make(map[string]*PostingList),
	}
}

// Insert records one occurrence of term at offset in docID.
func (m *MemoryIndex) Insert(term string, docID, offset int) {
	pl, exists := m.index[term]
	if !exists {
		pl = NewPostingList()
		m.index[term] = pl
	}
	pl.Insert(docID, offset, 1.0)
	m.postings++
}

// GetPostings returns the stored list for term. The list is shared; callers
// that mutate it must Clone first.
func (m *MemoryIndex) GetPostings(term string) (*PostingList, bool) {
	pl, exists := m.index[term]
	return pl, exists
}

// Terms returns the dictionary in lexical order.
func (m *MemoryIndex) Terms() []string {
	terms := make([]string, 0, len(m.index))
	for term := range m.index {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

func (m *MemoryIndex) Len() int {
	return len(m.index)
}

func (m *MemoryIndex) PostingCount() int {
	return m.postings
}

// Reset drops every term.
func (m *MemoryIndex) Reset() {
	m.index = make(map[string]*PostingList)
	m.postings = 0
}
