package index

// BiwordIndex maps ordered adjacent term pairs to postings lists. Postings
// carry the offset of the second term of the pair.
type BiwordIndex struct {
	index   map[string]map[string]*PostingList
	bigrams int
}

func NewBiwordIndex() *BiwordIndex {
	return &BiwordIndex{
		index: make(map[string]map[string]*PostingList),
	}
}

// BiwordSession is a build cursor over a BiwordIndex. It remembers the
// previous term of the current document so each session pairs tokens on its
// own.
type BiwordSession struct {
	index    *BiwordIndex
	prevTerm string
	prevDoc  int
	hasPrev  bool
}

// NewSession starts a build session with an empty cursor.
func (b *BiwordIndex) NewSession() *BiwordSession {
	return &BiwordSession{index: b, prevDoc: -1}
}

// Insert feeds the next token of the stream. The first token of every
// document only primes the cursor.
func (s *BiwordSession) Insert(term string, docID, offset int) {
	if docID != s.prevDoc {
		s.prevDoc = docID
		s.hasPrev = false
	}
	if !s.hasPrev {
		s.prevTerm = term
		s.hasPrev = true
		return
	}
	s.index.add(s.prevTerm, term, docID, offset)
	s.prevTerm = term
}

func (b *BiwordIndex) add(first, second string, docID, offset int) {
	followers, ok := b.index[first]
	if !ok {
		followers = make(map[string]*PostingList)
		b.index[first] = followers
	}
	pl, ok := followers[second]
	if !ok {
		pl = NewPostingList()
		followers[second] = pl
		b.bigrams++
	}
	pl.Insert(docID, offset, 1.0)
}

// GetPostings returns the list for the pair (first, second).
func (b *BiwordIndex) GetPostings(first, second string) (*PostingList, bool) {
	followers, ok := b.index[first]
	if !ok {
		return nil, false
	}
	pl, ok := followers[second]
	return pl, ok
}

// NumBigrams is the number of distinct pairs.
func (b *BiwordIndex) NumBigrams() int {
	return b.bigrams
}

func (b *BiwordIndex) Reset() {
	b.index = make(map[string]map[string]*PostingList)
	b.bigrams = 0
}
