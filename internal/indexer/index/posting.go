package index

import (
	"sort"

	"github.com/RoaringBitmap/roaring/roaring64"
)

// subphraseDamping is the share of a sub-phrase score credited to a document
// that is already in the result.
const subphraseDamping = 0.25

// Posting is one occurrence of a term in a document. Score starts as the raw
// count unit and is rewritten by deduplication and ranking.
type Posting struct {
	DocID  int     `json:"doc_id"`
	Offset int     `json:"offset"`
	Score  float64 `json:"score"`
}

// PostingList is an ordered sequence of postings. Order is insertion order
// until Sort is called.
type PostingList struct {
	postings []Posting
}

func NewPostingList() *PostingList {
	return &PostingList{postings: make([]Posting, 0)}
}

// NewPostingListFrom builds a list holding a copy of postings.
func NewPostingListFrom(postings []Posting) *PostingList {
	pl := &PostingList{postings: make([]Posting, len(postings))}
	copy(pl.postings, postings)
	return pl
}

func (pl *PostingList) Len() int {
	if pl == nil {
		return 0
	}
	return len(pl.postings)
}

func (pl *PostingList) Get(i int) Posting {
	return pl.postings[i]
}

// Postings returns a copy of the underlying postings.
func (pl *PostingList) Postings() []Posting {
	if pl == nil {
		return nil
	}
	out := make([]Posting, len(pl.postings))
	copy(out, pl.postings)
	return out
}

func (pl *PostingList) Clone() *PostingList {
	if pl == nil {
		return NewPostingList()
	}
	return NewPostingListFrom(pl.postings)
}

// DocIDs returns the set of document ids present in the list.
func (pl *PostingList) DocIDs() *roaring64.Bitmap {
	bm := roaring64.New()
	if pl == nil {
		return bm
	}
	for _, p := range pl.postings {
		bm.Add(uint64(p.DocID))
	}
	return bm
}

func (pl *PostingList) Insert(docID, offset int, score float64) {
	pl.postings = append(pl.postings, Posting{
		DocID:  docID,
		Offset: offset,
		Score:  score,
	})
}

// Intersect keeps, in their current order, the postings whose docID occurs
// in other. A nil other empties the list.
func (pl *PostingList) Intersect(other *PostingList) {
	present := other.DocIDs()
	kept := make([]Posting, 0, len(pl.postings))
	for _, p := range pl.postings {
		if present.Contains(uint64(p.DocID)) {
			kept = append(kept, p)
		}
	}
	pl.postings = kept
}

// Append copies every posting of other onto the end of the list.
func (pl *PostingList) Append(other *PostingList) {
	if other == nil {
		return
	}
	pl.postings = append(pl.postings, other.postings...)
}

// AppendPhrase keeps a posting only when other holds a posting in the same
// document at exactly offset+delta.
func (pl *PostingList) AppendPhrase(other *PostingList, delta int) {
	if other == nil {
		pl.postings = pl.postings[:0]
		return
	}
	offsets := make(map[int]map[int]struct{}, len(other.postings))
	for _, p := range other.postings {
		set, ok := offsets[p.DocID]
		if !ok {
			set = make(map[int]struct{})
			offsets[p.DocID] = set
		}
		set[p.Offset] = struct{}{}
	}
	kept := make([]Posting, 0, len(pl.postings))
	for _, p := range pl.postings {
		set, ok := offsets[p.DocID]
		if !ok {
			continue
		}
		if _, adjacent := set[p.Offset+delta]; adjacent {
			kept = append(kept, p)
		}
	}
	pl.postings = kept
}

// Expand merges other into the list by docID. Unknown documents are appended;
// known documents accumulate other's score, damped for sub-phrase merges.
func (pl *PostingList) Expand(other *PostingList, mode Structure) {
	if other == nil {
		return
	}
	position := make(map[int]int, len(pl.postings))
	for i, p := range pl.postings {
		if _, seen := position[p.DocID]; !seen {
			position[p.DocID] = i
		}
	}
	for _, p := range other.postings {
		i, ok := position[p.DocID]
		if !ok {
			position[p.DocID] = len(pl.postings)
			pl.postings = append(pl.postings, p)
			continue
		}
		if mode == StructureSubphrase {
			pl.postings[i].Score += p.Score * subphraseDamping
		} else {
			pl.postings[i].Score += p.Score
		}
	}
}

// RemoveDuplicate collapses postings sharing a docID into the first one.
// Every dropped duplicate counts one more occurrence on the survivor, except
// under PageRank ranking where the survivor's score is cleared instead.
func (pl *PostingList) RemoveDuplicate(ranking Ranking) {
	position := make(map[int]int, len(pl.postings))
	kept := make([]Posting, 0, len(pl.postings))
	for _, p := range pl.postings {
		i, ok := position[p.DocID]
		if !ok {
			position[p.DocID] = len(kept)
			kept = append(kept, p)
			continue
		}
		if ranking == RankingPageRank {
			kept[i].Score = 0
		} else {
			kept[i].Score++
		}
	}
	pl.postings = kept
}

// Sort orders postings by descending score, ties by ascending docID.
func (pl *PostingList) Sort() {
	sort.SliceStable(pl.postings, func(i, j int) bool {
		if pl.postings[i].Score != pl.postings[j].Score {
			return pl.postings[i].Score > pl.postings[j].Score
		}
		return pl.postings[i].DocID < pl.postings[j].DocID
	})
}

// SortChampionList sorts the list and keeps only the first k postings.
func (pl *PostingList) SortChampionList(k int) {
	pl.Sort()
	if k >= 0 && len(pl.postings) > k {
		pl.postings = pl.postings[:k]
	}
}
