package index

import (
	"strings"

	apperrors "github.com/Adithya-Monish-Kumar-K/search-ranking-core/pkg/errors"
)

// Structure selects which index structure a ranked query runs against and
// how partial matches are merged.
type Structure int

const (
	StructureUnigram Structure = iota
	StructureBigram
	StructureSubphrase
)

func (s Structure) String() string {
	switch s {
	case StructureUnigram:
		return "unigram"
	case StructureBigram:
		return "bigram"
	case StructureSubphrase:
		return "subphrase"
	default:
		return "unknown"
	}
}

func ParseStructure(s string) (Structure, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "unigram", "":
		return StructureUnigram, nil
	case "bigram", "biword":
		return StructureBigram, nil
	case "subphrase":
		return StructureSubphrase, nil
	}
	return StructureUnigram, apperrors.Newf(apperrors.ErrInvalidInput, "parse structure", "unknown structure %q", s)
}

// Ranking selects how postings are scored.
type Ranking int

const (
	RankingTFIDF Ranking = iota
	RankingPageRank
	RankingCombination
)

func (r Ranking) String() string {
	switch r {
	case RankingTFIDF:
		return "tf_idf"
	case RankingPageRank:
		return "pagerank"
	case RankingCombination:
		return "combination"
	default:
		return "unknown"
	}
}

func ParseRanking(s string) (Ranking, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tf_idf", "tfidf", "":
		return RankingTFIDF, nil
	case "pagerank":
		return RankingPageRank, nil
	case "combination":
		return RankingCombination, nil
	}
	return RankingTFIDF, apperrors.Newf(apperrors.ErrInvalidInput, "parse ranking", "unknown ranking %q", s)
}
