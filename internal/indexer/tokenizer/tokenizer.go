// Package tokenizer turns raw text into the (term, offset) stream the index
// builders consume. It lower-cases input, splits on non-alphanumeric
// boundaries, drops stop-words and stems with the Snowball English stemmer.
package tokenizer

import (
	"strings"
	"unicode"

	snowballeng "github.com/kljensen/snowball/english"
)

var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {},
	"be": {}, "by": {}, "for": {}, "from": {}, "has": {}, "he": {},
	"in": {}, "is": {}, "it": {}, "its": {}, "of": {}, "on": {},
	"or": {}, "that": {}, "the": {}, "to": {}, "was": {}, "were": {},
	"will": {}, "with": {}, "this": {}, "but": {}, "they": {},
}

// Token is a normalised term and its zero-based position among the kept
// tokens of the text.
type Token struct {
	Term     string `json:"term"`
	Position int    `json:"position"`
}

// Tokenize breaks text into stemmed, lowercased tokens with stop-words
// removed.
func Tokenize(text string) []Token {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]Token, 0, len(words))
	pos := 0
	for _, word := range words {
		term := Normalize(word)
		if term == "" {
			continue
		}
		tokens = append(tokens, Token{
			Term:     term,
			Position: pos,
		})
		pos++
	}
	return tokens
}

// Normalize maps a single word to its index term, or "" when the word is a
// stop-word or too short to index.
func Normalize(word string) string {
	word = strings.ToLower(word)
	if len(word) < 2 {
		return ""
	}
	if _, isStop := stopWords[word]; isStop {
		return ""
	}
	return snowballeng.Stem(word, false)
}
