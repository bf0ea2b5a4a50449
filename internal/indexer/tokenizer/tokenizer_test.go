package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	got := Tokenize("The quick brown foxes, and the cats!")
	want := []Token{
		{Term: "quick", Position: 0},
		{Term: "brown", Position: 1},
		{Term: "fox", Position: 2},
		{Term: "cat", Position: 3},
	}
	assert.Equal(t, want, got)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize(""))
	assert.Empty(t, Tokenize("a the of"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "search", Normalize("Searching"))
	assert.Equal(t, "", Normalize("x"))
	assert.Equal(t, "", Normalize("The"))
}
