package counter

import (
	"strings"
	"unicode/utf8"
)

// WordCounter counts whitespace-separated words, the unit the quality
// filters reason about.
type WordCounter struct{}

// NewWordCounter creates a new WordCounter instance.
func NewWordCounter() Counter {
	return WordCounter{}
}

func (WordCounter) Count(text string) int {
	return len(strings.Fields(text))
}

func (WordCounter) Name() string {
	return "words"
}

// CharCounter counts Unicode code points, not bytes.
type CharCounter struct{}

// NewCharCounter creates a new CharCounter instance.
func NewCharCounter() Counter {
	return CharCounter{}
}

func (CharCounter) Count(text string) int {
	return utf8.RuneCountInString(text)
}

func (CharCounter) Name() string {
	return "characters"
}
