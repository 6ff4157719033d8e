// Package shingle produces overlapping n-grams from normalized text.
//
// Character shingles catch small character-level edits and are the
// default for near-duplicate detection on web text; word shingles are
// coarser and cheaper.
//
// Usage Example:
//
//	grams := shingle.Generate("the cat", 3, shingle.Chars)
//	// ["the", "he ", "e c", " ca", "cat"]
package shingle

import (
	"fmt"
	"strings"
)

// Mode selects the unit a shingle is built from.
type Mode int

const (
	// Chars builds shingles from runes (default)
	Chars Mode = iota
	// Words builds shingles from whitespace-delimited tokens
	Words
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Chars:
		return "chars"
	case Words:
		return "words"
	default:
		return "unknown"
	}
}

// ParseMode resolves a configuration string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "chars", "char", "characters":
		return Chars, nil
	case "words", "word":
		return Words, nil
	default:
		return Chars, fmt.Errorf("unknown shingle mode %q", s)
	}
}

// Generate returns the n-grams of text in order of their starting offset.
// Text shorter than n units yields an empty slice, as does n <= 0.
func Generate(text string, n int, mode Mode) []string {
	if mode == Words {
		return WordGrams(text, n)
	}
	return CharGrams(text, n)
}

// CharGrams returns every rune window of width n.
func CharGrams(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	runes := []rune(text)
	if len(runes) < n {
		return []string{}
	}

	grams := make([]string, 0, len(runes)-n+1)
	for i := 0; i+n <= len(runes); i++ {
		grams = append(grams, string(runes[i:i+n]))
	}
	return grams
}

// WordGrams returns every window of n whitespace tokens joined by a single space.
func WordGrams(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	tokens := strings.Fields(text)
	if len(tokens) < n {
		return []string{}
	}

	grams := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		grams = append(grams, strings.Join(tokens[i:i+n], " "))
	}
	return grams
}
