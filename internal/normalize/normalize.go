// Package normalize canonicalizes document text before shingling.
//
// Two documents that differ only in letter case, punctuation, runs of
// whitespace, or diacritics normalize to the same string:
//
//	normalize.Text("Café,  RÉSUMÉ!") // "cafe resume"
//
// The steps run in a fixed order: lowercase, strip punctuation, collapse
// whitespace, then NFD-decompose and drop combining marks. Diacritics are
// removed after lowercasing so that upper-case precomposed letters
// decompose the same way as their lower-case forms.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// asciiPunctuation mirrors the classic ASCII punctuation set.
const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Text returns the canonical form of s. Empty input yields empty output.
func Text(s string) string {
	if s == "" {
		return ""
	}

	s = strings.ToLower(s)
	s = stripPunctuation(s)
	s = collapseWhitespace(s)
	return RemoveAccents(s)
}

// combining reports whether r has a non-zero canonical combining class.
// Spacing marks with class zero, such as most Indic vowel signs, are kept.
func combining(r rune) bool {
	return norm.NFD.PropertiesString(string(r)).CCC() != 0
}

// RemoveAccents decomposes s to NFD and drops every combining mark.
func RemoveAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.Predicate(combining)))
	out, _, err := transform.String(t, s)
	if err != nil {
		// transform only fails on invalid state; fall back to input
		return s
	}
	return out
}

// isPunct reports whether r is ASCII punctuation or in Unicode category P.
func isPunct(r rune) bool {
	if r < unicode.MaxASCII {
		return strings.ContainsRune(asciiPunctuation, r)
	}
	return unicode.IsPunct(r)
}

func stripPunctuation(s string) string {
	return strings.Map(func(r rune) rune {
		if isPunct(r) {
			return -1
		}
		return r
	}, s)
}

// collapseWhitespace replaces each run of whitespace with a single space.
// Leading and trailing runs become a single space as well.
func collapseWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSpace := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte(' ')
				inSpace = true
			}
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}
