package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chriscorrea/winnow/internal/normalize"
)

func TestText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string", "", ""},
		{"lowercases", "The Cat SAT", "the cat sat"},
		{"strips ascii punctuation", "Hello, world! (really?)", "hello world really"},
		{"strips unicode punctuation", "«quoted» — dash…", "quoted dash"},
		{"collapses whitespace", "a  \t b\n\n c", "a b c"},
		{"keeps single edge spaces", "  padded  ", " padded "},
		{"removes diacritics", "café naïve résumé", "cafe naive resume"},
		{"upper-case diacritics", "ÉCOLE Über", "ecole uber"},
		{"punctuation-only collapses", "!!! ???", " "},
		{"digits kept", "Route 66, mile 7", "route 66 mile 7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.Text(tt.input))
		})
	}
}

func TestText_EquivalentVariants(t *testing.T) {
	a := normalize.Text("The Café sat on the MAT.")
	b := normalize.Text("the cafe   sat on the mat")
	assert.Equal(t, a, b)
}

func TestRemoveAccents(t *testing.T) {
	assert.Equal(t, "creme brulee", normalize.RemoveAccents("crème brûlée"))
	assert.Equal(t, "plain", normalize.RemoveAccents("plain"))
}

func TestRemoveAccents_CombiningClass(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"nonspacing acute", "é", "e"},
		{"spacing mark with nonzero class", "a\U0001D165b", "ab"},
		{"devanagari vowel sign has class zero", "का", "का"},
		{"devanagari virama has nonzero class", "क्", "क"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalize.RemoveAccents(tt.input))
		})
	}
}
