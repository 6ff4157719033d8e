package quality

import (
	"strings"
	"testing"
)

const riverSentence = "The river flows quietly through the green valley near the old stone village. "

func TestCheckGopher_NaturalProse(t *testing.T) {
	text := strings.Repeat(riverSentence, 5)

	v, err := CheckGopher(text)
	if err != nil {
		t.Fatalf("CheckGopher() unexpected error: %v", err)
	}
	if !v.Keep || v.Reason != Passed {
		t.Errorf("CheckGopher() = %+v, want keep with reason %v", v, Passed)
	}
}

func TestCheckGopher_TooShort(t *testing.T) {
	v, err := CheckGopher("Just a handful of words.")
	if err != nil {
		t.Fatalf("CheckGopher() unexpected error: %v", err)
	}
	if v.Keep || v.Reason != TooFewWords {
		t.Errorf("CheckGopher() = %+v, want reject with reason %v", v, TooFewWords)
	}
}

func TestCheckWords(t *testing.T) {
	repeat := func(word string, n int) []string {
		words := make([]string, n)
		for i := range words {
			words[i] = word
		}
		return words
	}

	tests := []struct {
		name     string
		words    []string
		text     string
		expected Verdict
	}{
		{
			name:     "too few words",
			words:    repeat("valley", 49),
			text:     "",
			expected: Verdict{Reason: TooFewWords},
		},
		{
			name:     "too many words",
			words:    repeat("valley", MaxWords),
			text:     "",
			expected: Verdict{Reason: TooManyWords},
		},
		{
			name:     "mean word length too short",
			words:    repeat("ab", 60),
			text:     "ab",
			expected: Verdict{Reason: MeanWordLength},
		},
		{
			name:     "mean word length too long",
			words:    repeat("supercalifragilistic", 60),
			text:     "x",
			expected: Verdict{Reason: MeanWordLength},
		},
		{
			name:     "mostly numbers",
			words:    append(repeat("12345", 40), repeat("river", 20)...),
			text:     "x",
			expected: Verdict{Reason: LowAlphabetic},
		},
		{
			name:     "ellipsis lines",
			words:    repeat("river", 60),
			text:     "read more...\nsee more...\nfull story",
			expected: Verdict{Reason: EllipsisLines},
		},
		{
			name:     "passes",
			words:    repeat("river", 60),
			text:     "a line\nanother line...\nthird\nfourth",
			expected: Verdict{Keep: true, Reason: Passed},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checkWords(tt.words, tt.text)
			if got != tt.expected {
				t.Errorf("checkWords() = %+v, want %+v", got, tt.expected)
			}
		})
	}
}

func TestReasonString(t *testing.T) {
	tests := []struct {
		reason   Reason
		expected string
	}{
		{Passed, "passed"},
		{TooFewWords, "too-few-words"},
		{EllipsisLines, "ellipsis-lines"},
		{Reason(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.reason.String(); got != tt.expected {
			t.Errorf("Reason(%d).String() = %q, want %q", int(tt.reason), got, tt.expected)
		}
	}
}

func TestClassifier_IsBoilerplate(t *testing.T) {
	classifier := NewClassifier()

	tests := []struct {
		name       string
		line       string
		lineIndex  int
		totalLines int
		expected   bool
	}{
		{"consent banner at top", "Accept cookies privacy policy", 0, 10, true},
		{"legal footer at bottom", "Copyright 2026. All rights reserved.", 9, 10, true},
		{"symbols only", "© 2026 | ||", 4, 10, true},
		{"content line in middle", "The river flows quietly through the green valley", 5, 10, false},
		{"content with a few stems", "Please share your thoughts about the river valley with friends today", 0, 10, false},
		{"out of range index", "Accept cookies", 10, 10, false},
		{"no lines", "Accept cookies", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifier.IsBoilerplate(tt.line, tt.lineIndex, tt.totalLines)
			if got != tt.expected {
				t.Errorf("IsBoilerplate(%q, %d, %d) = %v, want %v", tt.line, tt.lineIndex, tt.totalLines, got, tt.expected)
			}
		})
	}
}

func TestClassifier_LongLinesAreContent(t *testing.T) {
	classifier := NewClassifier()
	line := strings.Repeat("cookies privacy ", 20)
	if classifier.IsBoilerplate(line, 0, 10) {
		t.Errorf("IsBoilerplate() = true for a %d-token line, want false", 40)
	}
}

func TestClassifier_StripBoilerplate(t *testing.T) {
	classifier := NewClassifier()
	text := "Skip navigation menu\n\n" + strings.TrimSpace(riverSentence) + "\nCopyright 2026. All rights reserved."

	got, removed := classifier.StripBoilerplate(text)
	want := "\n" + strings.TrimSpace(riverSentence)
	if got != want {
		t.Errorf("StripBoilerplate() = %q, want %q", got, want)
	}
	if removed != 2 {
		t.Errorf("StripBoilerplate() removed %d lines, want 2", removed)
	}
}

func TestThreshold(t *testing.T) {
	if got := threshold(0, 3); got != 0.5 {
		t.Errorf("threshold(0, 3) = %v, want 0.5", got)
	}
	edge := threshold(0, 11)
	middle := threshold(5, 11)
	last := threshold(10, 11)
	if !(edge < middle && last < middle) {
		t.Errorf("threshold edges (%v, %v) should be below middle (%v)", edge, last, middle)
	}
	if edge != last {
		t.Errorf("threshold should be symmetric: first %v, last %v", edge, last)
	}
}
