// Package quality provides cheap heuristic document filters that run
// before deduplication.
//
// The Gopher rules reject documents whose word statistics look unlike
// natural prose (too short, too long, symbol-heavy, or dominated by
// truncated lines). The boilerplate classifier drops individual lines that
// read like navigation, cookie banners, or legal footers.
package quality

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jdkato/prose/v2"
)

// Gopher thresholds.
const (
	MinWords           = 50
	MaxWords           = 100_000
	MinMeanWordLength  = 3.0
	MaxMeanWordLength  = 10.0
	MinAlphabeticRatio = 0.80
	MaxEllipsisRatio   = 0.30
)

// Reason explains why a document was rejected.
type Reason int

const (
	// Passed means no rule rejected the document
	Passed Reason = iota
	// TooFewWords means fewer than MinWords tokens
	TooFewWords
	// TooManyWords means MaxWords tokens or more
	TooManyWords
	// MeanWordLength means mean token length outside [MinMeanWordLength, MaxMeanWordLength]
	MeanWordLength
	// LowAlphabetic means too few tokens contain a letter
	LowAlphabetic
	// EllipsisLines means too many lines end with "..."
	EllipsisLines
)

// String returns the string representation of the reason.
func (r Reason) String() string {
	switch r {
	case Passed:
		return "passed"
	case TooFewWords:
		return "too-few-words"
	case TooManyWords:
		return "too-many-words"
	case MeanWordLength:
		return "mean-word-length"
	case LowAlphabetic:
		return "low-alphabetic"
	case EllipsisLines:
		return "ellipsis-lines"
	default:
		return "unknown"
	}
}

// Verdict is the outcome of a filter.
type Verdict struct {
	Keep   bool
	Reason Reason
}

// Tokenize splits text into word tokens with the prose tokenizer, which
// separates punctuation from words the way Penn Treebank tokenizers do.
func Tokenize(text string) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return []string{}, nil
	}

	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithSegmentation(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to tokenize text: %w", err)
	}

	tokens := doc.Tokens()
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return words, nil
}

// CheckGopher applies the Gopher quality rules to text.
func CheckGopher(text string) (Verdict, error) {
	words, err := Tokenize(text)
	if err != nil {
		return Verdict{}, err
	}

	v := checkWords(words, text)
	slog.Debug("Gopher check", "words", len(words), "keep", v.Keep, "reason", v.Reason)
	return v, nil
}

func checkWords(words []string, text string) Verdict {
	if len(words) < MinWords {
		return Verdict{Reason: TooFewWords}
	}
	if len(words) >= MaxWords {
		return Verdict{Reason: TooManyWords}
	}

	totalLength := 0
	alphabetic := 0
	for _, w := range words {
		totalLength += len([]rune(w))
		if hasASCIILetter(w) {
			alphabetic++
		}
	}

	mean := float64(totalLength) / float64(len(words))
	if mean < MinMeanWordLength || mean > MaxMeanWordLength {
		return Verdict{Reason: MeanWordLength}
	}

	if float64(alphabetic)/float64(len(words)) < MinAlphabeticRatio {
		return Verdict{Reason: LowAlphabetic}
	}

	lines := strings.Split(text, "\n")
	ellipsis := 0
	for _, line := range lines {
		if strings.HasSuffix(line, "...") {
			ellipsis++
		}
	}
	if float64(ellipsis)/float64(len(lines)) > MaxEllipsisRatio {
		return Verdict{Reason: EllipsisLines}
	}

	return Verdict{Keep: true, Reason: Passed}
}

func hasASCIILetter(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') {
			return true
		}
	}
	return false
}
