package quality

import (
	"math"
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// boilerplateStems contains stemmed words that dominate page chrome:
// navigation, consent banners, sharing widgets, and legal footers
var boilerplateStems = map[string]struct{}{
	// --- Navigation ---
	"home":    {},
	"menu":    {},
	"navig":   {},
	"skip":    {},
	"search":  {},
	"login":   {},
	"log":     {},
	"sign":    {},
	"regist":  {},
	"account": {},
	"contact": {},
	"about":   {},

	// --- Consent & Scripts ---
	"cooki":      {},
	"accept":     {},
	"consent":    {},
	"javascript": {},
	"browser":    {},
	"enabl":      {},

	// --- Sharing & Engagement ---
	"share":    {},
	"follow":   {},
	"subscrib": {},
	"newslett": {},
	"comment":  {},
	"repli":    {},
	"click":    {},
	"advertis": {},

	// --- Legal & Footer Text ---
	"copyright": {},
	"privaci":   {},
	"polici":    {},
	"term":      {},
	"reserv":    {},
	"right":     {},
}

// maxBoilerplateTokens bounds the length of a line that can be
// classified as boilerplate; longer lines are treated as content.
const maxBoilerplateTokens = 30

// Classifier identifies boilerplate lines using stem analysis and a
// threshold that depends on where the line sits in its document
type Classifier struct {
	tokenRegex *regexp.Regexp
}

// NewClassifier creates and initializes a new Classifier instance
func NewClassifier() *Classifier {
	return &Classifier{
		tokenRegex: regexp.MustCompile(`\b[a-zA-Z]+\b`),
	}
}

// IsBoilerplate reports whether a line should be dropped. Lines with no
// word tokens count as boilerplate; lines longer than maxBoilerplateTokens
// never do. Out-of-range positions are never boilerplate.
func (c *Classifier) IsBoilerplate(line string, lineIndex, totalLines int) bool {
	if totalLines <= 0 || lineIndex < 0 || lineIndex >= totalLines {
		return false
	}

	tokens := c.tokenRegex.FindAllString(strings.ToLower(line), -1)
	if len(tokens) == 0 {
		return true
	}
	if len(tokens) > maxBoilerplateTokens {
		return false
	}

	hits := 0
	for _, token := range tokens {
		stemmed, err := snowball.Stem(token, "english", true)
		if err != nil {
			stemmed = token
		}
		if _, ok := boilerplateStems[stemmed]; ok {
			hits++
		}
	}

	ratio := float64(hits) / float64(len(tokens))
	return ratio > threshold(lineIndex, totalLines)
}

// threshold is lowest at the top and bottom of a document, where page
// chrome concentrates, and highest in the middle.
func threshold(lineIndex, totalLines int) float64 {
	if totalLines <= 3 {
		return 0.5
	}

	relative := float64(lineIndex) / float64(totalLines-1)
	// inverted V: 0 at the edges, 1 in the middle
	position := 1.0 - math.Abs(2.0*relative-1.0)

	const edge, middle = 0.34, 0.6
	return edge + (middle-edge)*position
}

// StripBoilerplate removes boilerplate lines from text and returns the
// remaining text with the number of lines removed. Blank lines are kept.
func (c *Classifier) StripBoilerplate(text string) (string, int) {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	removed := 0
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			kept = append(kept, line)
			continue
		}
		if c.IsBoilerplate(line, i, len(lines)) {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n"), removed
}
