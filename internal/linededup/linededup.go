// Package linededup removes lines that occur more than once across a corpus.
//
// Deduplication takes two passes: the first counts a digest of every line
// in every document, the second drops each line whose digest was seen more
// than once. Every copy is dropped, including the first, which strips
// boilerplate such as cookie banners and navigation menus that repeat
// across pages.
package linededup

import (
	"crypto/sha256"
	"log/slog"
	"strings"
)

type digest [sha256.Size]byte

func lineDigest(line string) digest {
	return sha256.Sum256([]byte(line))
}

// Stats summarizes one deduplication pass.
type Stats struct {
	Lines        int // lines examined
	UniqueLines  int // distinct digests
	DroppedLines int // lines removed
}

// Counter tallies line digests across documents.
type Counter struct {
	counts map[digest]int
	lines  int
}

// NewCounter returns an empty Counter.
func NewCounter() *Counter {
	return &Counter{counts: make(map[digest]int)}
}

// Add counts every line of text. Line terminators are not part of a line.
func (c *Counter) Add(text string) {
	for _, line := range splitLines(text) {
		c.counts[lineDigest(line)]++
		c.lines++
	}
}

// Count returns how many times line has been seen.
func (c *Counter) Count(line string) int {
	return c.counts[lineDigest(line)]
}

// Strip returns text without the lines seen more than once, along with
// the number of lines dropped. Kept lines retain their order and their
// original terminators.
func (c *Counter) Strip(text string) (string, int) {
	var b strings.Builder
	b.Grow(len(text))
	dropped := 0
	for _, raw := range strings.SplitAfter(text, "\n") {
		if raw == "" {
			continue
		}
		line := strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r")
		if c.counts[lineDigest(line)] > 1 {
			dropped++
			continue
		}
		b.WriteString(raw)
	}
	return b.String(), dropped
}

// Dedupe runs both passes over texts and returns the stripped documents
// in input order.
func Dedupe(texts []string) ([]string, Stats) {
	counter := NewCounter()
	for _, text := range texts {
		counter.Add(text)
	}

	out := make([]string, len(texts))
	stats := Stats{Lines: counter.lines, UniqueLines: len(counter.counts)}
	for i, text := range texts {
		stripped, dropped := counter.Strip(text)
		out[i] = stripped
		stats.DroppedLines += dropped
	}

	slog.Debug("Exact line deduplication complete", "lines", stats.Lines, "unique", stats.UniqueLines, "dropped", stats.DroppedLines)
	return out, stats
}

// splitLines splits on "\n", trims a trailing "\r" from each line and
// ignores a single trailing newline.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.TrimSuffix(text, "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
