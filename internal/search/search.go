// Package search ranks curated documents against a query with BM25md, a
// field-weighted BM25 that scores Markdown headings and emphasis above
// body text. It is used to spot-check what survived curation.
package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/chriscorrea/bm25md"
)

// Hit is a scored document.
type Hit struct {
	Index int     // position in the ranked slice passed to Rank
	Score float64 // BM25md score (higher = more relevant)
	Text  string
}

// Rank scores every text against query and returns the best hits, highest
// score first. Documents scoring zero are dropped. A limit <= 0 returns all
// matching hits. Ties keep input order.
func Rank(ctx context.Context, texts []string, query string, limit int) ([]Hit, error) {
	query = strings.TrimSpace(query)
	if len(texts) == 0 || query == "" {
		return []Hit{}, nil
	}

	corpus := bm25md.NewCorpus()
	parser := bm25md.NewMarkdownFieldParser()
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		corpus.AddDocument(bm25md.Document{
			ID:       i,
			Fields:   parser.ParseDocument(text),
			Original: text,
		})
	}

	hits := make([]Hit, 0, len(texts))
	for i, text := range texts {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if score := corpus.Score(query, i); score > 0 {
			hits = append(hits, Hit{Index: i, Score: score, Text: text})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}

	slog.Debug("Ranked documents", "query", query, "documents", len(texts), "hits", len(hits))
	return hits, nil
}

// Snippet returns the first maxRunes runes of text on a single line.
func Snippet(text string, maxRunes int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return flat
	}
	return string(runes[:maxRunes]) + "…"
}
