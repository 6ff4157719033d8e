package app

import (
	"context"
	"fmt"
	"os"

	"github.com/chriscorrea/winnow/internal/corpus"
	"github.com/chriscorrea/winnow/internal/report"
	"github.com/chriscorrea/winnow/internal/search"
)

// Search loads the sources in cfg and ranks their documents against query,
// returning at most limit hits (all hits when limit <= 0). It is meant for
// spot-checking a curated output directory.
func Search(ctx context.Context, cfg Config, query string, limit int) ([]report.Hit, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no sources provided")
	}
	settings, err := resolveSettings(cfg.Settings)
	if err != nil {
		return nil, err
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	docs, err := corpus.Load(ctx, cfg.Sources, loadOptions(settings, cfg.Quiet, stderr))
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(docs))
	names := make([]string, len(docs))
	for i, d := range docs {
		texts[i], names[i] = d.Text, d.Name
	}

	hits, err := search.Rank(ctx, texts, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	return report.NewHits(hits, names), nil
}
