package app

import (
	"context"
	"fmt"

	"github.com/chriscorrea/winnow/internal/ledger"
	"github.com/chriscorrea/winnow/internal/linededup"
	"github.com/chriscorrea/winnow/internal/pii"
	"github.com/chriscorrea/winnow/internal/quality"
	"github.com/chriscorrea/winnow/internal/report"
)

// stripBoilerplate removes navigation and banner lines from every active document
func stripBoilerplate(docs []*document) report.Stage {
	classifier := quality.NewClassifier()
	st := report.Stage{Name: "boilerplate"}
	for _, d := range docs {
		if !d.active() {
			continue
		}
		st.In++
		var removed int
		d.Text, removed = classifier.StripBoilerplate(d.Text)
		st.Changed += removed
		st.Out++
	}
	return st
}

// maskPII replaces personal data in every active document
func maskPII(docs []*document, kinds []pii.Kind) report.Stage {
	st := report.Stage{Name: "pii"}
	for _, d := range docs {
		if !d.active() {
			continue
		}
		st.In++
		var counts pii.Counts
		d.Text, counts = pii.MaskAll(d.Text, kinds...)
		st.Changed += counts.Total()
		st.Out++
	}
	return st
}

// applyGopher marks documents failing the quality rules as filtered
func applyGopher(ctx context.Context, docs []*document) (report.Stage, error) {
	st := report.Stage{Name: "gopher"}
	for _, d := range docs {
		if !d.active() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.In++
		verdict, err := quality.CheckGopher(d.Text)
		if err != nil {
			return st, fmt.Errorf("quality check failed for %q: %w", d.Name, err)
		}
		if !verdict.Keep {
			d.decision.Status = ledger.StatusFiltered
			d.decision.Reason = verdict.Reason.String()
			continue
		}
		st.Out++
	}
	return st, nil
}

// dedupeLines drops lines repeated anywhere among the active documents
func dedupeLines(docs []*document) report.Stage {
	st := report.Stage{Name: "line-dedup"}
	var active []*document
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.active() {
			active = append(active, d)
			texts = append(texts, d.Text)
		}
	}

	stripped, stats := linededup.Dedupe(texts)
	for i, d := range active {
		d.Text = stripped[i]
	}
	st.In, st.Out = len(active), len(active)
	st.Changed = stats.DroppedLines
	return st
}
