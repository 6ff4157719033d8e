// Package app contains the curation pipeline behind the winnow CLI.
// It handles the main business logic separated from CLI concerns.
//
// Processing Pipeline:
//  1. Load documents from every source, extracting text from HTML
//  2. Clean: strip boilerplate lines and mask personal data
//  3. Filter: drop documents failing the Gopher quality rules
//  4. Drop lines repeated across the corpus
//  5. Remove near-duplicate documents with MinHash and LSH
//  6. Write survivors, record decisions in the ledger, and summarize
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/chriscorrea/winnow/internal/config"
	"github.com/chriscorrea/winnow/internal/corpus"
	"github.com/chriscorrea/winnow/internal/counter"
	"github.com/chriscorrea/winnow/internal/dedup"
	"github.com/chriscorrea/winnow/internal/extract"
	"github.com/chriscorrea/winnow/internal/ledger"
	"github.com/chriscorrea/winnow/internal/progress"
	"github.com/chriscorrea/winnow/internal/report"
)

// Summary describes a finished run.
type Summary = report.Summary

// Config holds everything one invocation needs.
type Config struct {
	Sources  []string       // URLs, file paths, directories, or "-" for stdin
	Settings *config.Config // resolved settings; nil uses config.Default()
	DryRun   bool           // report only, write nothing
	Quiet    bool           // suppress warnings and the progress indicator
	Stderr   io.Writer      // warnings and progress; nil means os.Stderr
}

// document is a loaded document moving through the pipeline
type document struct {
	corpus.Document
	decision ledger.Decision
}

func (d *document) active() bool {
	return d.decision.Status == ledger.StatusKept
}

// Run executes the curation pipeline.
// ctx allows for cancellation between stages and while loading sources.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
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

	started := time.Now()
	runID := ledger.NewRunID()
	opts := settings.DedupOptions()

	var indicator *progress.Indicator
	if !cfg.Quiet && progress.IsTerminal(stderr) {
		indicator = progress.New(ctx, stderr, "Loading sources...")
		indicator.Start()
		defer indicator.Stop()
	}
	stage := func(name string) {
		slog.Debug("Pipeline stage", "stage", name, "runID", runID)
		if indicator != nil {
			indicator.Stage(name)
		}
	}

	loaded, err := corpus.Load(ctx, cfg.Sources, loadOptions(settings, cfg.Quiet, stderr))
	if err != nil {
		return nil, err
	}
	if len(loaded) == 0 {
		return nil, fmt.Errorf("no content loaded from any source")
	}

	docs := make([]*document, len(loaded))
	for i, d := range loaded {
		docs[i] = &document{
			Document: d,
			decision: ledger.Decision{DocIndex: d.Index, Name: d.Name, Status: ledger.StatusKept, DuplicateOf: -1},
		}
	}

	summary := &Summary{
		RunID:     runID,
		Options:   opts.Describe(),
		Documents: len(docs),
		Stages:    []report.Stage{{Name: "load", In: len(docs), Out: len(docs)}},
	}

	textCounter, err := newCounter(settings)
	if err != nil {
		return nil, err
	}
	summary.CountUnit = textCounter.Name()
	summary.UnitsIn = counter.Total(textCounter, docTexts(docs, false))

	if settings.Filters.StripBoilerplate {
		stage("Stripping boilerplate...")
		summary.Stages = append(summary.Stages, stripBoilerplate(docs))
	}
	if kinds := settings.PIIKinds(); len(kinds) > 0 {
		stage("Masking personal data...")
		summary.Stages = append(summary.Stages, maskPII(docs, kinds))
	}
	if settings.Filters.Gopher {
		stage("Applying quality rules...")
		st, err := applyGopher(ctx, docs)
		if err != nil {
			return nil, err
		}
		summary.Stages = append(summary.Stages, st)
	}
	if settings.Filters.LineDedup {
		stage("Removing repeated lines...")
		summary.Stages = append(summary.Stages, dedupeLines(docs))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stage("Signing documents...")
	if indicator != nil {
		opts.Progress = indicator.Update
	}
	st, err := removeNearDuplicates(docs, opts, summary)
	if err != nil {
		return nil, err
	}
	summary.Stages = append(summary.Stages, st)

	survivors := docTexts(docs, true)
	summary.Kept = len(survivors)
	summary.UnitsOut = counter.Total(textCounter, survivors)

	if !cfg.DryRun {
		stage("Writing survivors...")
		if err := writeSurvivors(docs, settings); err != nil {
			return nil, err
		}
		summary.Output = settings.Output.Dir
	}

	summary.Elapsed = time.Since(started)

	if settings.Ledger.Enabled && !cfg.DryRun {
		if err := recordRun(ctx, settings.Ledger.Path, cfg.Sources, started, summary, docs); err != nil {
			return nil, err
		}
	}

	slog.Debug("Run complete", "runID", runID, "documents", summary.Documents, "kept", summary.Kept)
	return summary, nil
}

// docTexts collects document texts, optionally only those still kept
func docTexts(docs []*document, activeOnly bool) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if activeOnly && !d.active() {
			continue
		}
		out = append(out, d.Text)
	}
	return out
}

func resolveSettings(settings *config.Config) (*config.Config, error) {
	if settings != nil {
		return settings, nil
	}
	defaults := config.Default()
	if err := defaults.Refresh(); err != nil {
		return nil, err
	}
	return &defaults, nil
}

// loadOptions maps settings onto corpus loading, printing skipped sources
// the same way for every command
func loadOptions(settings *config.Config, quiet bool, stderr io.Writer) corpus.Options {
	return corpus.Options{
		ExtractHTML: settings.Filters.ExtractHTML,
		Extract: extract.Options{
			Selector:   settings.Filters.Selector,
			IncludeAll: settings.Filters.IncludeAll,
			Format:     extract.PlainText,
		},
		OnSkip: func(source string, err error) {
			if !quiet {
				fmt.Fprintf(stderr, "\rWarning: failed to process source %q: %v\n", source, err)
			}
		},
	}
}

func newCounter(settings *config.Config) (counter.Counter, error) {
	var c counter.Counter
	switch settings.CountingMethod() {
	case counter.Tokens:
		tc, err := counter.NewTokenCounter(settings.Output.Encoding)
		if err != nil {
			return nil, fmt.Errorf("failed to create token counter: %w", err)
		}
		c = tc
	default:
		var err error
		if c, err = counter.NewCounter(settings.CountingMethod()); err != nil {
			return nil, err
		}
	}
	if settings.Output.EOS {
		c = counter.WithEOS(c)
	}
	return c, nil
}

// removeNearDuplicates runs MinHash deduplication over the active documents
func removeNearDuplicates(docs []*document, opts dedup.Options, summary *Summary) (report.Stage, error) {
	active := make([]*document, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if d.active() {
			active = append(active, d)
			texts = append(texts, d.Text)
		}
	}

	result, err := dedup.Run(texts, opts)
	if err != nil {
		return report.Stage{}, err
	}

	for _, m := range result.Matches {
		removed, survivor := active[m.Removed], active[m.Survivor]
		if removed.decision.Status == ledger.StatusDuplicate {
			continue // first match wins for reporting
		}
		removed.decision.Status = ledger.StatusDuplicate
		removed.decision.DuplicateOf = survivor.Index
		removed.decision.Similarity = m.Similarity
		summary.Duplicates = append(summary.Duplicates, report.Duplicate{
			Removed:      removed.Index,
			RemovedName:  removed.Name,
			Survivor:     survivor.Index,
			SurvivorName: survivor.Name,
			Similarity:   m.Similarity,
		})
	}
	summary.Candidates = result.Candidates
	summary.Clusters = len(result.Clusters)

	return report.Stage{Name: "near-dup", In: len(active), Out: len(result.Survivors)}, nil
}

func writeSurvivors(docs []*document, settings *config.Config) error {
	w, err := corpus.NewWriter(settings.Output.Dir, settings.Layout())
	if err != nil {
		return err
	}
	for _, d := range docs {
		if !d.active() {
			continue
		}
		if err := w.Write(d.Document); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func recordRun(ctx context.Context, path string, sources []string, started time.Time, summary *Summary, docs []*document) error {
	store, err := ledger.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open ledger: %w", err)
	}
	defer store.Close()

	run := &ledger.Run{
		ID:         summary.RunID,
		StartedAt:  started,
		FinishedAt: started.Add(summary.Elapsed),
		Sources:    sources,
		Options:    summary.Options,
		Documents:  summary.Documents,
		Kept:       summary.Kept,
		Decisions:  make([]ledger.Decision, 0, len(docs)),
	}
	for _, d := range docs {
		run.Decisions = append(run.Decisions, d.decision)
	}
	if err := store.RecordRun(ctx, run); err != nil {
		return fmt.Errorf("failed to record run: %w", err)
	}
	return nil
}
