package app

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/chriscorrea/winnow/internal/config"
	"github.com/chriscorrea/winnow/internal/ledger"
	"github.com/chriscorrea/winnow/internal/report"
)

// ErrNoLedger is returned when the configured ledger has never been written.
var ErrNoLedger = errors.New("no ledger recorded yet")

// Runs lists the runs recorded in the ledger, newest first.
func Runs(ctx context.Context, settings *config.Config) ([]report.Run, error) {
	store, err := openLedger(settings)
	if errors.Is(err, ErrNoLedger) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer store.Close()

	runs, err := store.Runs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return report.NewRuns(runs), nil
}

// RunDecisions returns the per-document decisions of one recorded run.
func RunDecisions(ctx context.Context, settings *config.Config, runID string) ([]report.Decision, error) {
	store, err := openLedger(settings)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	decisions, err := store.Decisions(ctx, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load decisions: %w", err)
	}
	if len(decisions) == 0 {
		return nil, fmt.Errorf("run %q not found", runID)
	}
	return report.NewDecisions(decisions), nil
}

// openLedger opens an existing ledger without creating one
func openLedger(settings *config.Config) (*ledger.Store, error) {
	settings, err := resolveSettings(settings)
	if err != nil {
		return nil, err
	}
	path := settings.Ledger.Path
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s", ErrNoLedger, path)
	}
	store, err := ledger.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	return store, nil
}
