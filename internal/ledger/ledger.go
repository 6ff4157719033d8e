// Package ledger records curation runs in a SQLite database so every
// keep or drop decision can be audited after the fact.
//
// Each run gets a UUID. For every input document the ledger stores its
// status (kept, duplicate, or filtered), the survivor it duplicated and
// the estimated similarity, or the filter reason.
//
// Usage Example:
//
//	store, err := ledger.Open("winnow.db")
//	if err != nil {
//		return err
//	}
//	defer store.Close()
//	err = store.RecordRun(ctx, run)
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the outcome recorded for a document.
type Status string

const (
	StatusKept      Status = "kept"
	StatusDuplicate Status = "duplicate"
	StatusFiltered  Status = "filtered"
)

// Decision is the outcome for one input document.
type Decision struct {
	DocIndex    int
	Name        string
	Status      Status
	DuplicateOf int     // survivor index for StatusDuplicate, otherwise -1
	Similarity  float64 // estimated Jaccard similarity for StatusDuplicate
	Reason      string  // filter reason for StatusFiltered
}

// Run is one invocation of the curation pipeline.
type Run struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time
	Sources    []string
	Options    string // human-readable dedup settings
	Documents  int
	Kept       int
	Decisions  []Decision
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// Store is a ledger database handle.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or opens the ledger at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("ensure ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordRun stores a run and all of its decisions in one transaction.
// A run without an ID is assigned one.
func (s *Store) RecordRun(ctx context.Context, run *Run) error {
	if run.ID == "" {
		run.ID = NewRunID()
	}
	sourcesJSON, err := json.Marshal(run.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, finished_at, sources_json, options, documents, kept)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		string(sourcesJSON),
		run.Options,
		run.Documents,
		run.Kept,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO decisions (run_id, doc_index, name, status, duplicate_of, similarity, reason)
         VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare decision insert: %w", err)
	}
	defer stmt.Close()

	for _, d := range run.Decisions {
		var dupOf, sim, reason any
		if d.Status == StatusDuplicate {
			dupOf, sim = d.DuplicateOf, d.Similarity
		}
		if d.Reason != "" {
			reason = d.Reason
		}
		if _, err := stmt.ExecContext(ctx, run.ID, d.DocIndex, d.Name, string(d.Status), dupOf, sim, reason); err != nil {
			return fmt.Errorf("insert decision %d: %w", d.DocIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// Runs lists recorded runs, newest first. Decisions are not loaded.
func (s *Store) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, finished_at, sources_json, options, documents, kept
         FROM runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished, sourcesJSON string
		if err := rows.Scan(&run.ID, &started, &finished, &sourcesJSON, &run.Options, &run.Documents, &run.Kept); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		run.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		run.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		if err := json.Unmarshal([]byte(sourcesJSON), &run.Sources); err != nil {
			return nil, fmt.Errorf("decode sources for run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Decisions returns the decisions recorded for runID, ordered by document.
func (s *Store) Decisions(ctx context.Context, runID string) ([]Decision, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT doc_index, name, status, duplicate_of, similarity, reason
         FROM decisions WHERE run_id = ? ORDER BY doc_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query decisions: %w", err)
	}
	defer rows.Close()

	var decisions []Decision
	for rows.Next() {
		var (
			d      Decision
			status string
			dupOf  sql.NullInt64
			sim    sql.NullFloat64
			reason sql.NullString
		)
		if err := rows.Scan(&d.DocIndex, &d.Name, &status, &dupOf, &sim, &reason); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		d.Status = Status(status)
		d.DuplicateOf = -1
		if dupOf.Valid {
			d.DuplicateOf = int(dupOf.Int64)
		}
		d.Similarity = sim.Float64
		d.Reason = reason.String
		decisions = append(decisions, d)
	}
	return decisions, rows.Err()
}
