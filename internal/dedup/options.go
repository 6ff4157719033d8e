package dedup

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/chriscorrea/winnow/internal/shingle"
)

// ErrInvalidOptions is returned when Options fail validation.
var ErrInvalidOptions = errors.New("invalid dedup options")

// KeepPolicy decides which member of a verified duplicate pair survives.
type KeepPolicy int

const (
	// KeepFirst keeps the lower-indexed ("first seen") document (default)
	KeepFirst KeepPolicy = iota
	// KeepLongest keeps the document with the longer original text; ties keep the lower index
	KeepLongest
)

// String returns the string representation of the policy.
func (p KeepPolicy) String() string {
	switch p {
	case KeepFirst:
		return "first"
	case KeepLongest:
		return "longest"
	default:
		return "unknown"
	}
}

// ParseKeepPolicy resolves a configuration string to a KeepPolicy.
func ParseKeepPolicy(s string) (KeepPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first", "lowest-index":
		return KeepFirst, nil
	case "longest":
		return KeepLongest, nil
	default:
		return KeepFirst, fmt.Errorf("unknown keep policy %q", s)
	}
}

// loser returns the index of the record to remove from a verified pair.
// a always has the lower index.
func (p KeepPolicy) loser(a, b Record) int {
	switch p {
	case KeepLongest:
		if b.Length > a.Length {
			return a.Index
		}
		return b.Index
	default:
		return b.Index
	}
}

// EmptyPolicy decides how documents with no shingles are treated.
// Every such document signs to the all-zero signature, so left alone they
// all collide with each other at similarity 1.
type EmptyPolicy int

const (
	// EmptyAsDuplicate lets empty documents deduplicate against each other (default)
	EmptyAsDuplicate EmptyPolicy = iota
	// EmptyKeep excludes empty documents from candidate generation; they always survive
	EmptyKeep
)

// String returns the string representation of the policy.
func (p EmptyPolicy) String() string {
	switch p {
	case EmptyAsDuplicate:
		return "duplicate"
	case EmptyKeep:
		return "keep"
	default:
		return "unknown"
	}
}

// ParseEmptyPolicy resolves a configuration string to an EmptyPolicy.
func ParseEmptyPolicy(s string) (EmptyPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "duplicate", "dedupe":
		return EmptyAsDuplicate, nil
	case "keep", "exclude":
		return EmptyKeep, nil
	default:
		return EmptyAsDuplicate, fmt.Errorf("unknown empty-document policy %q", s)
	}
}

// Options holds the parameters of one deduplication run. Every field
// affects the outcome except Workers and Progress.
type Options struct {
	NumHashes int          // signature length
	NumBands  int          // LSH bands per signature
	NgramSize int          // shingle width
	Mode      shingle.Mode // character or word shingles
	Threshold float64      // estimated Jaccard similarity at or above which a pair is a duplicate
	Keep      KeepPolicy
	Empty     EmptyPolicy

	// Workers bounds signature computation parallelism; <= 0 means runtime.NumCPU.
	Workers int
	// Progress, when set, is called from worker goroutines after each
	// document is signed. It must be safe for concurrent use.
	Progress func(done, total int)
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		NumHashes: 128,
		NumBands:  16,
		NgramSize: 5,
		Mode:      shingle.Chars,
		Threshold: 0.8,
		Keep:      KeepFirst,
		Empty:     EmptyAsDuplicate,
		Workers:   runtime.NumCPU(),
	}
}

// Validate checks that the options describe a runnable configuration.
// A band count that does not divide NumHashes is valid.
func (o Options) Validate() error {
	var problems []string
	if o.NumHashes <= 0 {
		problems = append(problems, fmt.Sprintf("num_hashes must be positive (got %d)", o.NumHashes))
	}
	if o.NumBands <= 0 {
		problems = append(problems, fmt.Sprintf("num_bands must be positive (got %d)", o.NumBands))
	}
	if o.NumHashes > 0 && o.NumBands > o.NumHashes {
		problems = append(problems, fmt.Sprintf("num_bands (%d) cannot exceed num_hashes (%d)", o.NumBands, o.NumHashes))
	}
	if o.NgramSize <= 0 {
		problems = append(problems, fmt.Sprintf("ngram_size must be positive (got %d)", o.NgramSize))
	}
	if o.Threshold < 0 || o.Threshold > 1 {
		problems = append(problems, fmt.Sprintf("jaccard_threshold must be within [0, 1] (got %g)", o.Threshold))
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, strings.Join(problems, "; "))
	}
	return nil
}

func (o Options) workers(total int) int {
	w := o.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if w > total {
		w = total
	}
	return max(w, 1)
}
