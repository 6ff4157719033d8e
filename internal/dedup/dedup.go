// Package dedup removes near-duplicate documents from a corpus using
// MinHash signatures and LSH banding.
//
// A run has three stages:
//  1. Sign: normalize, shingle and sign every document. Documents are
//     independent, so this stage fans out over worker goroutines.
//  2. Candidates: bucket signatures band by band in index order. This stage
//     owns the only shared mutable state and runs on a single goroutine.
//  3. Resolve: verify each candidate pair by estimated similarity and
//     remove one member of every pair at or above the threshold.
//
// Usage Example:
//
//	opts := dedup.DefaultOptions()
//	result, err := dedup.Run(texts, opts)
//	for _, i := range result.Survivors {
//		// write texts[i]
//	}
package dedup

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/chriscorrea/winnow/internal/lsh"
	"github.com/chriscorrea/winnow/internal/minhash"
	"github.com/chriscorrea/winnow/internal/normalize"
	"github.com/chriscorrea/winnow/internal/shingle"
)

// Record is a signed document.
type Record struct {
	Index     int               // stable position in the input corpus
	Signature minhash.Signature // exactly NumHashes components
	Empty     bool              // no shingles; Signature is all zeros
	Length    int               // rune length of the original text
}

// Run deduplicates texts and reports which indices survive.
// An empty or single-document corpus yields no candidates and no removals.
func Run(texts []string, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	slog.Debug("Starting near-duplicate detection", "documents", len(texts), "numHashes", opts.NumHashes,
		"numBands", opts.NumBands, "ngramSize", opts.NgramSize, "mode", opts.Mode, "threshold", opts.Threshold)

	records := Sign(texts, opts)
	pairs := Candidates(records, opts)
	result := Resolve(records, pairs, opts)

	slog.Debug("Near-duplicate detection complete", "candidates", result.Candidates,
		"removed", len(result.Removed), "survivors", len(result.Survivors))
	return result, nil
}

// Sign computes a Record for every text. Records are returned in index
// order regardless of which worker produced them.
func Sign(texts []string, opts Options) []Record {
	records := make([]Record, len(texts))
	if len(texts) == 0 {
		return records
	}

	signer := minhash.NewSigner(opts.NumHashes)
	jobs := make(chan int)
	var done atomic.Int64
	var wg sync.WaitGroup

	workers := opts.workers(len(texts))
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				// each index is written by exactly one worker
				records[i] = signOne(signer, i, texts[i], opts)
				if opts.Progress != nil {
					opts.Progress(int(done.Add(1)), len(texts))
				}
			}
		}()
	}

	for i := range texts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	slog.Debug("Signatures computed", "documents", len(texts), "workers", workers)
	return records
}

func signOne(signer *minhash.Signer, index int, text string, opts Options) Record {
	shingles := shingle.Generate(normalize.Text(text), opts.NgramSize, opts.Mode)
	return Record{
		Index:     index,
		Signature: signer.Sign(shingles),
		Empty:     len(shingles) == 0,
		Length:    len([]rune(text)),
	}
}

// Candidates buckets records in slice order and returns the candidate
// pairs. Under EmptyKeep, empty records never enter a bucket.
func Candidates(records []Record, opts Options) []lsh.Pair {
	idx := lsh.NewIndex(opts.NumBands)
	skipped := 0
	for _, rec := range records {
		if rec.Empty && opts.Empty == EmptyKeep {
			skipped++
			continue
		}
		idx.Add(rec.Index, rec.Signature)
	}
	if skipped > 0 {
		slog.Debug("Excluded empty documents from candidate generation", "count", skipped)
	}
	return idx.Pairs()
}

// Describe summarizes the options for logs and run ledgers.
func (o Options) Describe() string {
	return fmt.Sprintf("hashes=%d bands=%d ngram=%d mode=%s threshold=%g keep=%s empty=%s",
		o.NumHashes, o.NumBands, o.NgramSize, o.Mode, o.Threshold, o.Keep, o.Empty)
}
