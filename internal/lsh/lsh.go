// Package lsh implements locality-sensitive hashing by banding MinHash
// signatures.
//
// A signature of length h is cut into b contiguous bands of h/b rows; any
// remainder rows are folded into the last band. Two documents whose
// signatures agree on every row of at least one band land in the same
// bucket and become a candidate pair. More bands with fewer rows raise
// recall and lower precision; fewer, wider bands do the opposite.
//
// Usage Example:
//
//	idx := lsh.NewIndex(16)
//	for i, sig := range signatures {
//		idx.Add(i, sig)
//	}
//	pairs := idx.Pairs()
package lsh

import (
	"encoding/binary"
	"log/slog"
	"sort"

	"github.com/spaolacci/murmur3"

	"github.com/chriscorrea/winnow/internal/minhash"
)

// Key identifies a bucket: the band position plus a fixed-width digest of
// the band's contents.
type Key struct {
	Band   int
	Hi, Lo uint64
}

// Pair is an unordered candidate pair stored with A < B.
type Pair struct {
	A, B int
}

// NewPair orders two document indices into a Pair.
func NewPair(i, j int) Pair {
	if i > j {
		i, j = j, i
	}
	return Pair{A: i, B: j}
}

// effectiveBands clamps numBands to [1, length] so no band is empty.
func effectiveBands(length, numBands int) int {
	if numBands <= 0 {
		numBands = 1
	}
	if length > 0 && numBands > length {
		numBands = length
	}
	return numBands
}

// Partition cuts sig into numBands contiguous slices of len(sig)/numBands
// components, appending remainder rows to the final slice. The returned
// slices alias sig.
func Partition(sig minhash.Signature, numBands int) []minhash.Signature {
	if len(sig) == 0 {
		return nil
	}

	numBands = effectiveBands(len(sig), numBands)
	rows := len(sig) / numBands

	bands := make([]minhash.Signature, numBands)
	for b := 0; b < numBands; b++ {
		start := b * rows
		end := start + rows
		if b == numBands-1 {
			end = len(sig)
		}
		bands[b] = sig[start:end]
	}
	return bands
}

// Keys returns the bucket key of every band of sig.
func Keys(sig minhash.Signature, numBands int) []Key {
	bands := Partition(sig, numBands)
	keys := make([]Key, len(bands))

	buf := make([]byte, 0, 4*len(sig))
	for b, band := range bands {
		buf = buf[:0]
		for _, v := range band {
			buf = binary.LittleEndian.AppendUint32(buf, uint32(v))
		}
		hi, lo := murmur3.Sum128(buf)
		keys[b] = Key{Band: b, Hi: hi, Lo: lo}
	}
	return keys
}

// Index buckets signatures incrementally and accumulates candidate pairs.
// An Index is not safe for concurrent use; documents must be added in the
// order that defines "first seen".
type Index struct {
	numBands int
	buckets  map[Key][]int
	pairs    map[Pair]struct{}
	added    int
}

// NewIndex creates an empty Index that cuts signatures into numBands bands.
func NewIndex(numBands int) *Index {
	return &Index{
		numBands: numBands,
		buckets:  make(map[Key][]int),
		pairs:    make(map[Pair]struct{}),
	}
}

// Add buckets doc by every band of sig. For each band, every document
// already in the bucket forms a candidate pair with doc; doc then joins
// the bucket.
func (idx *Index) Add(doc int, sig minhash.Signature) {
	for _, key := range Keys(sig, idx.numBands) {
		occupants := idx.buckets[key]
		for _, other := range occupants {
			if other == doc {
				continue
			}
			idx.pairs[NewPair(doc, other)] = struct{}{}
		}
		idx.buckets[key] = append(occupants, doc)
	}
	idx.added++
}

// Pairs returns the candidate set sorted by (A, B).
func (idx *Index) Pairs() []Pair {
	pairs := make([]Pair, 0, len(idx.pairs))
	for p := range idx.pairs {
		pairs = append(pairs, p)
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})

	slog.Debug("LSH candidates collected", "documents", idx.added, "buckets", len(idx.buckets), "pairs", len(pairs))
	return pairs
}

// Len returns the number of distinct candidate pairs.
func (idx *Index) Len() int {
	return len(idx.pairs)
}

// Buckets returns the number of non-empty buckets.
func (idx *Index) Buckets() int {
	return len(idx.buckets)
}

// Candidates is a convenience that indexes sigs in slice order and
// returns the resulting candidate pairs.
func Candidates(sigs []minhash.Signature, numBands int) []Pair {
	idx := NewIndex(numBands)
	for i, sig := range sigs {
		idx.Add(i, sig)
	}
	return idx.Pairs()
}
