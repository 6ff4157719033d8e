// Package minhash computes MinHash signatures over shingle sets.
//
// A signature has one component per hash function; component k is the
// minimum, over every shingle, of MurmurHash3 (x86, 32-bit) seeded with k.
// The probability that two signatures agree on a component approximates
// the Jaccard similarity of the underlying shingle sets, so the fraction
// of agreeing components is an unbiased estimate of it.
//
// Usage Example:
//
//	signer := minhash.NewSigner(128)
//	a := signer.Sign(shingle.Generate(normalize.Text(docA), 5, shingle.Chars))
//	b := signer.Sign(shingle.Generate(normalize.Text(docB), 5, shingle.Chars))
//	sim := minhash.EstimateSimilarity(a, b)
package minhash

import (
	"math"

	"github.com/spaolacci/murmur3"
)

// Signature is an ordered sequence of minimum hash values.
// Values are the signed interpretation of the 32-bit hash.
type Signature []int32

// Signer produces fixed-length signatures. A Signer holds no mutable
// state and is safe for concurrent use.
type Signer struct {
	numHashes int
}

// NewSigner creates a Signer producing signatures of numHashes components.
// Non-positive values produce empty signatures.
func NewSigner(numHashes int) *Signer {
	if numHashes < 0 {
		numHashes = 0
	}
	return &Signer{numHashes: numHashes}
}

// NumHashes returns the signature length this Signer produces.
func (s *Signer) NumHashes() int {
	return s.numHashes
}

// Sign returns the signature of the given shingles. Duplicate shingles do
// not change the result. An empty shingle sequence yields an all-zero
// signature of full length.
func (s *Signer) Sign(shingles []string) Signature {
	sig := make(Signature, s.numHashes)
	if len(shingles) == 0 {
		return sig
	}

	for k := range sig {
		sig[k] = math.MaxInt32
	}

	// hash each shingle's bytes once per seed; the byte conversion is
	// shared across all seeds
	for _, sh := range shingles {
		data := []byte(sh)
		for k := range sig {
			h := Hash(data, uint32(k))
			if h < sig[k] {
				sig[k] = h
			}
		}
	}
	return sig
}

// Hash returns the seeded MurmurHash3 of data as a signed 32-bit value.
func Hash(data []byte, seed uint32) int32 {
	return int32(murmur3.Sum32WithSeed(data, seed))
}

// IsZero reports whether every component of sig is zero, the sentinel
// produced for an empty shingle set.
func (sig Signature) IsZero() bool {
	for _, v := range sig {
		if v != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether two signatures have identical components.
func (sig Signature) Equal(other Signature) bool {
	if len(sig) != len(other) {
		return false
	}
	for i := range sig {
		if sig[i] != other[i] {
			return false
		}
	}
	return true
}

// EstimateSimilarity returns the fraction of components on which a and b
// agree. If either signature is empty the estimate is 0. Signatures of
// different lengths compare their common prefix over the longer length,
// which keeps the estimator symmetric.
func EstimateSimilarity(a, b Signature) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	n := min(len(a), len(b))
	matches := 0
	for i := 0; i < n; i++ {
		if a[i] == b[i] {
			matches++
		}
	}
	return float64(matches) / float64(max(len(a), len(b)))
}
