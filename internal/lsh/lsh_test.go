package lsh

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/winnow/internal/minhash"
	"github.com/chriscorrea/winnow/internal/normalize"
	"github.com/chriscorrea/winnow/internal/shingle"
)

func seq(n int) minhash.Signature {
	sig := make(minhash.Signature, n)
	for i := range sig {
		sig[i] = int32(i)
	}
	return sig
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name     string
		length   int
		numBands int
		sizes    []int
	}{
		{"even split", 16, 4, []int{4, 4, 4, 4}},
		{"remainder folded into last band", 16, 5, []int{3, 3, 3, 3, 4}},
		{"single band", 7, 1, []int{7}},
		{"one row per band", 4, 4, []int{1, 1, 1, 1}},
		{"more bands than rows", 3, 8, []int{1, 1, 1}},
		{"zero bands treated as one", 5, 0, []int{5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := seq(tt.length)
			bands := Partition(sig, tt.numBands)
			require.Len(t, bands, len(tt.sizes))

			var rejoined minhash.Signature
			for i, band := range bands {
				assert.Len(t, band, tt.sizes[i], "band %d", i)
				rejoined = append(rejoined, band...)
			}
			assert.Equal(t, sig, rejoined, "bands must be contiguous and cover the signature")
		})
	}

	assert.Nil(t, Partition(nil, 4))
}

func TestKeys(t *testing.T) {
	a := minhash.Signature{1, 2, 3, 4, 5, 6, 7, 8}
	b := minhash.Signature{1, 2, 3, 4, 9, 9, 9, 9}

	ka := Keys(a, 2)
	kb := Keys(b, 2)
	require.Len(t, ka, 2)
	require.Len(t, kb, 2)

	assert.Equal(t, 0, ka[0].Band)
	assert.Equal(t, 1, ka[1].Band)
	assert.Equal(t, ka[0], kb[0], "equal first bands share a bucket")
	assert.NotEqual(t, ka[1], kb[1])

	// identical contents in different band positions are different buckets
	c := minhash.Signature{5, 5, 5, 5}
	kc := Keys(c, 2)
	assert.NotEqual(t, kc[0], kc[1])
}

func TestIndex_IncrementalPairs(t *testing.T) {
	idx := NewIndex(2)
	idx.Add(0, minhash.Signature{1, 1, 2, 2})
	idx.Add(1, minhash.Signature{1, 1, 3, 3}) // shares band 0 with doc 0
	idx.Add(2, minhash.Signature{4, 4, 2, 2}) // shares band 1 with doc 0
	idx.Add(3, minhash.Signature{1, 1, 2, 2}) // shares both bands with doc 0

	assert.Equal(t, []Pair{{0, 1}, {0, 2}, {0, 3}, {1, 3}, {2, 3}}, idx.Pairs())
	assert.Equal(t, 5, idx.Len())
}

func TestIndex_PairRecordedOnce(t *testing.T) {
	sig := seq(16)
	idx := NewIndex(8)
	idx.Add(0, sig)
	idx.Add(1, sig)
	assert.Equal(t, []Pair{{0, 1}}, idx.Pairs())
	assert.Equal(t, 8, idx.Buckets())
}

func TestIndex_OutOfOrderIndicesStayOrdered(t *testing.T) {
	idx := NewIndex(1)
	idx.Add(5, seq(4))
	idx.Add(2, seq(4))
	assert.Equal(t, []Pair{{2, 5}}, idx.Pairs())
}

func TestCandidates_EmptyAndSingleton(t *testing.T) {
	assert.Empty(t, Candidates(nil, 4))
	assert.Empty(t, Candidates([]minhash.Signature{seq(16)}, 4))
}

func TestCandidates_MonotonicInBands(t *testing.T) {
	texts := []string{
		"the cat sat on the mat",
		"the cat sat on a mat",
		"the cat sat on the hat",
		"a dog slept under the table",
		"the dog slept under the table",
		"completely different text here",
		"completely different text there",
	}
	signer := minhash.NewSigner(32)
	sigs := make([]minhash.Signature, len(texts))
	for i, text := range texts {
		sigs[i] = signer.Sign(shingle.Generate(normalize.Text(text), 3, shingle.Chars))
	}

	// band counts whose rows nest: a wider band agreeing implies every
	// narrower band inside it agrees
	bandCounts := []int{32, 16, 8, 4, 2, 1}
	previous := toSet(Candidates(sigs, bandCounts[0]))
	for _, b := range bandCounts[1:] {
		current := toSet(Candidates(sigs, b))
		for p := range current {
			assert.Contains(t, previous, p, "pair %v appeared when bands dropped to %d", p, b)
		}
		previous = current
	}
}

func TestNewPair(t *testing.T) {
	assert.Equal(t, Pair{A: 1, B: 4}, NewPair(4, 1))
	assert.Equal(t, Pair{A: 1, B: 4}, NewPair(1, 4))
}

func toSet(pairs []Pair) map[Pair]struct{} {
	set := make(map[Pair]struct{}, len(pairs))
	for _, p := range pairs {
		set[p] = struct{}{}
	}
	return set
}
