package minhash_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriscorrea/winnow/internal/minhash"
	"github.com/chriscorrea/winnow/internal/normalize"
	"github.com/chriscorrea/winnow/internal/shingle"
)

func sign(t *testing.T, numHashes int, text string) minhash.Signature {
	t.Helper()
	shingles := shingle.Generate(normalize.Text(text), 3, shingle.Chars)
	return minhash.NewSigner(numHashes).Sign(shingles)
}

func TestSign_Length(t *testing.T) {
	texts := []string{"", "a", "ab", "the cat sat on the mat", "completely different text here"}
	for _, numHashes := range []int{1, 16, 100, 128} {
		for _, text := range texts {
			sig := sign(t, numHashes, text)
			assert.Len(t, sig, numHashes, "text %q", text)
		}
	}
}

func TestSign_EmptyShinglesAreZero(t *testing.T) {
	sig := minhash.NewSigner(16).Sign(nil)
	require.Len(t, sig, 16)
	assert.True(t, sig.IsZero())

	sig = sign(t, 16, "ab") // shorter than the 3-char shingle width
	assert.True(t, sig.IsZero())
}

func TestSign_Deterministic(t *testing.T) {
	a := sign(t, 64, "The quick brown fox jumps over the lazy dog")
	b := sign(t, 64, "the quick brown fox, jumps over the lazy dog!")
	assert.True(t, a.Equal(b), "identical normalized text must sign identically")
	assert.False(t, a.IsZero())
}

func TestSign_DuplicateShinglesIgnored(t *testing.T) {
	signer := minhash.NewSigner(32)
	a := signer.Sign([]string{"abc", "bcd"})
	b := signer.Sign([]string{"abc", "bcd", "abc", "bcd", "bcd"})
	assert.Equal(t, a, b)
}

func TestSign_ComponentIsMinimum(t *testing.T) {
	shingles := []string{"alpha", "beta", "gamma"}
	sig := minhash.NewSigner(8).Sign(shingles)
	for k, v := range sig {
		lowest := minhash.Hash([]byte(shingles[0]), uint32(k))
		for _, s := range shingles[1:] {
			lowest = min(lowest, minhash.Hash([]byte(s), uint32(k)))
		}
		assert.Equal(t, lowest, v, "component %d", k)
	}
}

func TestNewSigner_Negative(t *testing.T) {
	signer := minhash.NewSigner(-3)
	assert.Equal(t, 0, signer.NumHashes())
	assert.Empty(t, signer.Sign([]string{"abc"}))
}

func TestEstimateSimilarity(t *testing.T) {
	a := sign(t, 128, "the cat sat on the mat")
	b := sign(t, 128, "the cat sat on the hat")
	c := sign(t, 128, "completely different text here")

	t.Run("self similarity", func(t *testing.T) {
		assert.Equal(t, 1.0, minhash.EstimateSimilarity(a, a))
		assert.Equal(t, 1.0, minhash.EstimateSimilarity(c, c))
	})

	t.Run("symmetric", func(t *testing.T) {
		assert.Equal(t, minhash.EstimateSimilarity(a, b), minhash.EstimateSimilarity(b, a))
		assert.Equal(t, minhash.EstimateSimilarity(a, c), minhash.EstimateSimilarity(c, a))
	})

	t.Run("near duplicate beats unrelated", func(t *testing.T) {
		assert.Greater(t, minhash.EstimateSimilarity(a, b), minhash.EstimateSimilarity(a, c))
	})

	t.Run("empty signature", func(t *testing.T) {
		assert.Equal(t, 0.0, minhash.EstimateSimilarity(nil, a))
		assert.Equal(t, 0.0, minhash.EstimateSimilarity(a, minhash.Signature{}))
	})

	t.Run("degenerate zero signatures look identical", func(t *testing.T) {
		z1 := minhash.NewSigner(16).Sign(nil)
		z2 := minhash.NewSigner(16).Sign([]string{})
		assert.Equal(t, 1.0, minhash.EstimateSimilarity(z1, z2))
	})

	t.Run("mismatched lengths stay symmetric", func(t *testing.T) {
		short := minhash.Signature{1, 2, 3}
		long := minhash.Signature{1, 2, 3, 4, 5, 6}
		assert.Equal(t, 0.5, minhash.EstimateSimilarity(short, long))
		assert.Equal(t, 0.5, minhash.EstimateSimilarity(long, short))
	})
}
