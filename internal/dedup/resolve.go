package dedup

import (
	"sort"

	"github.com/chriscorrea/winnow/internal/lsh"
	"github.com/chriscorrea/winnow/internal/minhash"
)

// Match is a verified duplicate pair.
type Match struct {
	Survivor   int
	Removed    int
	Similarity float64
}

// Result is the outcome of resolving a candidate set.
type Result struct {
	Removed    []int   // sorted indices marked as duplicates
	Survivors  []int   // sorted indices to keep
	Candidates int     // candidate pairs examined
	Matches    []Match // verified pairs in candidate order
	Clusters   [][]int // documents joined by verified matches, size >= 2

	removed map[int]struct{}
}

// IsRemoved reports whether index i was marked as a duplicate.
func (r *Result) IsRemoved(i int) bool {
	_, ok := r.removed[i]
	return ok
}

// DuplicateOf returns the first verified match that removed index i.
func (r *Result) DuplicateOf(i int) (Match, bool) {
	for _, m := range r.Matches {
		if m.Removed == i {
			return m, true
		}
	}
	return Match{}, false
}

// Resolve verifies candidate pairs against the threshold. For each pair
// whose estimated similarity meets it, the keep policy picks one member to
// remove. Removal is a set: a document removed by several pairs is counted
// once, and a removed document still removes its own partners. Resolve is
// deterministic and idempotent for a given input.
func Resolve(records []Record, pairs []lsh.Pair, opts Options) *Result {
	byIndex := make(map[int]Record, len(records))
	for _, rec := range records {
		byIndex[rec.Index] = rec
	}

	result := &Result{
		Candidates: len(pairs),
		removed:    make(map[int]struct{}),
	}

	for _, p := range pairs {
		a, okA := byIndex[p.A]
		b, okB := byIndex[p.B]
		if !okA || !okB {
			continue
		}
		if opts.Empty == EmptyKeep && (a.Empty || b.Empty) {
			continue
		}

		sim := minhash.EstimateSimilarity(a.Signature, b.Signature)
		if sim < opts.Threshold {
			continue
		}

		loser := opts.Keep.loser(a, b)
		survivor := a.Index
		if loser == a.Index {
			survivor = b.Index
		}
		result.removed[loser] = struct{}{}
		result.Matches = append(result.Matches, Match{Survivor: survivor, Removed: loser, Similarity: sim})
	}

	for _, rec := range records {
		if result.IsRemoved(rec.Index) {
			result.Removed = append(result.Removed, rec.Index)
		} else {
			result.Survivors = append(result.Survivors, rec.Index)
		}
	}
	sort.Ints(result.Removed)
	sort.Ints(result.Survivors)

	result.Clusters = clusters(result.Matches)
	return result
}

// clusters groups documents transitively connected by matches using
// union-find, returning each group sorted and the groups ordered by their
// smallest member.
func clusters(matches []Match) [][]int {
	if len(matches) == 0 {
		return nil
	}

	parent := make(map[int]int)
	var find func(int) int
	find = func(x int) int {
		p, ok := parent[x]
		if !ok {
			parent[x] = x
			return x
		}
		if p != x {
			parent[x] = find(p)
		}
		return parent[x]
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// smaller root wins so the representative is the lowest index
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	for _, m := range matches {
		union(m.Survivor, m.Removed)
	}

	groups := make(map[int][]int)
	for x := range parent {
		r := find(x)
		groups[r] = append(groups[r], x)
	}

	out := make([][]int, 0, len(groups))
	for _, members := range groups {
		if len(members) < 2 {
			continue
		}
		sort.Ints(members)
		out = append(out, members)
	}
	sort.Slice(out, func(i, j int) bool { return out[i][0] < out[j][0] })
	return out
}
