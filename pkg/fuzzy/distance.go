/*
Package fuzzy provides typo tolerant lookups for the suggestion engine.

It holds a Levenshtein distance with early abandonment and a BK-tree indexed by
that distance. The console falls back to the BK-tree when a prefix lookup finds
nothing, which usually means the user mistyped a command name.

	tree := fuzzy.NewBKTree()
	tree.InsertAll([]string{"help", "hello", "heap"})
	matches := tree.SearchWithin("hepl", 2)

Both structures are plain in-memory values and are not safe for concurrent
mutation. Callers that insert while reading must serialize access themselves.
*/
package fuzzy

// Distance returns the Levenshtein edit distance between a and b.
// Insertions, deletions and substitutions all cost 1. Strings are compared
// rune by rune with no case folding.
func Distance(a, b string) int {
	d, _ := BoundedDistance(a, b, -1)
	return d
}

// BoundedDistance computes the edit distance between a and b, giving up as
// soon as the result is known to exceed limit.
//
// When the distance is within limit it returns (d, true). Otherwise it returns
// (lb, false) where lb > limit is a lower bound of the real distance. A negative
// limit disables the bound.
func BoundedDistance(a, b string, limit int) (int, bool) {
	if a == b {
		return 0, true
	}

	ra := []rune(a)
	rb := []rune(b)

	// columns run over the shorter string
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	bounded := limit >= 0
	if diff := len(rb) - len(ra); bounded && diff > limit {
		return diff, false
	}
	if len(ra) == 0 {
		return len(rb), true
	}

	prev := make([]int, len(ra)+1)
	curr := make([]int, len(ra)+1)
	for i := range prev {
		prev[i] = i
	}

	for j := 1; j <= len(rb); j++ {
		curr[0] = j
		rowMin := curr[0]

		for i := 1; i <= len(ra); i++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[i] = min(
				prev[i]+1,
				curr[i-1]+1,
				prev[i-1]+cost,
			)
			if curr[i] < rowMin {
				rowMin = curr[i]
			}
		}

		// every later cell descends from this row, so the result only grows
		if bounded && rowMin > limit {
			return rowMin, false
		}
		prev, curr = curr, prev
	}

	d := prev[len(ra)]
	if bounded && d > limit {
		return d, false
	}
	return d, true
}
