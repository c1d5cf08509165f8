package suggest

// TopK is the number of suggestions returned by every lookup and kept in
// every trie node cache.
const TopK = 5

// MergeTopK merges two ascending, duplicate free lists into one ascending,
// duplicate free list of at most TopK words.
//
// When one side is empty the other side is returned as is (capped), without
// copying. Neither input is ever modified, so callers may pass node caches.
func MergeTopK(a, b []string) []string {
	if len(a) == 0 {
		return capTopK(b)
	}
	if len(b) == 0 {
		return capTopK(a)
	}

	out := make([]string, 0, TopK)
	i, j := 0, 0
	for len(out) < TopK && (i < len(a) || j < len(b)) {
		switch {
		case j >= len(b):
			out = append(out, a[i])
			i++
		case i >= len(a):
			out = append(out, b[j])
			j++
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// cachePush returns cache with word merged in.
func cachePush(cache []string, word string) []string {
	if len(cache) == TopK && word > cache[TopK-1] {
		return cache
	}
	return MergeTopK(cache, []string{word})
}

// cacheSeed merges an ascending seed of any length into target.
// An empty seed leaves target untouched.
func cacheSeed(target, seed []string) []string {
	if len(seed) == 0 {
		return target
	}
	return MergeTopK(target, capTopK(seed))
}

func capTopK(words []string) []string {
	if len(words) > TopK {
		return words[:TopK:TopK]
	}
	return words
}
