package suggest

import (
	"slices"
	"strings"
)

// RadixTrie is a compressed prefix trie that answers "smallest TopK words
// starting with p" from per-node caches instead of subtree scans.
//
// Every node caches the TopK smallest words of its subtree. Inserts push the
// new word into the cache of each node on their path, so an insert costs
// O(len(word)) cache merges and a lookup never walks below the node where the
// prefix ends.
//
// A RadixTrie is not safe for concurrent use.
type RadixTrie struct {
	root *radixNode
	size int
}

type radixNode struct {
	// outgoing edges, ascending by label; siblings never share a first byte
	edges    []*radixEdge
	cache    []string
	terminal bool
}

type radixEdge struct {
	label string
	child *radixNode
}

// NewRadixTrie creates an empty trie.
func NewRadixTrie() *RadixTrie {
	return &RadixTrie{root: &radixNode{}}
}

// Insert adds word to the trie. Empty words are ignored and inserting a word
// twice has no visible effect.
func (t *RadixTrie) Insert(word string) {
	if word == "" {
		return
	}

	n := t.root
	n.cache = cachePush(n.cache, word)
	rem := word

	for {
		i, e := n.dispatch(rem)
		if e == nil {
			leaf := &radixNode{terminal: true, cache: []string{word}}
			n.edges = slices.Insert(n.edges, i, &radixEdge{label: rem, child: leaf})
			t.size++
			return
		}

		l := commonPrefixLen(rem, e.label)
		switch {
		case l == len(e.label) && l == len(rem):
			e.child.cache = cachePush(e.child.cache, word)
			if !e.child.terminal {
				e.child.terminal = true
				t.size++
			}
			return

		case l == len(e.label):
			e.child.cache = cachePush(e.child.cache, word)
			n = e.child
			rem = rem[l:]

		default:
			t.split(e, l, word, rem)
			return
		}
	}
}

// split cuts e after its first l bytes and hangs word's remainder off the new
// intermediate node. The intermediate node inherits the old child's cache,
// which already covers its whole subtree.
func (t *RadixTrie) split(e *radixEdge, l int, word, rem string) {
	mid := &radixNode{
		edges: []*radixEdge{{label: e.label[l:], child: e.child}},
		cache: cacheSeed(nil, e.child.cache),
	}
	mid.cache = cachePush(mid.cache, word)

	e.label = e.label[:l]
	e.child = mid

	if l == len(rem) {
		mid.terminal = true
	} else {
		leaf := &radixNode{terminal: true, cache: []string{word}}
		i, _ := mid.dispatch(rem[l:])
		mid.edges = slices.Insert(mid.edges, i, &radixEdge{label: rem[l:], child: leaf})
	}
	t.size++
}

// InsertAll inserts every entry of words. A nil slice is a no-op and empty
// entries are skipped.
func (t *RadixTrie) InsertAll(words []string) {
	for _, w := range words {
		t.Insert(w)
	}
}

// SuggestTopK returns the TopK smallest words starting with prefix, in
// ascending byte order. An empty prefix returns the global TopK.
//
// If prefix starts with an ASCII letter, words starting with the prefix with
// only its first letter's case flipped are merged in, so "he" also finds "Help".
func (t *RadixTrie) SuggestTopK(prefix string) []string {
	if prefix == "" {
		return ownedCopy(t.root.cache)
	}

	found := t.suggestOneCase(prefix)
	if isASCIILetter(prefix[0]) {
		found = MergeTopK(found, t.suggestOneCase(toggleFirstCase(prefix)))
	}
	return ownedCopy(found)
}

// suggestOneCase walks prefix exactly and returns the cache of the node where
// it ends. The returned slice is internal state and must not be modified.
func (t *RadixTrie) suggestOneCase(prefix string) []string {
	n := t.root
	rem := prefix

	for {
		_, e := n.dispatch(rem)
		if e == nil {
			return nil
		}

		l := commonPrefixLen(rem, e.label)
		switch {
		case l == len(rem):
			// prefix ends on or inside e, every word below shares e's full label
			return e.child.cache
		case l == len(e.label):
			n = e.child
			rem = rem[l:]
		default:
			return nil
		}
	}
}

// dispatch finds the edge of n sharing a first byte with key. It returns the
// lower bound of key among n's labels, which is also where a new edge for key
// belongs, and the matching edge or nil.
func (n *radixNode) dispatch(key string) (int, *radixEdge) {
	i, _ := slices.BinarySearchFunc(n.edges, key, func(e *radixEdge, k string) int {
		return strings.Compare(e.label, k)
	})

	var best *radixEdge
	bestLen := 0
	for p := i - 1; p <= i+1; p++ {
		if p < 0 || p >= len(n.edges) {
			continue
		}
		if l := commonPrefixLen(n.edges[p].label, key); l > bestLen {
			best, bestLen = n.edges[p], l
		}
	}
	return i, best
}

// Contains reports whether word itself was inserted, not merely a longer word
// starting with it.
func (t *RadixTrie) Contains(word string) bool {
	if word == "" {
		return false
	}

	n := t.root
	rem := word
	for rem != "" {
		_, e := n.dispatch(rem)
		if e == nil || !strings.HasPrefix(rem, e.label) {
			return false
		}
		n = e.child
		rem = rem[len(e.label):]
	}
	return n.terminal
}

// Len returns the number of distinct words in the trie.
func (t *RadixTrie) Len() int {
	return t.size
}

// Clear resets the trie to empty. Previous nodes become unreachable.
func (t *RadixTrie) Clear() {
	t.root = &radixNode{}
	t.size = 0
}

func commonPrefixLen(a, b string) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return i
		}
	}
	return n
}

func isASCIILetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// toggleFirstCase flips the case of s's first byte when it is an ASCII letter.
func toggleFirstCase(s string) string {
	if s == "" || !isASCIILetter(s[0]) {
		return s
	}
	return string(s[0]^0x20) + s[1:]
}

func ownedCopy(words []string) []string {
	out := make([]string, len(words))
	copy(out, words)
	return out
}
