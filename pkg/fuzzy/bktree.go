package fuzzy

import (
	"math"
	"slices"
)

// MaxResults caps the number of words returned by SearchWithin.
const MaxResults = 5

// maxThreshold caps search thresholds so window arithmetic stays in range.
const maxThreshold = math.MaxInt / 4

// BKTree is a Burkhard-Keller tree over Levenshtein distance.
type BKTree struct {
	root *bkNode
	size int
}

type bkNode struct {
	word     string
	children map[int]*bkNode
	// largest key in children, bounds the distance work during search
	maxKey int
}

// NewBKTree creates an empty tree.
func NewBKTree() *BKTree {
	return &BKTree{}
}

// Insert adds word to the tree. Empty words and words already present are ignored.
func (t *BKTree) Insert(word string) {
	if word == "" {
		return
	}
	if t.root == nil {
		t.root = newBKNode(word)
		t.size++
		return
	}

	current := t.root
	for {
		d := Distance(word, current.word)
		if d == 0 {
			return
		}
		child, ok := current.children[d]
		if !ok {
			current.children[d] = newBKNode(word)
			if d > current.maxKey {
				current.maxKey = d
			}
			t.size++
			return
		}
		current = child
	}
}

// InsertAll inserts every word of words, skipping empty entries.
func (t *BKTree) InsertAll(words []string) {
	for _, w := range words {
		t.Insert(w)
	}
}

// SearchWithin returns up to MaxResults words whose edit distance to query is
// at most threshold, sorted ascending. The result is a fresh slice owned by the caller.
func (t *BKTree) SearchWithin(query string, threshold int) []string {
	if t.root == nil || threshold < 0 {
		return []string{}
	}

	// no distance exceeds the longer word's rune count, so this never drops a match
	threshold = min(threshold, maxThreshold)

	var found []string
	t.root.search(query, threshold, &found)
	if len(found) == 0 {
		return []string{}
	}

	slices.Sort(found)
	if len(found) > MaxResults {
		found = found[:MaxResults]
	}
	return slices.Clip(found)
}

// search walks n and every child whose key lies within threshold of the
// query's distance to n.word.
//
// The distance is bounded at threshold+maxKey rather than threshold. Past that
// bound no child key can fall inside [d-threshold, d+threshold], so an aborted
// computation prunes the whole subtree without ever guessing d.
func (n *bkNode) search(query string, threshold int, found *[]string) {
	d, ok := BoundedDistance(query, n.word, saturatingAdd(threshold, n.maxKey))
	if !ok {
		return
	}
	if d <= threshold {
		*found = append(*found, n.word)
	}

	lo, hi := d-threshold, saturatingAdd(d, threshold)
	for key, child := range n.children {
		if key >= lo && key <= hi {
			child.search(query, threshold, found)
		}
	}
}

// Contains reports whether word was inserted.
func (t *BKTree) Contains(word string) bool {
	if word == "" || t.root == nil {
		return false
	}
	current := t.root
	for current != nil {
		d := Distance(word, current.word)
		if d == 0 {
			return true
		}
		current = current.children[d]
	}
	return false
}

// Len returns the number of distinct words in the tree.
func (t *BKTree) Len() int {
	return t.size
}

// Clear drops every word.
func (t *BKTree) Clear() {
	t.root = nil
	t.size = 0
}

// saturatingAdd adds two non-negative ints, stopping at math.MaxInt.
func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}

func newBKNode(word string) *bkNode {
	return &bkNode{
		word:     word,
		children: make(map[int]*bkNode),
	}
}
