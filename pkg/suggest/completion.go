package suggest

import (
	"sync"
	"sync/atomic"

	"github.com/bastiangx/cmdserve/pkg/fuzzy"
	"github.com/charmbracelet/log"
)

// DefaultFuzzyThreshold is the edit distance budget used by the fallback
// when no threshold is configured.
const DefaultFuzzyThreshold = 2

// Options controls how a Completer answers lookups.
type Options struct {
	// FuzzyFallback enables the BK-tree lookup when a prefix matches nothing.
	FuzzyFallback bool
	// FuzzyThreshold is the maximum edit distance used by the fallback.
	FuzzyThreshold int
}

// DefaultOptions returns fallback enabled with DefaultFuzzyThreshold.
func DefaultOptions() Options {
	return Options{
		FuzzyFallback:  true,
		FuzzyThreshold: DefaultFuzzyThreshold,
	}
}

// Result is the answer to a single completion request.
type Result struct {
	Suggestions []string
	// Fuzzy is true when the suggestions came from the typo fallback.
	Fuzzy bool
}

// Completer pairs a RadixTrie with a BKTree built from the same vocabulary.
// Prefix lookups go to the trie and fall back to the tree when the trie has
// nothing, which is the usual sign of a typo.
//
// The trie and tree are single threaded. Completer guards them with a
// read/write lock so a vocabulary reload can run next to request handling.
type Completer struct {
	mu   sync.RWMutex
	trie *RadixTrie
	tree *fuzzy.BKTree
	opts Options

	lookups      atomic.Int64
	fuzzyLookups atomic.Int64
}

// NewCompleter creates an empty completer.
func NewCompleter(opts Options) *Completer {
	if opts.FuzzyThreshold < 0 {
		log.Warnf("Negative fuzzy threshold %d, using %d", opts.FuzzyThreshold, DefaultFuzzyThreshold)
		opts.FuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Completer{
		trie: NewRadixTrie(),
		tree: fuzzy.NewBKTree(),
		opts: opts,
	}
}

// AddWord inserts word into both indexes.
func (c *Completer) AddWord(word string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.Insert(word)
	c.tree.Insert(word)
}

// AddWords inserts every word of words into both indexes.
func (c *Completer) AddWords(words []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.InsertAll(words)
	c.tree.InsertAll(words)
}

// Rebuild replaces the whole vocabulary in one step. Readers see either the
// old or the new vocabulary, never a partial one.
func (c *Completer) Rebuild(words []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.Clear()
	c.tree.Clear()
	c.trie.InsertAll(words)
	c.tree.InsertAll(words)
	log.Debugf("Rebuilt completer with %d words", c.trie.Len())
}

// Clear drops every word.
func (c *Completer) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.trie.Clear()
	c.tree.Clear()
}

// Complete returns up to TopK suggestions for prefix.
func (c *Completer) Complete(prefix string) Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.lookups.Add(1)

	found := c.trie.SuggestTopK(prefix)
	if len(found) > 0 || prefix == "" || !c.opts.FuzzyFallback {
		return Result{Suggestions: found}
	}

	c.fuzzyLookups.Add(1)
	found = c.tree.SearchWithin(prefix, c.opts.FuzzyThreshold)
	log.Debugf("No prefix match for '%s', fuzzy fallback found %d", prefix, len(found))
	return Result{Suggestions: found, Fuzzy: len(found) > 0}
}

// Fuzzy searches the typo index directly.
func (c *Completer) Fuzzy(query string, threshold int) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	c.fuzzyLookups.Add(1)
	return c.tree.SearchWithin(query, threshold)
}

// Threshold returns the configured fallback distance.
func (c *Completer) Threshold() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.opts.FuzzyThreshold
}

// SetOptions changes how later lookups are answered. A negative threshold
// is replaced by DefaultFuzzyThreshold.
func (c *Completer) SetOptions(opts Options) {
	if opts.FuzzyThreshold < 0 {
		log.Warnf("Negative fuzzy threshold %d, using %d", opts.FuzzyThreshold, DefaultFuzzyThreshold)
		opts.FuzzyThreshold = DefaultFuzzyThreshold
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.opts = opts
}

// Stats returns counters about the loaded vocabulary and served lookups.
func (c *Completer) Stats() map[string]int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fallback := 0
	if c.opts.FuzzyFallback {
		fallback = 1
	}
	return map[string]int{
		"totalWords":     c.trie.Len(),
		"fuzzyWords":     c.tree.Len(),
		"fuzzyThreshold": c.opts.FuzzyThreshold,
		"fuzzyFallback":  fallback,
		"lookups":        int(c.lookups.Load()),
		"fuzzyLookups":   int(c.fuzzyLookups.Load()),
	}
}
