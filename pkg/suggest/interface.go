// Package suggest is the core, providing the radix trie with per-node top-K caches, the merge used to keep them, and the Completer that falls back to fuzzy lookups on typos.
package suggest

// ICompleter defines the interface for command completion engines
type ICompleter interface {
	// Complete returns suggestions for a given prefix
	Complete(prefix string) Result

	// Fuzzy returns words within threshold edits of query
	Fuzzy(query string, threshold int) []string

	// AddWord adds a single command name
	AddWord(word string)

	// AddWords adds many command names at once
	AddWords(words []string)

	// Rebuild swaps the whole vocabulary
	Rebuild(words []string)

	// Clear drops every word
	Clear()

	// Threshold returns the edit distance used by the typo fallback
	Threshold() int

	// SetOptions changes the fallback settings
	SetOptions(opts Options)

	// Stats returns statistics about the loaded vocabulary
	Stats() map[string]int
}

var _ ICompleter = (*Completer)(nil)
