/*
Package vocab holds the command vocabulary fed to the suggestion engine.

A Registry maps command names to their descriptions. Registries are filled from
plain text or binary vocabulary files and a Source keeps one up to date with a
file or directory on disk.

Text files list one command per line with an optional description after '#':

	# console commands
	noclip   # toggle collision
	teleport # move to coordinates
	quit

Binary files start with a little-endian int32 entry count followed by, per
entry, a uint16 name length, the name bytes, a uint16 description length and
the description bytes.
*/
package vocab

import (
	"slices"
	"strings"
	"sync"

	"github.com/tchap/go-patricia/v2/patricia"
)

// Command is a single console command.
type Command struct {
	Name        string
	Description string
}

// Registry stores commands keyed by name. It is safe for concurrent use.
type Registry struct {
	trie  *patricia.Trie
	count int
	mu    sync.RWMutex
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{trie: patricia.NewTrie()}
}

// Add stores cmd and reports whether its name was new. Adding a known name
// only replaces the description when the new one is non-empty.
func (r *Registry) Add(cmd Command) bool {
	if cmd.Name == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := patricia.Prefix(cmd.Name)
	if r.trie.Insert(key, cmd.Description) {
		r.count++
		return true
	}
	if cmd.Description != "" {
		r.trie.Set(key, cmd.Description)
	}
	return false
}

// Get returns the command stored under name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item := r.trie.Get(patricia.Prefix(name))
	if item == nil {
		return Command{}, false
	}
	desc, _ := item.(string)
	return Command{Name: name, Description: desc}, true
}

// Names returns every command name in ascending order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, r.count)
	_ = r.trie.Visit(func(p patricia.Prefix, _ patricia.Item) error {
		names = append(names, string(p))
		return nil
	})
	slices.Sort(names)
	return names
}

// Commands returns every command ordered by name.
func (r *Registry) Commands() []Command {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cmds := make([]Command, 0, r.count)
	_ = r.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		desc, _ := item.(string)
		cmds = append(cmds, Command{Name: string(p), Description: desc})
		return nil
	})
	slices.SortFunc(cmds, func(a, b Command) int {
		return strings.Compare(a.Name, b.Name)
	})
	return cmds
}

// Len returns the number of distinct commands.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Reset drops every command.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trie = patricia.NewTrie()
	r.count = 0
}
