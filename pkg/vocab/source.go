package vocab

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
)

// Source keeps a Registry in sync with a vocabulary file or directory.
type Source struct {
	path string
	reg  *Registry
	mu   sync.RWMutex
}

// NewSource creates a source reading from path. Nothing is loaded until Load.
func NewSource(path string) *Source {
	return &Source{
		path: path,
		reg:  NewRegistry(),
	}
}

// Load reads the vocabulary into a fresh registry and swaps it in.
// On failure the previous registry stays in place.
func (s *Source) Load() (int, error) {
	next := NewRegistry()
	n, err := LoadPath(s.path, next)
	if err != nil {
		return 0, fmt.Errorf("failed to load vocabulary from %s: %w", s.path, err)
	}

	s.mu.Lock()
	s.reg = next
	s.mu.Unlock()

	log.Debugf("Vocabulary %s: %d lines read, %d distinct commands", s.path, n, next.Len())
	return next.Len(), nil
}

// Reload is Load with a log line, used by the watcher and the reload action.
func (s *Source) Reload() (int, error) {
	n, err := s.Load()
	if err != nil {
		log.Warnf("Reload of %s failed, keeping previous vocabulary: %v", s.path, err)
		return 0, err
	}
	log.Infof("Reloaded %d commands from %s", n, s.path)
	return n, nil
}

// Path returns the watched file or directory.
func (s *Source) Path() string {
	return s.path
}

// Registry returns the current registry.
func (s *Source) Registry() *Registry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg
}

// Names returns the command names of the current registry.
func (s *Source) Names() []string {
	return s.Registry().Names()
}
