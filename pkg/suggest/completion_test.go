package suggest

import (
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

var consoleCommands = []string{
	"help", "hello", "heal", "god", "give", "noclip", "quit", "spawn", "teleport", "kick",
}

func TestCompleterPrefixFirst(t *testing.T) {
	t.Parallel()

	c := NewCompleter(DefaultOptions())
	c.AddWords(consoleCommands)

	res := c.Complete("he")
	assert.Equal(t, []string{"heal", "hello", "help"}, res.Suggestions)
	assert.False(t, res.Fuzzy)

	res = c.Complete("")
	assert.Equal(t, []string{"give", "god", "heal", "hello", "help"}, res.Suggestions)
	assert.False(t, res.Fuzzy)
}

func TestCompleterFuzzyFallback(t *testing.T) {
	t.Parallel()

	for uc, tc := range map[string]struct {
		opts   Options
		prefix string
		want   []string
		fuzzy  bool
	}{
		"typo falls back to edit distance": {
			opts:   DefaultOptions(),
			prefix: "tleport",
			want:   []string{"teleport"},
			fuzzy:  true,
		},
		"fallback honours the threshold": {
			opts:   Options{FuzzyFallback: true, FuzzyThreshold: 1},
			prefix: "qiut",
			want:   []string{},
		},
		"fallback disabled": {
			opts:   Options{FuzzyFallback: false, FuzzyThreshold: 2},
			prefix: "tleport",
			want:   []string{},
		},
		"nothing close enough": {
			opts:   DefaultOptions(),
			prefix: "zzzzzzzz",
			want:   []string{},
		},
		"negative threshold is replaced by default": {
			opts:   Options{FuzzyFallback: true, FuzzyThreshold: -3},
			prefix: "qiut",
			want:   []string{"quit"},
			fuzzy:  true,
		},
	} {
		t.Run(uc, func(t *testing.T) {
			c := NewCompleter(tc.opts)
			c.AddWords(consoleCommands)

			res := c.Complete(tc.prefix)
			assert.Equal(t, tc.want, res.Suggestions)
			assert.Equal(t, tc.fuzzy, res.Fuzzy)
		})
	}
}

func TestCompleterRebuildAndClear(t *testing.T) {
	t.Parallel()

	c := NewCompleter(DefaultOptions())
	c.AddWords(consoleCommands)
	c.AddWord("helpme")

	c.Rebuild([]string{"save", "load"})
	assert.Empty(t, c.Complete("he").Suggestions)
	assert.Equal(t, []string{"save"}, c.Complete("s").Suggestions)
	assert.Equal(t, []string{"load"}, c.Fuzzy("loaf", 1))

	stats := c.Stats()
	assert.Equal(t, 2, stats["totalWords"])
	assert.Equal(t, 2, stats["fuzzyWords"])

	c.Clear()
	assert.Empty(t, c.Complete("").Suggestions)
	assert.Equal(t, 0, c.Stats()["totalWords"])
}

func TestCompleterConcurrentRebuild(t *testing.T) {
	t.Parallel()

	c := NewCompleter(DefaultOptions())
	c.AddWords(consoleCommands)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				res := c.Complete("g")
				assert.LessOrEqual(t, len(res.Suggestions), TopK)
			}
		}()
	}
	for j := 0; j < 50; j++ {
		c.Rebuild(consoleCommands)
	}
	wg.Wait()

	assert.Equal(t, []string{"give", "god"}, c.Complete("g").Suggestions)
	assert.Equal(t, 800+1, c.Stats()["lookups"])
}

func TestCompleterSetOptions(t *testing.T) {
	t.Parallel()

	c := NewCompleter(DefaultOptions())
	c.AddWords(consoleCommands)
	assert.Equal(t, DefaultFuzzyThreshold, c.Threshold())

	c.SetOptions(Options{FuzzyFallback: true, FuzzyThreshold: 1})
	assert.Equal(t, 1, c.Threshold())
	assert.Empty(t, c.Complete("qiut").Suggestions)

	c.SetOptions(Options{FuzzyFallback: true, FuzzyThreshold: -1})
	assert.Equal(t, DefaultFuzzyThreshold, c.Threshold())
	assert.Equal(t, []string{"quit"}, c.Complete("qiut").Suggestions)

	c.SetOptions(Options{FuzzyFallback: false, FuzzyThreshold: 2})
	assert.Empty(t, c.Complete("qiut").Suggestions)
	assert.Equal(t, 0, c.Stats()["fuzzyFallback"])
}
