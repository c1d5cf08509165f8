// Package cli is an interactive prompt for trying suggestions by hand
package cli

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/cmdserve/internal/logger"
	"github.com/bastiangx/cmdserve/internal/utils"
	"github.com/bastiangx/cmdserve/pkg/config"
	"github.com/bastiangx/cmdserve/pkg/suggest"
	"github.com/bastiangx/cmdserve/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

var wordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))

// InputHandler reads prefixes from stdin and prints suggestions.
// Lines starting with ':' are commands:
//
//	:fuzzy <query> [threshold]
//	:add <name>...
//	:stats
type InputHandler struct {
	completer    suggest.ICompleter
	source       *vocab.Source
	out          *log.Logger
	minPrefix    int
	maxPrefix    int
	showTiming   bool
	requestCount int
}

// NewInputHandler creates a prompt over completer. source is optional and
// only used to show command descriptions.
func NewInputHandler(completer suggest.ICompleter, source *vocab.Source, cfg *config.Config) *InputHandler {
	return NewInputHandlerWithWriter(completer, source, cfg, os.Stderr)
}

// NewInputHandlerWithWriter is NewInputHandler printing to w.
func NewInputHandlerWithWriter(completer suggest.ICompleter, source *vocab.Source, cfg *config.Config, w io.Writer) *InputHandler {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &InputHandler{
		completer:  completer,
		source:     source,
		out:        logger.NewWithWriter(w, ""),
		minPrefix:  cfg.Server.MinPrefix,
		maxPrefix:  cfg.Server.MaxPrefix,
		showTiming: cfg.CLI.ShowTiming,
	}
}

// Start runs the prompt on stdin until EOF.
func (h *InputHandler) Start() error {
	return h.Run(os.Stdin)
}

// Run runs the prompt on r until EOF.
func (h *InputHandler) Run(r io.Reader) error {
	h.out.Print("cmdserve CLI")
	h.out.Print("type a prefix and press Enter, :fuzzy, :add or :stats for more (Ctrl+C to exit):")

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			h.handleInput(line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(line string) {
	h.requestCount++

	if cmd, ok := strings.CutPrefix(line, ":"); ok {
		h.handleCommand(strings.Fields(cmd))
		return
	}

	n := utf8.RuneCountInString(line)
	if n < h.minPrefix {
		h.out.Errorf("Prefix too short: %s", line)
		return
	}
	if n > h.maxPrefix {
		h.out.Errorf("Prefix too long: %s", line)
		return
	}

	start := time.Now()
	res := h.completer.Complete(line)
	elapsed := time.Since(start)

	if len(res.Suggestions) == 0 {
		h.out.Warnf("No suggestions found for prefix: '%s'", line)
		return
	}
	if res.Fuzzy {
		h.out.Printf("No command starts with '%s', closest matches:", line)
	} else {
		h.out.Printf("Found %d suggestions for prefix '%s':", len(res.Suggestions), line)
	}
	h.printSuggestions(res.Suggestions, elapsed)
}

func (h *InputHandler) handleCommand(args []string) {
	if len(args) == 0 {
		h.out.Error("Empty command")
		return
	}

	switch args[0] {
	case "fuzzy", "f":
		if len(args) < 2 {
			h.out.Error("Usage: :fuzzy <query> [threshold]")
			return
		}
		threshold := h.completer.Threshold()
		if len(args) > 2 {
			n, err := strconv.Atoi(args[2])
			if err != nil || n < 0 {
				h.out.Errorf("Invalid threshold: %s", args[2])
				return
			}
			threshold = n
		}
		start := time.Now()
		words := h.completer.Fuzzy(args[1], threshold)
		elapsed := time.Since(start)
		if len(words) == 0 {
			h.out.Warnf("Nothing within %d edits of '%s'", threshold, args[1])
			return
		}
		h.out.Printf("Within %d edits of '%s':", threshold, args[1])
		h.printSuggestions(words, elapsed)

	case "add", "a":
		valid, rejected := utils.FilterCommandNames(args[1:])
		for _, w := range rejected {
			h.out.Warnf("Skipping invalid command name: %q", w)
		}
		if len(valid) == 0 {
			h.out.Error("Usage: :add <name>...")
			return
		}
		h.completer.AddWords(valid)
		if h.source != nil {
			reg := h.source.Registry()
			for _, w := range valid {
				reg.Add(vocab.Command{Name: w})
			}
		}
		h.out.Printf("Added %s commands", humanize.Comma(int64(len(valid))))

	case "stats", "s":
		stats := h.completer.Stats()
		h.out.Printf("commands:        %s", humanize.Comma(int64(stats["totalWords"])))
		h.out.Printf("lookups:         %s (%s fuzzy)",
			humanize.Comma(int64(stats["lookups"])), humanize.Comma(int64(stats["fuzzyLookups"])))
		h.out.Printf("fuzzy threshold: %d", stats["fuzzyThreshold"])
		h.out.Printf("prompt inputs:   %s", humanize.Comma(int64(h.requestCount)))

	default:
		h.out.Errorf("Unknown command: %s", args[0])
	}
}

func (h *InputHandler) printSuggestions(words []string, elapsed time.Duration) {
	for i, w := range words {
		desc := ""
		if h.source != nil {
			if cmd, ok := h.source.Registry().Get(w); ok {
				desc = cmd.Description
			}
		}
		h.out.Printf("%2d. %-24s %s", i+1, wordStyle.Render(w), desc)
	}
	if h.showTiming {
		h.out.Printf("took %s", humanize.SIWithDigits(elapsed.Seconds(), 2, "s"))
	}
}
