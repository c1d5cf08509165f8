package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/cmdserve/internal/utils"
	"github.com/bastiangx/cmdserve/pkg/config"
	"github.com/bastiangx/cmdserve/pkg/suggest"
	"github.com/bastiangx/cmdserve/pkg/vocab"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the IPC for command suggestions
type Server struct {
	completer  suggest.ICompleter
	source     *vocab.Source
	config     *config.Config
	configPath string
	decoder    *msgpack.Decoder
	encoder    *msgpack.Encoder
	writer     *bufio.Writer
	requests   int
}

// NewServer creates a server using stdin/stdout for IPC.
// source may be nil when the vocabulary did not come from disk. configPath is
// where "config" updates are saved; empty keeps them in memory.
func NewServer(completer suggest.ICompleter, source *vocab.Source, cfg *config.Config, configPath string) *Server {
	return NewServerWithIO(completer, source, cfg, configPath, os.Stdin, os.Stdout)
}

// NewServerWithIO creates a server reading requests from r and writing responses to w.
func NewServerWithIO(completer suggest.ICompleter, source *vocab.Source, cfg *config.Config, configPath string, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	writer := bufio.NewWriter(w)
	return &Server{
		completer:  completer,
		source:     source,
		config:     cfg,
		configPath: configPath,
		decoder:    msgpack.NewDecoder(bufio.NewReader(r)),
		encoder:    msgpack.NewEncoder(writer),
		writer:     writer,
	}
}

// Start writes the ready message and serves requests until the input ends.
func (s *Server) Start() error {
	log.Debug("Starting Server.")
	s.sendResponse(StatusResponse{Status: "ready"})

	for {
		raw, err := s.decoder.DecodeRaw()
		if err != nil {
			if errors.Is(err, io.EOF) {
				log.Debugf("Input closed after %d requests", s.requests)
				return nil
			}
			log.Errorf("Reading request: %v", err)
			return fmt.Errorf("failed to read request: %w", err)
		}
		s.requests++

		var req Request
		if err := msgpack.Unmarshal(raw, &req); err != nil {
			log.Debugf("Unmarshaling request: %v", err)
			s.sendError("", "Invalid msgpack request", 400)
			continue
		}
		s.handleRequest(req)
	}
}

func (s *Server) handleRequest(req Request) {
	switch strings.ToLower(req.Action) {
	case "", ActionComplete:
		s.handleComplete(req)
	case ActionFuzzy:
		s.handleFuzzy(req)
	case ActionInsert:
		s.handleInsert(req)
	case ActionClear:
		s.completer.Clear()
		if s.source != nil {
			s.source.Registry().Reset()
		}
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	case ActionReload:
		s.handleReload(req)
	case ActionStats:
		stats := s.completer.Stats()
		stats["requests"] = s.requests
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Stats: stats})
	case ActionConfig:
		s.handleConfig(req)
	case ActionHealth:
		s.sendResponse(StatusResponse{ID: req.ID, Status: "ok"})
	default:
		s.sendError(req.ID, fmt.Sprintf("Unknown action: %s", req.Action), 400)
	}
}

func (s *Server) handleComplete(req Request) {
	n := utf8.RuneCountInString(req.Prefix)
	if n < s.config.Server.MinPrefix {
		s.sendError(req.ID, fmt.Sprintf("Prefix must be at least %d characters", s.config.Server.MinPrefix), 400)
		return
	}
	if n > s.config.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("Prefix exceeds maximum length of %d characters", s.config.Server.MaxPrefix), 400)
		return
	}

	start := time.Now()
	res := s.completer.Complete(req.Prefix)
	elapsed := time.Since(start)

	log.Debugf("complete %q: %d suggestions in %v (fuzzy=%t)", req.Prefix, len(res.Suggestions), elapsed, res.Fuzzy)
	s.sendSuggestions(req.ID, res.Suggestions, elapsed, res.Fuzzy)
}

func (s *Server) handleFuzzy(req Request) {
	threshold := s.completer.Threshold()
	if req.Threshold != nil {
		threshold = *req.Threshold
	}
	if threshold < 0 {
		s.sendError(req.ID, "Threshold must not be negative", 400)
		return
	}
	if utf8.RuneCountInString(req.Query) > s.config.Server.MaxPrefix {
		s.sendError(req.ID, fmt.Sprintf("Query exceeds maximum length of %d characters", s.config.Server.MaxPrefix), 400)
		return
	}

	start := time.Now()
	words := s.completer.Fuzzy(req.Query, threshold)
	s.sendSuggestions(req.ID, words, time.Since(start), true)
}

func (s *Server) handleInsert(req Request) {
	if len(req.Words) == 0 {
		s.sendError(req.ID, "Missing 'w' parameter", 400)
		return
	}
	valid, rejected := utils.FilterCommandNames(req.Words)
	if len(rejected) > 0 {
		s.sendError(req.ID, fmt.Sprintf("Invalid command names: %q", rejected), 400)
		return
	}

	s.completer.AddWords(valid)
	if s.source != nil {
		reg := s.source.Registry()
		for _, w := range valid {
			reg.Add(vocab.Command{Name: w})
		}
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Count: len(valid)})
}

func (s *Server) handleReload(req Request) {
	if s.source == nil {
		s.sendError(req.ID, "No vocabulary source to reload", 400)
		return
	}
	n, err := s.source.Reload()
	if err != nil {
		s.sendError(req.ID, err.Error(), 500)
		return
	}
	s.completer.Rebuild(s.source.Names())
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Count: n})
}

// handleConfig applies engine settings at runtime and saves them to the
// config file.
func (s *Server) handleConfig(req Request) {
	if req.Threshold == nil && req.Fallback == nil {
		s.sendError(req.ID, "Missing 'd' or 'fb' parameter", 400)
		return
	}
	if req.Threshold != nil && *req.Threshold < 0 {
		s.sendError(req.ID, "Threshold must not be negative", 400)
		return
	}

	err := s.config.Update(s.configPath, req.Threshold, req.Fallback)
	s.completer.SetOptions(suggest.Options{
		FuzzyFallback:  s.config.Engine.FuzzyFallback,
		FuzzyThreshold: s.config.Engine.FuzzyThreshold,
	})
	if err != nil {
		log.Errorf("Saving config to %s: %v", s.configPath, err)
		s.sendError(req.ID, fmt.Sprintf("Settings applied but not saved: %v", err), 500)
		return
	}

	fallback := 0
	if s.config.Engine.FuzzyFallback {
		fallback = 1
	}
	s.sendResponse(StatusResponse{ID: req.ID, Status: "ok", Stats: map[string]int{
		"fuzzyThreshold": s.config.Engine.FuzzyThreshold,
		"fuzzyFallback":  fallback,
	}})
}

func (s *Server) sendSuggestions(id string, words []string, elapsed time.Duration, fuzzy bool) {
	ranks := utils.RankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		suggestions[i] = CompletionSuggestion{Word: w, Rank: ranks[i]}
	}
	s.sendResponse(CompletionResponse{
		ID:          id,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
		Fuzzy:       fuzzy,
	})
}

// sendResponse encodes one response and flushes it
func (s *Server) sendResponse(response any) {
	if err := s.encoder.Encode(response); err != nil {
		log.Errorf("Encoding response: %v", err)
		return
	}
	if err := s.writer.Flush(); err != nil {
		log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.sendResponse(CompletionError{ID: id, Error: message, Code: code})
}
