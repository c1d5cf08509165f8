// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the cmdserve suggestion server and its interactive CLI.

cmdserve suggests console commands as the user types. Up to five commands
starting with the typed prefix are returned in ascending order; when nothing
starts with the prefix the closest commands by edit distance are returned
instead, so typos still get an answer.

# Usage

Start the server with a vocabulary file or directory:

	cmdserve -vocab commands.txt

Run the interactive prompt with debug logging:

	cmdserve -vocab commands/ -c -d

Convert a text vocabulary into the binary format:

	cmdserve -vocab commands.txt -export commands.bin

# Vocabulary

Text vocabularies list one command per line with an optional description
after '#'. A directory is loaded file by file in lexical order, picking up
every .txt and .bin file. When watching is enabled the vocabulary is reloaded
as soon as a file changes.

# Configuration

The TOML config is created with defaults when missing:

	[engine]
	fuzzy_fallback = true
	fuzzy_threshold = 2

	[server]
	min_prefix = 0
	max_prefix = 60

	[vocab]
	path = ""
	watch = true

	[cli]
	show_timing = true

# IPC Protocol

The server communicates via MessagePack over stdin/stdout, see package server.

	{"id": "req1", "p": "tel"}
	{"id": "req1", "s": [{"w": "teleport", "r": 1}], "c": 1, "t": 9, "f": false}

# Command Line Flags

	-vocab string
	    Vocabulary file or directory (default from config)
	-config string
	    Path to config.toml
	-d  Enable debug mode with detailed logging
	-c  Run the interactive prompt instead of the server
	-fuzzy int
	    Edit distance threshold for the typo fallback (default from config)
	-no-fuzzy
	    Disable the typo fallback
	-export string
	    Write the loaded vocabulary in binary format and exit
	-version
	    Show current version
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/bastiangx/cmdserve/internal/cli"
	"github.com/bastiangx/cmdserve/internal/logger"
	"github.com/bastiangx/cmdserve/internal/utils"
	"github.com/bastiangx/cmdserve/internal/watcher"
	"github.com/bastiangx/cmdserve/pkg/config"
	"github.com/bastiangx/cmdserve/pkg/server"
	"github.com/bastiangx/cmdserve/pkg/suggest"
	"github.com/bastiangx/cmdserve/pkg/vocab"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
)

const (
	Version = "0.3.0"
	AppName = "cmdserve"
	gh      = "https://github.com/bastiangx/cmdserve"
)

// sigHandler cancels ctx on the first signal and exits on the second.
func sigHandler(cancel context.CancelFunc) {
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel)

	showVersion := flag.Bool("version", false, "Show current version")
	vocabPath := flag.String("vocab", "", "Vocabulary file or directory (default from config)")
	configPath := flag.String("config", "", "Path to config.toml")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	fuzzy := flag.Int("fuzzy", -1, "Edit distance threshold for the typo fallback (default from config)")
	noFuzzy := flag.Bool("no-fuzzy", false, "Disable the typo fallback")
	exportPath := flag.String("export", "", "Write the loaded vocabulary as a binary file and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	logger.Setup(*debugMode)

	cfg, activeConfig, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfig))

	if *fuzzy >= 0 {
		cfg.Engine.FuzzyThreshold = *fuzzy
	}
	if *noFuzzy {
		cfg.Engine.FuzzyFallback = false
	}

	completer := suggest.NewCompleter(suggest.Options{
		FuzzyFallback:  cfg.Engine.FuzzyFallback,
		FuzzyThreshold: cfg.Engine.FuzzyThreshold,
	})

	source := loadVocabulary(*vocabPath, cfg, activeConfig, completer)

	if *exportPath != "" {
		if source == nil {
			log.Fatal("Nothing to export, no vocabulary was loaded")
		}
		if err := vocab.SaveBinary(*exportPath, source.Registry()); err != nil {
			log.Fatalf("Export failed: %v", err)
		}
		log.Infof("Wrote %s commands to %s", humanize.Comma(int64(source.Registry().Len())), *exportPath)
		return
	}

	if source != nil && cfg.Vocab.Watch {
		w, err := watcher.New(source.Path(), watcher.ListenerFunc(func(string) {
			if _, err := source.Reload(); err == nil {
				completer.Rebuild(source.Names())
			}
		}))
		if err != nil {
			log.Warnf("Vocabulary changes will not be picked up: %v", err)
		} else {
			w.Start(ctx)
			defer w.Stop()
		}
	}

	if *cliMode {
		inputHandler := cli.NewInputHandler(completer, source, cfg)
		if err := inputHandler.Start(); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(completer, source, cfg, activeConfig)
	showStartupInfo(source, completer)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}

// loadVocabulary resolves and loads the vocabulary into completer. It returns
// nil when no vocabulary was found; the engine then starts empty.
func loadVocabulary(flagPath string, cfg *config.Config, activeConfig string, completer *suggest.Completer) *vocab.Source {
	path := flagPath
	if path == "" {
		path = cfg.Vocab.Path
	}
	configDir := ""
	if activeConfig != "" {
		configDir = filepath.Dir(activeConfig)
	}

	resolved, err := utils.ResolveVocabPath(path, configDir)
	if err != nil {
		if path != "" {
			log.Fatalf("Vocabulary not found at %s (tried %v)", path, utils.VocabCandidates(path, configDir))
		}
		log.Warn("No vocabulary specified, running with an empty engine...")
		return nil
	}

	source := vocab.NewSource(resolved)
	n, err := source.Load()
	if err != nil {
		log.Fatalf("Failed to load vocabulary: %v", err)
	}
	completer.AddWords(source.Names())
	log.Debugf("Loaded %s commands from %s", humanize.Comma(int64(n)), resolved)
	return source
}

func printVersion() {
	banner := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	banner.SetStyles(styles)

	banner.Print("")
	banner.Print("[ cmdserve ] console command suggestions")
	banner.Print("", "version", Version)
	banner.Print("")
	banner.Print("use -h or --help to see available options")
	banner.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(source *vocab.Source, completer suggest.ICompleter) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	vocabPath := "(none)"
	if source != nil {
		vocabPath = source.Path()
	}

	log.Infof("%s %s", AppName, Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("vocab: ( %s )", vocabPath)
	log.Infof("commands: %s", humanize.Comma(int64(completer.Stats()["totalWords"])))
	log.Info("status: ready")
}
