// Package watcher reloads the vocabulary when its files change on disk.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bastiangx/cmdserve/internal/logger"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce groups the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// ChangeListener is notified once per burst of changes under the watched path.
type ChangeListener interface {
	OnChanged(path string)
}

// ListenerFunc adapts a function to ChangeListener.
type ListenerFunc func(path string)

// OnChanged calls f(path).
func (f ListenerFunc) OnChanged(path string) { f(path) }

// Watcher follows a vocabulary file or directory.
type Watcher struct {
	fsw      *fsnotify.Watcher
	path     string
	isDir    bool
	listener ChangeListener
	debounce time.Duration
	log      *log.Logger
	wg       sync.WaitGroup
}

// New watches path, a vocabulary file or a directory of them. A single file is
// watched through its parent directory so that editors replacing the file on
// save are still noticed.
func New(path string, listener ChangeListener) (*Watcher, error) {
	path = filepath.Clean(path)
	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	target := path
	if !stat.IsDir() {
		target = filepath.Dir(path)
	}
	if err := fsw.Add(target); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", target, err)
	}

	return &Watcher{
		fsw:      fsw,
		path:     path,
		isDir:    stat.IsDir(),
		listener: listener,
		debounce: DefaultDebounce,
		log:      logger.New("watcher"),
	}, nil
}

// SetDebounce changes the quiet period before listeners fire. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start runs the event loop until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) {
	w.log.Debugf("Watching %s for changes", w.path)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx)
	}()
}

// Stop closes the underlying watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop(ctx context.Context) {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-w.fsw.Events:
			if !ok {
				w.log.Debug("Vocabulary watcher closed")
				return
			}
			if !w.relevant(evt) {
				continue
			}
			w.log.Debugf("%s: %s", evt.Op, evt.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			w.listener.OnChanged(w.path)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.log.Debug("Vocabulary watcher error channel closed")
				return
			}
			w.log.Warnf("Vocabulary watcher error: %v", err)
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) &&
		!evt.Has(fsnotify.Remove) && !evt.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Clean(evt.Name)
	if !w.isDir {
		return name == w.path
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".bin":
		return true
	}
	return false
}
