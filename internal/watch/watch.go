// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package watch re-runs a job whenever a collection file changes on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the file must stay quiet before a run starts.
const DefaultDebounce = 2 * time.Second

// RunFunc is the job started after a change settles.
type RunFunc func(ctx context.Context) error

// Options configures a Watcher.
type Options struct {
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// Logger defaults to a discarding logger.
	Logger *slog.Logger
}

// Watcher watches one file. The parent directory is watched so that atomic
// replacements and SQLite sidecar files (-wal, -journal, -shm) are noticed.
type Watcher struct {
	path     string
	base     string
	debounce time.Duration
	tick     time.Duration
	run      RunFunc
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
}

// New starts watching path. Changes are queued from the moment New returns;
// Run processes them.
func New(path string, run RunFunc, opts Options) (*Watcher, error) {
	if run == nil {
		return nil, errors.New("watch: nil run func")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(absPath)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &Watcher{
		path:     absPath,
		base:     filepath.Base(absPath),
		debounce: debounce,
		tick:     min(100*time.Millisecond, debounce/2),
		run:      run,
		logger:   logger,
		watcher:  fw,
	}, nil
}

// Run processes changes until ctx is cancelled, then releases the watcher.
// Jobs run on the calling goroutine, so two runs never overlap; changes made
// during a run start another one after it. A failing job is logged and does
// not stop the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	ticker := time.NewTicker(w.tick)
	defer ticker.Stop()

	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if w.relevant(event) {
				pending = time.Now()
				w.logger.Debug("collection changed", "file", event.Name, "op", event.Op.String())
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "path", w.path, "err", err)

		case now := <-ticker.C:
			if pending.IsZero() || now.Sub(pending) < w.debounce {
				continue
			}
			pending = time.Time{}

			w.logger.Info("re-running after change", "path", w.path)
			if err := w.run(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				w.logger.Warn("watched run failed", "path", w.path, "err", err)
			}
		}
	}
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// sidecarSuffixes are the SQLite files written next to the collection.
var sidecarSuffixes = []string{"-wal", "-journal", "-shm"}

// relevant reports whether event touches the watched file or one of its
// SQLite sidecars.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	name := filepath.Base(event.Name)
	if name == w.base {
		return true
	}
	suffix, ok := strings.CutPrefix(name, w.base)
	if !ok {
		return false
	}
	for _, s := range sidecarSuffixes {
		if suffix == s {
			return true
		}
	}
	return false
}
