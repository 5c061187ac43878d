// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"

	"github.com/jeranaias/deckhtml/internal/collection"
	"github.com/jeranaias/deckhtml/internal/util"
)

// =============================================================================
// EXPORT OPTIONS
// =============================================================================

// Options configures an Exporter.
type Options struct {
	// Style selects the page layout.
	// Default: StyleStyled
	Style Style

	// UnicodeFilenames keeps Unicode letters and digits in file names.
	UnicodeFilenames bool

	// OpenAfterExport opens the output directory in the file manager.
	OpenAfterExport bool

	// MediaFS overrides the media directory reported by the collection.
	MediaFS fs.FS

	// Logger receives diagnostics. Default: discard.
	Logger *slog.Logger
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{
		Style: StyleStyled,
	}
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter writes one HTML file per card of a collection.
type Exporter struct {
	coll    collection.Collection
	options *Options
	logger  *slog.Logger

	// open is swapped in tests.
	open func(path string) error
}

// New creates an exporter reading from coll.
func New(coll collection.Collection, opts *Options) *Exporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Style == "" {
		opts.Style = StyleStyled
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{
		coll:    coll,
		options: opts,
		logger:  logger,
		open:    openPath,
	}
}

// ExportDeck resolves deck to its cards and exports them to dir.
// Failing to resolve the deck is returned as an error; per-card failures
// end up in the result.
func (e *Exporter) ExportDeck(ctx context.Context, deck, dir string) (*Result, error) {
	ids, err := e.coll.CardIDsForDeck(ctx, deck)
	if err != nil {
		return nil, fmt.Errorf("list cards of %q: %w", deck, err)
	}
	e.logger.Info("exporting deck", "deck", deck, "cards", len(ids), "dir", dir)
	return e.Export(ctx, ids, dir), nil
}

// Export renders every card in order and writes it to dir. A failing card is
// recorded in the result and the run continues. Cancelling ctx stops the run
// between cards; files already written stay on disk.
func (e *Exporter) Export(ctx context.Context, ids []collection.CardID, dir string) *Result {
	result := &Result{
		RunID:     uuid.NewString(),
		Directory: dir,
		Cards:     len(ids),
	}
	log := e.logger.With("run_id", result.RunID)
	renderer := NewHTMLRenderer(e.options.Style, e.mediaInliner(ctx, log))

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			result.addError("Export cancelled after %d of %d cards: %v", i, len(ids), err)
			log.Warn("export cancelled", "done", i, "total", len(ids))
			break
		}

		filename, page, err := e.render(ctx, renderer, id, i+1, log)
		if err != nil {
			result.addError("Error reading card %s: %v", id, err)
			log.Warn("card read failed", "card", id, "err", err)
			continue
		}

		if err := util.AtomicWriteFile(filepath.Join(dir, filename), []byte(page), 0644); err != nil {
			result.addError("Error writing file %s: %v", filename, err)
			log.Warn("card write failed", "card", id, "file", filename, "err", err)
			continue
		}
		result.Written = append(result.Written, filename)
		log.Debug("card exported", "card", id, "file", filename)
	}

	log.Info("export finished",
		"dir", dir,
		"cards", len(ids),
		"written", len(result.Written),
		"errors", len(result.Errors))

	if e.options.OpenAfterExport && ctx.Err() == nil {
		if err := e.open(dir); err != nil {
			// Non-fatal - files were still written
			log.Warn("open output directory failed", "dir", dir, "err", err)
		}
	}
	return result
}

// RenderCard renders a single card without writing it. index is the 1-based
// position used for the heading and the fallback file name.
func (e *Exporter) RenderCard(ctx context.Context, id collection.CardID, index int) (string, string, error) {
	renderer := NewHTMLRenderer(e.options.Style, e.mediaInliner(ctx, e.logger))
	return e.render(ctx, renderer, id, index, e.logger)
}

// render resolves one card and returns its file name and page.
func (e *Exporter) render(ctx context.Context, r *HTMLRenderer, id collection.CardID, index int, log *slog.Logger) (string, string, error) {
	note, err := e.coll.FieldsForCard(ctx, id)
	if err != nil {
		return "", "", err
	}

	stylesheet, err := e.coll.StylesheetForNote(ctx, note)
	if err != nil {
		log.Warn("stylesheet lookup failed", "card", id, "note_type", note.NoteType, "err", err)
		stylesheet = ""
	}

	filename := CardFilename(note.First().Value, index, e.options.UnicodeFilenames)
	return filename, r.Render(index, note, stylesheet), nil
}

// mediaInliner builds the inliner for a run. When the media directory cannot
// be resolved every reference is left as is.
func (e *Exporter) mediaInliner(ctx context.Context, log *slog.Logger) *MediaInliner {
	if e.options.MediaFS != nil {
		return NewMediaInliner(e.options.MediaFS, log)
	}

	dir, err := e.coll.MediaDirectory(ctx)
	if err != nil {
		log.Warn("media directory unavailable", "err", err)
		return NewMediaInliner(nil, log)
	}
	if dir == "" {
		return NewMediaInliner(nil, log)
	}
	return NewMediaInliner(os.DirFS(dir), log)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// openPath opens a file or directory in the default application for the OS.
func openPath(path string) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		// Quoted empty string is the window title; the path must come last.
		cmd = exec.Command("cmd", "/c", "start", `""`, path)
	case "darwin":
		cmd = exec.Command("open", path)
	case "linux":
		cmd = exec.Command("xdg-open", path)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	return cmd.Start()
}
