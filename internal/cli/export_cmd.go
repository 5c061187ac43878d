// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// export_cmd.go - Non-interactive export.
//
// Examples:
//   deckhtml export --deck "German::Vocabulary" --out ~/cards
//   deckhtml export --deck Basics --style plain --open
//   deckhtml export --deck Basics --out ~/cards --watch

package cli

import (
	"context"
	"os"

	"github.com/jeranaias/deckhtml/internal/config"
	"github.com/jeranaias/deckhtml/internal/export"
	"github.com/jeranaias/deckhtml/internal/watch"
)

// HandleExport exports one deck. With --watch it keeps running and exports
// again after every change to the collection file until ctx is cancelled.
func HandleExport(ctx context.Context, app *App, args Args) error {
	out := args.Out
	if out == "" {
		out = app.Config.Export.DefaultDir
	}
	out = config.ExpandPath(out)

	if args.Watch && app.Config.Collection.Source != config.SourceSQLite {
		return NewValidationError("--watch", app.Config.Collection.Source, "watching needs the sqlite source")
	}
	if err := os.MkdirAll(out, 0755); err != nil {
		return NewCommandError("export", args.Deck, "cannot create output directory", err)
	}

	result, err := exportOnce(ctx, app, args, out)
	if err != nil {
		return err
	}
	app.printReport(args.Deck, result)

	if !args.Watch {
		return resultError(args.Deck, result)
	}

	path, err := app.Config.CollectionPath()
	if err != nil {
		return &ConfigError{Err: err}
	}
	w, err := watch.New(path, func(ctx context.Context) error {
		result, err := exportOnce(ctx, app, args, out)
		if err != nil {
			DisplayError(app.Stderr, err)
			return err
		}
		app.printReport(args.Deck, result)
		return nil
	}, watch.Options{Logger: app.Logger})
	if err != nil {
		return NewCommandError("export", args.Deck, "cannot watch collection", err)
	}

	app.info("Watching %s for changes (Ctrl-C to stop)", path)
	return w.Run(ctx)
}

// exportOnce opens the collection, exports the deck and closes it again, so
// every watched run sees the current state of the file.
func exportOnce(ctx context.Context, app *App, args Args, out string) (*export.Result, error) {
	coll, err := app.OpenCollection(ctx)
	if err != nil {
		return nil, NewCommandError("export", args.Deck, "cannot open collection", err)
	}
	defer coll.Close()

	exp, err := app.NewExporter(coll, args.Style, args.Open)
	if err != nil {
		return nil, err
	}
	result, err := exp.ExportDeck(ctx, args.Deck, out)
	if err != nil {
		return nil, NewCommandError("export", args.Deck, "export failed", err)
	}
	return result, nil
}

// printReport writes the run summary. --quiet hides successful runs.
func (a *App) printReport(deck string, r *export.Result) {
	if a.Quiet && r.OK() {
		return
	}
	a.write(RenderReport(deck, r, GetTerminalWidth(), a.Styled))
}

func (a *App) write(s string) {
	_, _ = a.Stdout.Write([]byte(s))
}
