// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// dialog_cmd.go - Default command: choose a deck and a directory, export.

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/jeranaias/deckhtml/internal/export"
	"github.com/jeranaias/deckhtml/internal/ui/dialog"
)

// HandleDialog runs the selection dialog. The Bubble Tea dialog is used on
// a terminal; --plain or redirected input falls back to line prompts.
// Declining to choose a directory prints dialog.NoDirectoryMessage and is
// not an error.
func HandleDialog(ctx context.Context, app *App, args Args) error {
	coll, err := app.OpenCollection(ctx)
	if err != nil {
		return NewCommandError("dialog", "open", "cannot open collection", err)
	}
	defer coll.Close()

	decks, err := coll.ListDecks(ctx)
	if err != nil {
		return NewCommandError("dialog", "list", "cannot list decks", err)
	}

	runExport := func(ctx context.Context, deck, dir string) (*export.Result, error) {
		exp, err := app.NewExporter(coll, "", false)
		if err != nil {
			return nil, err
		}
		return exp.ExportDeck(ctx, deck, dir)
	}

	if args.Plain || !CanPrompt() {
		return runPlainDialog(ctx, app, decks, runExport)
	}

	final, err := dialog.Run(dialog.Options{
		Decks:      decks,
		DefaultDir: app.Config.Export.DefaultDir,
		Export:     runExport,
		Theme:      app.Theme,
		Context:    ctx,
	})
	if err != nil {
		return NewCommandError("dialog", "run", "terminal dialog failed", err)
	}
	return dialogOutcome(final.State(), final.Result(), final.Err())
}

func runPlainDialog(ctx context.Context, app *App, decks []string, run dialog.ExportFunc) error {
	line := NewLineReader(decks)
	deck, dir, err := PromptDeckAndDirectory(line, app.Stdout, decks, app.Config.Export.DefaultDir)
	line.Close()

	if errors.Is(err, dialog.ErrNoDirectory) {
		fmt.Fprintln(app.Stdout, dialog.NoDirectoryMessage)
		return nil
	}
	if err != nil {
		return NewCommandError("dialog", "prompt", "cannot read input", err)
	}

	fmt.Fprintf(app.Stdout, "Exporting %s to %s...\n", deck, dir)
	result, err := run(ctx, deck, dir)
	if err != nil {
		return NewCommandError("export", deck, "export failed", err)
	}
	fmt.Fprint(app.Stdout, RenderReport(deck, result, GetTerminalWidth(), app.Styled))
	return resultError(deck, result)
}

// dialogOutcome turns the closed dialog into the command's error. The
// dialog has already shown the summary or the abort message.
func dialogOutcome(state dialog.State, result *export.Result, err error) error {
	switch {
	case state == dialog.StateAborted || errors.Is(err, dialog.ErrNoDirectory):
		return nil
	case err != nil:
		return NewCommandError("export", "", "export failed", err)
	case result != nil:
		return resultError("", result)
	case state != dialog.StateReported:
		// Interrupted from outside, e.g. a signal cancelled the program.
		fmt.Fprintln(os.Stderr, dialog.NoDirectoryMessage)
	}
	return nil
}

// resultError reports a run with per-card failures as an error so the exit
// status reflects it. The failures themselves were already printed.
func resultError(deck string, r *export.Result) error {
	if r.OK() {
		return nil
	}
	return NewCommandError("export", deck, fmt.Sprintf("%d of %d cards failed", len(r.Errors), r.Cards), nil)
}
