// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// decks_cmd.go - List deck names.

package cli

import (
	"context"
	"fmt"

	"github.com/jeranaias/deckhtml/internal/util"
)

// HandleDecks prints one deck name per line. With --counts each name is
// followed by the number of cards an export would write, sub-decks included.
func HandleDecks(ctx context.Context, app *App, args Args) error {
	coll, err := app.OpenCollection(ctx)
	if err != nil {
		return NewCommandError("decks", "open", "cannot open collection", err)
	}
	defer coll.Close()

	decks, err := coll.ListDecks(ctx)
	if err != nil {
		return NewCommandError("decks", "list", "cannot list decks", err)
	}

	if !args.Counts {
		for _, deck := range decks {
			fmt.Fprintln(app.Stdout, deck)
		}
		return nil
	}

	width := 0
	for _, deck := range decks {
		width = max(width, util.StringWidth(deck))
	}
	width = min(width, GetTerminalWidth()-10)

	for _, deck := range decks {
		ids, err := coll.CardIDsForDeck(ctx, deck)
		if err != nil {
			return NewCommandError("decks", deck, "cannot count cards", err)
		}
		fmt.Fprintf(app.Stdout, "%s  %s\n", util.PadWidth(deck, width), DimStyle.Render(fmt.Sprintf("%d", len(ids))))
	}
	return nil
}
