// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// render_cmd.go - Print the HTML of a single card.

package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// HandleRender writes the page of the n-th card of a deck to stdout without
// touching the output directory. On a terminal the HTML is highlighted.
func HandleRender(ctx context.Context, app *App, args Args) error {
	coll, err := app.OpenCollection(ctx)
	if err != nil {
		return NewCommandError("render", args.Deck, "cannot open collection", err)
	}
	defer coll.Close()

	ids, err := coll.CardIDsForDeck(ctx, args.Deck)
	if err != nil {
		return NewCommandError("render", args.Deck, "cannot list cards", err)
	}
	if args.Card < 1 || args.Card > len(ids) {
		return &NotFoundError{Resource: "card", ID: fmt.Sprintf("#%d in %s (deck has %d cards)", args.Card, args.Deck, len(ids))}
	}

	exp, err := app.NewExporter(coll, args.Style, false)
	if err != nil {
		return err
	}
	filename, page, err := exp.RenderCard(ctx, ids[args.Card-1], args.Card)
	if err != nil {
		return NewCommandError("render", args.Deck, fmt.Sprintf("cannot render card %s", ids[args.Card-1]), err)
	}

	app.info("%s", DimStyle.Render("<!-- "+filename+" -->"))
	if app.Styled {
		return highlightHTML(app.Stdout, page)
	}
	_, err = io.WriteString(app.Stdout, page)
	return err
}

// highlightHTML writes src with terminal syntax highlighting, or unchanged
// if highlighting fails.
func highlightHTML(w io.Writer, src string) error {
	lexer := lexers.Get("html")
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get("monokai")
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, src)
	if err != nil {
		_, err = io.WriteString(w, src)
		return err
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		_, err = io.WriteString(w, src)
		return err
	}
	_, err = io.WriteString(w, buf.String())
	return err
}
