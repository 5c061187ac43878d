// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export renders the cards of a deck to standalone HTML files.
//
// Every card becomes one self-contained page: cloze deletions are flattened,
// referenced images and sounds are inlined as base64 data URIs, and the note
// type's stylesheet is embedded after the page's own style block.
//
// # Key Types
//
//   - Exporter: runs an export against a collection.Collection
//   - HTMLRenderer: builds the page for a single note
//   - MediaInliner: replaces media references with data URIs
//   - Result: files written and per-card errors of one run
//   - Style: plain or styled page layout
//
// # Usage
//
//	exp := export.New(coll, &export.Options{Style: export.StyleStyled})
//	result, err := exp.ExportDeck(ctx, "Basics", "/home/me/Desktop/basics")
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.Summary())
//
// File names come from the first field of each note. They are not made
// unique, so two cards with the same first field write the same file and the
// later card wins.
package export
