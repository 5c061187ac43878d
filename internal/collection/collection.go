// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package collection provides read-only access to a flashcard collection.
package collection

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrDeckNotFound = errors.New("deck not found")
	ErrCardNotFound = errors.New("card not found")
	ErrNoteType     = errors.New("note type not found")
	ErrUnavailable  = errors.New("collection unavailable")
)

// =============================================================================
// TYPES
// =============================================================================

// CardID identifies a card in the host collection.
type CardID int64

// String returns the decimal form of the id.
func (id CardID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Field is a single named note field.
type Field struct {
	Name  string
	Value string
}

// Note is the field data behind one card.
type Note struct {
	// ID is the host note id (0 when the provider does not expose it).
	ID int64

	// NoteType identifies the template the note belongs to.
	NoteType string

	// Fields in template order.
	Fields []Field
}

// First returns the first field, or a zero Field for a note without fields.
func (n *Note) First() Field {
	if len(n.Fields) == 0 {
		return Field{}
	}
	return n.Fields[0]
}

// =============================================================================
// COLLECTION INTERFACE
// =============================================================================

// Collection is the capability set the exporter needs from the host.
// Implementations are read-only.
type Collection interface {
	// ListDecks returns every deck name, sorted.
	ListDecks(ctx context.Context) ([]string, error)

	// CardIDsForDeck returns the cards of the deck and its sub-decks in host order.
	CardIDsForDeck(ctx context.Context, deck string) ([]CardID, error)

	// FieldsForCard resolves a card to its note.
	FieldsForCard(ctx context.Context, id CardID) (*Note, error)

	// StylesheetForNote returns the CSS of the note's template.
	StylesheetForNote(ctx context.Context, note *Note) (string, error)

	// MediaDirectory returns the local directory holding referenced media.
	MediaDirectory(ctx context.Context) (string, error)

	// Close releases any resources held by the collection.
	Close() error
}

// =============================================================================
// HELPERS
// =============================================================================

// DeckSeparator separates parent and child deck names.
const DeckSeparator = "::"

// InDeck reports whether name is deck itself or one of its sub-decks.
// Matching is case-insensitive, like the host's deck search.
func InDeck(name, deck string) bool {
	if strings.EqualFold(name, deck) {
		return true
	}
	prefix := deck + DeckSeparator
	return len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix)
}

// sortedNames returns a sorted copy of names.
func sortedNames(names []string) []string {
	out := append([]string(nil), names...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i]) < strings.ToLower(out[j])
	})
	return out
}
