// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// SQLITE COLLECTION
// =============================================================================

const (
	// fieldSeparator joins field values in notes.flds.
	fieldSeparator = "\x1f"

	// MediaDirName is the media folder the host keeps next to the collection file.
	MediaDirName = "collection.media"
)

// SQLiteOptions configures OpenSQLite.
type SQLiteOptions struct {
	// MediaDir overrides the media directory. Empty means the
	// collection.media folder next to the collection file.
	MediaDir string
}

// SQLite reads an Anki collection file directly.
// The database is opened read-only; deck and note type metadata is loaded
// once at open time.
type SQLite struct {
	db       *sql.DB
	path     string
	mediaDir string

	decks     map[int64]string
	noteTypes map[string]*noteType
}

// OpenSQLite opens the collection file at path.
func OpenSQLite(ctx context.Context, path string, opts SQLiteOptions) (*SQLite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnavailable, path)
	}

	db, err := sql.Open("sqlite", readOnlyDSN(path))
	if err != nil {
		return nil, fmt.Errorf("open collection: %w", err)
	}

	// Single reader; the host may hold the write lock.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout=5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	mediaDir := opts.MediaDir
	if mediaDir == "" {
		mediaDir = filepath.Join(filepath.Dir(path), MediaDirName)
	}

	c := &SQLite{
		db:       db,
		path:     path,
		mediaDir: mediaDir,
	}
	if err := c.loadSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// readOnlyDSN builds a file: URI that opens path read-only.
func readOnlyDSN(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	p := filepath.ToSlash(abs)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p, RawQuery: "mode=ro"}
	return u.String()
}

// Path returns the collection file path.
func (c *SQLite) Path() string {
	return c.path
}

// =============================================================================
// SCHEMA LOADING
// =============================================================================

// loadSchema reads deck names and note types. The split schema (decks,
// notetypes and fields tables) takes precedence over the legacy JSON columns.
func (c *SQLite) loadSchema(ctx context.Context) error {
	split, err := c.hasTable(ctx, "notetypes")
	if err != nil {
		return err
	}
	if split {
		return c.loadSplitSchema(ctx)
	}
	return c.loadLegacySchema(ctx)
}

func (c *SQLite) hasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := c.db.QueryRowContext(ctx,
		"SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("%w: inspect schema: %v", ErrUnavailable, err)
	}
	return n > 0, nil
}

func (c *SQLite) loadLegacySchema(ctx context.Context) error {
	var models, decks string
	err := c.db.QueryRowContext(ctx, "SELECT models, decks FROM col LIMIT 1").Scan(&models, &decks)
	if err != nil {
		return fmt.Errorf("%w: read col: %v", ErrUnavailable, err)
	}

	nts, err := parseLegacyModels(models)
	if err != nil {
		return err
	}
	names, err := parseLegacyDecks(decks)
	if err != nil {
		return err
	}

	c.noteTypes = nts
	c.decks = make(map[int64]string, len(names))
	for key, name := range names {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return fmt.Errorf("decode col.decks: bad deck id %q", key)
		}
		c.decks[id] = name
	}
	return nil
}

func (c *SQLite) loadSplitSchema(ctx context.Context) error {
	c.decks = make(map[int64]string)
	rows, err := c.db.QueryContext(ctx, "SELECT id, name FROM decks")
	if err != nil {
		return fmt.Errorf("%w: read decks: %v", ErrUnavailable, err)
	}
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			rows.Close()
			return fmt.Errorf("scan deck: %w", err)
		}
		c.decks[id] = strings.ReplaceAll(name, fieldSeparator, DeckSeparator)
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("read decks: %w", err)
	}

	c.noteTypes = make(map[string]*noteType)
	rows, err = c.db.QueryContext(ctx, "SELECT id, name, config FROM notetypes")
	if err != nil {
		return fmt.Errorf("%w: read notetypes: %v", ErrUnavailable, err)
	}
	for rows.Next() {
		var id int64
		var name string
		var config []byte
		if err := rows.Scan(&id, &name, &config); err != nil {
			rows.Close()
			return fmt.Errorf("scan notetype: %w", err)
		}
		css, err := decodeNotetypeCSS(config)
		if err != nil {
			rows.Close()
			return fmt.Errorf("notetype %q: %w", name, err)
		}
		c.noteTypes[strconv.FormatInt(id, 10)] = &noteType{Name: name, CSS: css}
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("read notetypes: %w", err)
	}

	rows, err = c.db.QueryContext(ctx, "SELECT ntid, ord, name FROM fields ORDER BY ntid, ord")
	if err != nil {
		return fmt.Errorf("%w: read fields: %v", ErrUnavailable, err)
	}
	for rows.Next() {
		var ntid int64
		var ord int
		var name string
		if err := rows.Scan(&ntid, &ord, &name); err != nil {
			rows.Close()
			return fmt.Errorf("scan field: %w", err)
		}
		if nt, ok := c.noteTypes[strconv.FormatInt(ntid, 10)]; ok {
			nt.Fields = append(nt.Fields, name)
		}
	}
	if err := closeRows(rows); err != nil {
		return fmt.Errorf("read fields: %w", err)
	}
	return nil
}

func closeRows(rows *sql.Rows) error {
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	return rows.Close()
}

// =============================================================================
// COLLECTION INTERFACE
// =============================================================================

// ListDecks returns every deck name, sorted.
func (c *SQLite) ListDecks(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(c.decks))
	for _, name := range c.decks {
		names = append(names, name)
	}
	return sortedNames(names), nil
}

// CardIDsForDeck returns the cards whose home or original deck is deck or
// one of its sub-decks, ordered by card id.
func (c *SQLite) CardIDsForDeck(ctx context.Context, deck string) ([]CardID, error) {
	var ids []any
	for id, name := range c.decks {
		if InDeck(name, deck) {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrDeckNotFound, deck)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := fmt.Sprintf(
		"SELECT id FROM cards WHERE did IN (%s) OR odid IN (%s) ORDER BY id",
		placeholders, placeholders)

	args := append(append([]any{}, ids...), ids...)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("find cards in %q: %w", deck, err)
	}

	var cards []CardID
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan card id: %w", err)
		}
		cards = append(cards, CardID(id))
	}
	if err := closeRows(rows); err != nil {
		return nil, fmt.Errorf("find cards in %q: %w", deck, err)
	}
	return cards, nil
}

// FieldsForCard loads the card's note and names its fields from the note type.
func (c *SQLite) FieldsForCard(ctx context.Context, id CardID) (*Note, error) {
	var noteID, mid int64
	var flds string
	err := c.db.QueryRowContext(ctx,
		"SELECT n.id, n.mid, n.flds FROM cards c JOIN notes n ON n.id = c.nid WHERE c.id = ?",
		int64(id)).Scan(&noteID, &mid, &flds)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCardNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load card %s: %w", id, err)
	}

	ntKey := strconv.FormatInt(mid, 10)
	nt, ok := c.noteTypes[ntKey]
	if !ok {
		return nil, fmt.Errorf("%w: card %s references %s", ErrNoteType, id, ntKey)
	}

	values := strings.Split(flds, fieldSeparator)
	note := &Note{ID: noteID, NoteType: ntKey}
	for i, v := range values {
		name := fmt.Sprintf("Field %d", i+1)
		if i < len(nt.Fields) {
			name = nt.Fields[i]
		}
		note.Fields = append(note.Fields, Field{Name: name, Value: v})
	}
	return note, nil
}

// StylesheetForNote returns the CSS of the note's note type.
func (c *SQLite) StylesheetForNote(ctx context.Context, note *Note) (string, error) {
	nt, ok := c.noteTypes[note.NoteType]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoteType, note.NoteType)
	}
	return nt.CSS, nil
}

// MediaDirectory returns the media folder.
func (c *SQLite) MediaDirectory(ctx context.Context) (string, error) {
	return c.mediaDir, nil
}

// Close closes the database.
func (c *SQLite) Close() error {
	return c.db.Close()
}
