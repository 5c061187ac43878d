// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/deckhtml/internal/collection"
	"github.com/jeranaias/deckhtml/internal/config"
	"github.com/jeranaias/deckhtml/internal/export"
	"github.com/jeranaias/deckhtml/internal/logging"
	"github.com/jeranaias/deckhtml/internal/ui/dialog"
	"github.com/jeranaias/deckhtml/internal/ui/styles"
)

// memCollection is an in-memory collection.Collection.
type memCollection struct {
	decks map[string][]collection.CardID
	notes map[collection.CardID]*collection.Note
	opens int
}

func newMemCollection() *memCollection {
	c := &memCollection{
		decks: make(map[string][]collection.CardID),
		notes: make(map[collection.CardID]*collection.Note),
	}
	c.add("Basics", 1, "Hund", "dog")
	c.add("Basics", 2, "Katze", "cat")
	c.add("Spanish", 3, "perro", "dog")
	return c
}

func (c *memCollection) add(deck string, id collection.CardID, word, meaning string) {
	c.decks[deck] = append(c.decks[deck], id)
	c.notes[id] = &collection.Note{
		ID:       int64(id),
		NoteType: "Basic",
		Fields:   []collection.Field{{Name: "Word", Value: word}, {Name: "Meaning", Value: meaning}},
	}
}

func (c *memCollection) ListDecks(ctx context.Context) ([]string, error) {
	var names []string
	for name := range c.decks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (c *memCollection) CardIDsForDeck(ctx context.Context, deck string) ([]collection.CardID, error) {
	ids, ok := c.decks[deck]
	if !ok {
		return nil, collection.ErrDeckNotFound
	}
	return ids, nil
}

func (c *memCollection) FieldsForCard(ctx context.Context, id collection.CardID) (*collection.Note, error) {
	note, ok := c.notes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", collection.ErrCardNotFound, id)
	}
	return note, nil
}

func (c *memCollection) StylesheetForNote(ctx context.Context, note *collection.Note) (string, error) {
	return ".card { font-family: serif; }", nil
}

func (c *memCollection) MediaDirectory(ctx context.Context) (string, error) {
	return "", errors.New("no media")
}

func (c *memCollection) Close() error { return nil }

type testApp struct {
	*App
	coll   *memCollection
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	coll := newMemCollection()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	app := &App{
		Config: config.Default(),
		Logger: logging.Discard(),
		Theme:  styles.DefaultTheme(),
		Stdout: stdout,
		Stderr: stderr,
	}
	app.open = func(ctx context.Context) (collection.Collection, error) {
		coll.opens++
		return coll, nil
	}
	return &testApp{App: app, coll: coll, stdout: stdout, stderr: stderr}
}

// =============================================================================
// EXPORT
// =============================================================================

func TestHandleExport(t *testing.T) {
	ta := newTestApp(t)
	out := filepath.Join(t.TempDir(), "new", "cards")

	err := HandleExport(context.Background(), ta.App, Args{Deck: "Basics", Out: out, Style: "plain"})
	require.NoError(t, err)

	for _, name := range []string{"Hund.html", "Katze.html"} {
		data, err := os.ReadFile(filepath.Join(out, name))
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "<html")
	}
	assert.Equal(t, "All cards exported successfully to "+out+"!\n", ta.stdout.String())
}

func TestHandleExport_DefaultDirectory(t *testing.T) {
	ta := newTestApp(t)
	ta.Config.Export.DefaultDir = t.TempDir()

	require.NoError(t, HandleExport(context.Background(), ta.App, Args{Deck: "Spanish"}))
	assert.FileExists(t, filepath.Join(ta.Config.Export.DefaultDir, "perro.html"))
}

func TestHandleExport_QuietHidesSuccess(t *testing.T) {
	ta := newTestApp(t)
	ta.Quiet = true

	require.NoError(t, HandleExport(context.Background(), ta.App, Args{Deck: "Basics", Out: t.TempDir()}))
	assert.Empty(t, ta.stdout.String())
}

func TestHandleExport_PartialFailure(t *testing.T) {
	ta := newTestApp(t)
	ta.coll.decks["Basics"] = append(ta.coll.decks["Basics"], 99)
	out := t.TempDir()

	err := HandleExport(context.Background(), ta.App, Args{Deck: "Basics", Out: out})
	require.Error(t, err)
	assert.Equal(t, ExitGeneralError, GetExitCode(err))
	assert.Contains(t, err.Error(), "1 of 3 cards failed")
	assert.Contains(t, ta.stdout.String(), "Finished with errors:")
	assert.FileExists(t, filepath.Join(out, "Hund.html"))
}

func TestHandleExport_Errors(t *testing.T) {
	tests := []struct {
		name   string
		args   Args
		source string
		want   int
	}{
		{"unknown deck", Args{Deck: "Nope"}, "", ExitNotFoundError},
		{"bad style", Args{Deck: "Basics", Style: "neon"}, "", ExitUsageError},
		{"watch needs sqlite", Args{Deck: "Basics", Watch: true}, config.SourceAnkiConnect, ExitUsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta := newTestApp(t)
			if tt.source != "" {
				ta.Config.Collection.Source = tt.source
			}
			tt.args.Out = t.TempDir()

			err := HandleExport(context.Background(), ta.App, tt.args)
			require.Error(t, err)
			assert.Equal(t, tt.want, GetExitCode(err))
		})
	}
}

func TestHandleExport_WatchStopsOnCancel(t *testing.T) {
	ta := newTestApp(t)
	collPath := filepath.Join(t.TempDir(), "collection.anki2")
	require.NoError(t, os.WriteFile(collPath, []byte("x"), 0644))
	ta.Config.Collection.Path = collPath

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := HandleExport(ctx, ta.App, Args{Deck: "Basics", Out: t.TempDir(), Watch: true})
	assert.NoError(t, err)
	assert.Equal(t, 1, ta.coll.opens)
}

// =============================================================================
// DECKS AND RENDER
// =============================================================================

func TestHandleDecks(t *testing.T) {
	ta := newTestApp(t)
	require.NoError(t, HandleDecks(context.Background(), ta.App, Args{}))
	assert.Equal(t, "Basics\nSpanish\n", ta.stdout.String())

	ta.stdout.Reset()
	require.NoError(t, HandleDecks(context.Background(), ta.App, Args{Counts: true}))
	lines := bytes.Split(bytes.TrimSpace(ta.stdout.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), "Basics ")
	assert.Contains(t, string(lines[0]), "2")
	assert.Contains(t, string(lines[1]), "Spanish")
	assert.Contains(t, string(lines[1]), "1")
}

func TestHandleRender(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, HandleRender(context.Background(), ta.App, Args{Deck: "Basics", Card: 2, Style: "styled"}))
	assert.Contains(t, ta.stdout.String(), "Katze")
	assert.Contains(t, ta.stdout.String(), "font-family: serif")
	assert.Contains(t, ta.stderr.String(), "Katze.html")
}

func TestHandleRender_Styled(t *testing.T) {
	ta := newTestApp(t)
	ta.Styled = true

	require.NoError(t, HandleRender(context.Background(), ta.App, Args{Deck: "Basics", Card: 1}))
	assert.Contains(t, ta.stdout.String(), "Hund")
	assert.Contains(t, ta.stdout.String(), "\x1b[")
}

func TestHandleRender_CardOutOfRange(t *testing.T) {
	ta := newTestApp(t)
	err := HandleRender(context.Background(), ta.App, Args{Deck: "Spanish", Card: 2})
	require.Error(t, err)
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
	assert.Contains(t, err.Error(), "deck has 1 cards")
}

// =============================================================================
// DIALOG OUTCOME
// =============================================================================

func TestDialogOutcome(t *testing.T) {
	ok := &export.Result{Directory: "/tmp", Cards: 1, Written: []string{"a.html"}}
	failed := &export.Result{Directory: "/tmp", Cards: 1, Errors: []string{"card 1: boom"}}

	assert.NoError(t, dialogOutcome(dialog.StateAborted, nil, dialog.ErrNoDirectory))
	assert.NoError(t, dialogOutcome(dialog.StateReported, ok, nil))
	assert.Error(t, dialogOutcome(dialog.StateReported, failed, nil))

	err := dialogOutcome(dialog.StateReported, nil, fmt.Errorf("list: %w", collection.ErrDeckNotFound))
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))
}

// =============================================================================
// CONFIG
// =============================================================================

func TestHandleConfig(t *testing.T) {
	ta := newTestApp(t)
	path := filepath.Join(t.TempDir(), "config.toml")

	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "path", ConfigFile: path}))
	assert.Equal(t, path+"\n", ta.stdout.String())

	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "init", ConfigFile: path}))
	assert.FileExists(t, path)

	err := HandleConfig(ta.App, Args{Subcommand: "init", ConfigFile: path})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "init", ConfigFile: path, Force: true}))

	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "set", ConfigFile: path, ConfigKey: "export.style", ConfigVal: "plain"}))
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "plain", cfg.Export.Style)

	err = HandleConfig(ta.App, Args{Subcommand: "set", ConfigFile: path, ConfigKey: "export.style", ConfigVal: "neon"})
	require.Error(t, err)
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	err = HandleConfig(ta.App, Args{Subcommand: "set", ConfigFile: path, ConfigKey: "export.colour", ConfigVal: "x"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_ShowAndGet(t *testing.T) {
	ta := newTestApp(t)

	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "get", ConfigKey: "export.default_dir"}))
	assert.Equal(t, "~/Desktop\n", ta.stdout.String())

	ta.stdout.Reset()
	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "show"}))
	assert.Contains(t, ta.stdout.String(), "styled")

	err := HandleConfig(ta.App, Args{Subcommand: "get", ConfigKey: "nope"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}

func TestHandleConfig_InitDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	for _, env := range []string{"DECKHTML_SOURCE", "DECKHTML_COLLECTION", "DECKHTML_MEDIA_DIR",
		"DECKHTML_ANKICONNECT_URL", "DECKHTML_STYLE", "DECKHTML_OUTPUT_DIR", "DECKHTML_LOG_LEVEL"} {
		t.Setenv(env, "")
	}
	ta := newTestApp(t)

	require.NoError(t, HandleConfig(ta.App, Args{Subcommand: "init"}))

	path := filepath.Join(home, ".deckhtml", "config.toml")
	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Contains(t, ta.stderr.String(), path)
}
