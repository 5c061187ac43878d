// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/deckhtml/internal/collection"
	"github.com/jeranaias/deckhtml/internal/config"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		argv  []string
		cmd   Command
		check func(*testing.T, Args)
	}{
		{"no arguments opens the dialog", nil, CmdDialog, nil},
		{"dialog", []string{"dialog", "--plain"}, CmdDialog, func(t *testing.T, a Args) {
			assert.True(t, a.Plain)
		}},
		{"export flags", []string{"export", "--deck", "German::Vocabulary", "--out", "/tmp/x", "--style=plain", "--open"}, CmdExport, func(t *testing.T, a Args) {
			assert.Equal(t, "German::Vocabulary", a.Deck)
			assert.Equal(t, "/tmp/x", a.Out)
			assert.Equal(t, "plain", a.Style)
			assert.True(t, a.Open)
			assert.False(t, a.Watch)
		}},
		{"export positional deck", []string{"export", "--watch", "Basics"}, CmdExport, func(t *testing.T, a Args) {
			assert.Equal(t, "Basics", a.Deck)
			assert.True(t, a.Watch)
		}},
		{"global flags anywhere", []string{"export", "--deck", "Basics", "-q", "--collection=/data/c.anki2", "--source", "sqlite"}, CmdExport, func(t *testing.T, a Args) {
			assert.True(t, a.Quiet)
			assert.Equal(t, "/data/c.anki2", a.Collection)
			assert.Equal(t, "sqlite", a.Source)
		}},
		{"decks alias", []string{"list", "--counts"}, CmdDecks, func(t *testing.T, a Args) {
			assert.True(t, a.Counts)
		}},
		{"render default card", []string{"render", "--deck", "Basics"}, CmdRender, func(t *testing.T, a Args) {
			assert.Equal(t, 1, a.Card)
		}},
		{"preview card", []string{"preview", "--deck", "Basics", "--card", "4"}, CmdRender, func(t *testing.T, a Args) {
			assert.Equal(t, 4, a.Card)
		}},
		{"config default", []string{"config"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "show", a.Subcommand)
		}},
		{"config set", []string{"--config", "/tmp/c.toml", "config", "set", "export.style", "plain"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "set", a.Subcommand)
			assert.Equal(t, "export.style", a.ConfigKey)
			assert.Equal(t, "plain", a.ConfigVal)
			assert.Equal(t, "/tmp/c.toml", a.ConfigFile)
		}},
		{"config init force", []string{"config", "init", "--force"}, CmdConfig, func(t *testing.T, a Args) {
			assert.True(t, a.Force)
		}},
		{"version", []string{"--version"}, CmdVersion, nil},
		{"help", []string{"-h"}, CmdHelp, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, args, err := Parse(tt.argv)
			require.NoError(t, err)
			assert.Equal(t, tt.cmd, cmd)
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
	}{
		{"unknown command", []string{"frobnicate"}},
		{"quiet and verbose", []string{"-q", "-v", "decks"}},
		{"missing global value", []string{"decks", "--collection"}},
		{"export without deck", []string{"export", "--out", "/tmp"}},
		{"export two positionals", []string{"export", "Basics", "Spanish"}},
		{"export unknown flag", []string{"export", "--deck", "Basics", "--format", "pdf"}},
		{"render bad card", []string{"render", "--deck", "Basics", "--card", "0"}},
		{"render without deck", []string{"render"}},
		{"config get without key", []string{"config", "get"}},
		{"config set without value", []string{"config", "set", "export.style"}},
		{"config unknown", []string{"config", "reset"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.argv)
			require.Error(t, err)
			assert.Equal(t, ExitUsageError, GetExitCode(err))
		})
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("boom"), ExitGeneralError},
		{"validation", NewValidationError("--style", "neon", "bad"), ExitUsageError},
		{"config", &ConfigError{Path: "/x", Err: errors.New("bad toml")}, ExitConfigError},
		{"validate errors", fmt.Errorf("load: %w", config.ValidateErrors{{Field: "export.style"}}), ExitConfigError},
		{"not found", &NotFoundError{Resource: "card", ID: "#9"}, ExitNotFoundError},
		{"wrapped deck", NewCommandError("export", "Nope", "export failed", fmt.Errorf("list: %w", collection.ErrDeckNotFound)), ExitNotFoundError},
		{"unavailable", NewCommandError("decks", "open", "cannot open collection", collection.ErrUnavailable), ExitUnavailableError},
		{"partial export", NewCommandError("export", "Basics", "1 of 3 cards failed", nil), ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, nil)
	assert.Empty(t, buf.String())

	DisplayError(&buf, NewCommandError("export", "Basics", "export failed", errors.New("disk full")))
	assert.Contains(t, buf.String(), "[ERROR]")
	assert.Contains(t, buf.String(), "export Basics failed: export failed: disk full")
}

func TestPrintUsageAndVersion(t *testing.T) {
	var buf bytes.Buffer
	PrintUsage(&buf)
	assert.Contains(t, buf.String(), "deckhtml export --deck")
	assert.Contains(t, buf.String(), Version)

	buf.Reset()
	PrintVersion(&buf)
	assert.Contains(t, buf.String(), "deckhtml version "+Version)
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "export", CmdExport.String())
	assert.Equal(t, "help", CmdHelp.String())
	assert.Equal(t, "unknown", Command(42).String())
}
