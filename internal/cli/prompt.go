// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Line-prompt version of the deck dialog.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/deckhtml/internal/config"
	"github.com/jeranaias/deckhtml/internal/ui/dialog"
	"github.com/jeranaias/deckhtml/internal/util"
)

// LineReader reads one line of input. *liner.State implements it.
type LineReader interface {
	Prompt(prompt string) (string, error)
	PromptWithSuggestion(prompt, text string, pos int) (string, error)
}

// maxPromptAttempts bounds re-prompting after invalid input.
const maxPromptAttempts = 5

// NewLineReader returns a liner prompt with tab completion of deck names.
// The caller must Close it to restore the terminal.
func NewLineReader(decks []string) *liner.State {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(input string) []string {
		var out []string
		lower := strings.ToLower(input)
		for _, deck := range decks {
			if strings.HasPrefix(strings.ToLower(deck), lower) {
				out = append(out, deck)
			}
		}
		return out
	})
	return line
}

// PromptDeckAndDirectory asks for a deck, then for an output directory.
// Leaving either prompt empty, Ctrl-C or end of input aborts with
// dialog.ErrNoDirectory.
func PromptDeckAndDirectory(r LineReader, w io.Writer, decks []string, defaultDir string) (string, string, error) {
	if len(decks) == 0 {
		return "", "", errors.New("the collection has no decks")
	}

	fmt.Fprintln(w, TitleStyle.Render("Export a deck to HTML"))
	width := len(strconv.Itoa(len(decks)))
	for i, deck := range decks {
		fmt.Fprintf(w, "  %*d) %s\n", width, i+1, util.TruncateWidth(deck, GetTerminalWidth()-width-6))
	}
	fmt.Fprintln(w)

	deck, err := promptDeck(r, w, decks)
	if err != nil {
		return "", "", err
	}
	dir, err := promptDirectory(r, w, defaultDir)
	if err != nil {
		return "", "", err
	}
	return deck, dir, nil
}

func promptDeck(r LineReader, w io.Writer, decks []string) (string, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		input, err := r.Prompt("Deck (number or name, tab completes): ")
		if err != nil {
			return "", abortError(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return "", dialog.ErrNoDirectory
		}

		if deck, ok := resolveDeck(input, decks); ok {
			return deck, nil
		}
		fmt.Fprintf(w, "%s no deck matches %q\n", RenderStatus("warn"), input)
	}
	return "", dialog.ErrNoDirectory
}

// resolveDeck accepts a list number, an exact name (any case) or a query
// with exactly one fuzzy match.
func resolveDeck(input string, decks []string) (string, bool) {
	if n, err := strconv.Atoi(input); err == nil {
		if n >= 1 && n <= len(decks) {
			return decks[n-1], true
		}
		return "", false
	}
	for _, deck := range decks {
		if strings.EqualFold(deck, input) {
			return deck, true
		}
	}
	if matches := dialog.FuzzyFilter(input, decks); len(matches) == 1 {
		return matches[0].Target, true
	}
	return "", false
}

func promptDirectory(r LineReader, w io.Writer, defaultDir string) (string, error) {
	for attempt := 0; attempt < maxPromptAttempts; attempt++ {
		input, err := r.PromptWithSuggestion("Save to: ", defaultDir, -1)
		if err != nil {
			return "", abortError(err)
		}
		input = strings.TrimSpace(input)
		if input == "" {
			return "", dialog.ErrNoDirectory
		}

		path := config.ExpandPath(input)
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return path, nil
		}
		fmt.Fprintf(w, "%s not a directory: %s\n", RenderStatus("warn"), path)
		defaultDir = input
	}
	return "", dialog.ErrNoDirectory
}

// abortError maps Ctrl-C and end of input to the no-directory outcome.
func abortError(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
		return dialog.ErrNoDirectory
	}
	return err
}
