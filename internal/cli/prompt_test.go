// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/deckhtml/internal/ui/dialog"
)

// scriptedReader answers prompts from a fixed list, then reports io.EOF.
type scriptedReader struct {
	answers     []string
	err         error
	prompts     []string
	suggestions []string
}

func (s *scriptedReader) next(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.answers) == 0 {
		if s.err != nil {
			return "", s.err
		}
		return "", io.EOF
	}
	answer := s.answers[0]
	s.answers = s.answers[1:]
	return answer, nil
}

func (s *scriptedReader) Prompt(prompt string) (string, error) {
	return s.next(prompt)
}

func (s *scriptedReader) PromptWithSuggestion(prompt, text string, pos int) (string, error) {
	s.suggestions = append(s.suggestions, text)
	return s.next(prompt)
}

var promptDecks = []string{"Basics", "German::Vocabulary", "Spanish"}

func TestPromptDeckAndDirectory(t *testing.T) {
	dir := t.TempDir()
	r := &scriptedReader{answers: []string{"9", "voc", filepath.Join(dir, "missing"), dir}}
	var out bytes.Buffer

	deck, got, err := PromptDeckAndDirectory(r, &out, promptDecks, "~/Desktop")
	require.NoError(t, err)
	assert.Equal(t, "German::Vocabulary", deck)
	assert.Equal(t, dir, got)

	assert.Contains(t, out.String(), "2) German::Vocabulary")
	assert.Contains(t, out.String(), `no deck matches "9"`)
	assert.Contains(t, out.String(), "not a directory: "+filepath.Join(dir, "missing"))

	// The rejected path is offered again for editing.
	assert.Equal(t, []string{"~/Desktop", filepath.Join(dir, "missing")}, r.suggestions)
}

func TestPromptDeckAndDirectory_Abort(t *testing.T) {
	tests := []struct {
		name    string
		answers []string
		err     error
	}{
		{"empty deck", []string{""}, nil},
		{"empty directory", []string{"1", "  "}, nil},
		{"end of input", nil, nil},
		{"ctrl-c", []string{"1"}, liner.ErrPromptAborted},
		{"too many attempts", []string{"x1", "x2", "x3", "x4", "x5", "Basics"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := &scriptedReader{answers: tt.answers, err: tt.err}
			_, _, err := PromptDeckAndDirectory(r, io.Discard, promptDecks, t.TempDir())
			assert.ErrorIs(t, err, dialog.ErrNoDirectory)
		})
	}
}

func TestPromptDeckAndDirectory_Errors(t *testing.T) {
	_, _, err := PromptDeckAndDirectory(&scriptedReader{}, io.Discard, nil, "")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, dialog.ErrNoDirectory)

	broken := errors.New("terminal gone")
	_, _, err = PromptDeckAndDirectory(&scriptedReader{err: broken}, io.Discard, promptDecks, "")
	assert.ErrorIs(t, err, broken)
}

func TestResolveDeck(t *testing.T) {
	tests := []struct {
		input string
		want  string
		ok    bool
	}{
		{"1", "Basics", true},
		{"3", "Spanish", true},
		{"0", "", false},
		{"4", "", false},
		{"basics", "Basics", true},
		{"GERMAN::VOCABULARY", "German::Vocabulary", true},
		{"spn", "Spanish", true},
		{"s", "", false},
		{"zzz", "", false},
	}

	for _, tt := range tests {
		got, ok := resolveDeck(tt.input, promptDecks)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
