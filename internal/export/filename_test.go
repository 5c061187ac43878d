// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"regexp"
	"testing"
)

var asciiFilename = regexp.MustCompile(`^[A-Za-z0-9_.\- ]+$`)

func TestCardFilename(t *testing.T) {
	tests := []struct {
		name    string
		first   string
		index   int
		unicode bool
		want    string
	}{
		{"simple", "Haus", 1, false, "Haus.html"},
		{"stripped", "  Haus \n", 1, false, "Haus.html"},
		{"blank falls back", "   ", 4, false, "card_4.html"},
		{"empty falls back", "", 12, false, "card_12.html"},
		{"spaces kept", "ein Haus", 1, false, "ein Haus.html"},
		{"slashes", "a/b\\c", 1, false, "a_b_c.html"},
		{"markup", "<b>Haus</b>", 1, false, "_b_Haus__b_.html"},
		{"umlaut ascii", "Häuser", 1, false, "H_user.html"},
		{"umlaut unicode", "Häuser", 1, true, "Häuser.html"},
		{"decomposed unicode", "Ha\u0308user", 1, true, "H\u00e4user.html"},
		{"decomposed ascii", "Ha\u0308user", 1, false, "Ha_user.html"},
		{"cjk unicode", "猫 cat", 1, true, "猫 cat.html"},
		{"symbols unicode", "a→b", 1, true, "a_b.html"},
		{"dots", "..", 1, false, "...html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CardFilename(tt.first, tt.index, tt.unicode)
			if got != tt.want {
				t.Errorf("CardFilename(%q) = %q, want %q", tt.first, got, tt.want)
			}
		})
	}
}

func TestCardFilenameAlphabet(t *testing.T) {
	inputs := []string{
		"Haus", "a:b*c?d", "Straße", "日本語", "tab\there", "quote\"d", "50% off!", "emoji 🐶",
	}
	for _, in := range inputs {
		got := CardFilename(in, 1, false)
		if !asciiFilename.MatchString(got) {
			t.Errorf("CardFilename(%q) = %q contains disallowed characters", in, got)
		}
	}
}
