// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"strings"
	"testing"
	"time"
)

func TestFlattenCloze(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"no markup", "plain text", "plain text"},
		{"single", "{{c1::Haus}}", "Haus"},
		{"uppercase c", "{{C12::Baum}}", "Baum"},
		{"surrounded", "Das {{c1::Haus}} ist groß", "Das Haus ist groß"},
		{"several", "{{c1::a}} and {{c2::b}}", "a and b"},
		{"double colon kept", "{{c1::Paris::capital}} is nice", "Paris::capital is nice"},
		{"scoped name", "{{c1::std::vector}}", "std::vector"},
		{"nested", "{{c1::outer {{c2::inner}} end}}", "outer inner end"},
		{"nested after double colon", "{{c1::x::hint {{c2::y}}}}", "x::hint y"},
		{"first closer ends deletion", "{{c1::a}} b}}", "a b}}"},
		{"non-cloze braces inside", "{{c1::a {{Front}} b}}", "a {{Front b}}"},
		{"deeply nested", "{{c1::{{c2::{{c3::x}}}}}}", "x"},
		{"stray closer", "a}} {{c1::b}}", "a}} b"},
		{"html content", "{{c1::<b>bold</b>}}", "<b>bold</b>"},
		{"empty content", "a{{c1::}}b", "ab"},
		{"multiline", "{{c1::line one\nline two}}", "line one\nline two"},
		{"unterminated", "{{c1::open", "{{c1::open"},
		{"unterminated outer", "{{c1::a {{c2::b}}", "{{c1::a b"},
		{"no digits", "{{c::x}}", "{{c::x}}"},
		{"not cloze", "{{Front}}", "{{Front}}"},
		{"template braces", "{{c1::a}} {{", "a {{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FlattenCloze(tt.input); got != tt.want {
				t.Errorf("FlattenCloze(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFlattenClozeRemovesDelimiters(t *testing.T) {
	for _, x := range []string{"X", "Haus", "ein Haus", "<i>x</i>", "über"} {
		out := FlattenCloze("before {{c1::" + x + "}} after")
		if !strings.Contains(out, x) {
			t.Errorf("content %q missing from %q", x, out)
		}
		if strings.Contains(out, "{{c1::") || strings.Contains(out, "}}") {
			t.Errorf("cloze delimiters left in %q", out)
		}
	}
}

func TestFlattenClozeManyUnterminated(t *testing.T) {
	input := strings.Repeat("{{c1::", 200)
	if got := FlattenCloze(input); got != input {
		t.Errorf("unterminated openers should be kept literally")
	}
}

func TestFlattenClozeLinearOnPathologicalInput(t *testing.T) {
	unterminated := strings.Repeat("{{c1::", 50000)
	nested := strings.Repeat("{{c1::x", 50000) + strings.Repeat("}}", 50000)

	start := time.Now()
	if got := FlattenCloze(unterminated); got != unterminated {
		t.Errorf("unterminated openers should be kept literally")
	}
	if got := FlattenCloze(nested); got != strings.Repeat("x", 50000) {
		t.Errorf("nested deletions not flattened")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("FlattenCloze took %v on 300 KB fields", elapsed)
	}
}
