// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewTheme(t *testing.T) {
	tests := []struct {
		name     string
		wantDark bool
	}{
		{"dark", true},
		{"light", false},
		{"LIGHT", false},
		{" dark ", true},
	}

	for _, tt := range tests {
		theme, err := NewTheme(tt.name)
		if err != nil {
			t.Fatalf("NewTheme(%q) error: %v", tt.name, err)
		}
		if theme.IsDark != tt.wantDark {
			t.Errorf("NewTheme(%q).IsDark = %v, want %v", tt.name, theme.IsDark, tt.wantDark)
		}
		if lipgloss.HasDarkBackground() != tt.wantDark {
			t.Errorf("NewTheme(%q) did not set lipgloss background", tt.name)
		}
	}
}

func TestNewThemeUnknown(t *testing.T) {
	if _, err := NewTheme("neon"); err == nil {
		t.Error("expected error for unknown theme")
	}
}

func TestDefaultThemeIsAuto(t *testing.T) {
	theme := DefaultTheme()
	if theme == nil || theme.Name != ThemeAuto {
		t.Fatalf("DefaultTheme() = %+v, want auto theme", theme)
	}
}

func TestThemeStylesRender(t *testing.T) {
	theme, err := NewTheme("dark")
	if err != nil {
		t.Fatal(err)
	}

	for name, style := range map[string]lipgloss.Style{
		"Title":        theme.Title,
		"ItemSelected": theme.ItemSelected,
		"Match":        theme.Match,
		"Error":        theme.Error,
	} {
		if got := style.Render("Basics"); got == "" {
			t.Errorf("%s rendered empty string", name)
		}
	}
}

func TestBoxWidth(t *testing.T) {
	tests := []struct {
		term, preferred, want int
	}{
		{0, 60, 60},
		{120, 60, 60},
		{50, 60, 46},
		{10, 60, 20},
	}
	for _, tt := range tests {
		if got := BoxWidth(tt.term, tt.preferred); got != tt.want {
			t.Errorf("BoxWidth(%d, %d) = %d, want %d", tt.term, tt.preferred, got, tt.want)
		}
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{StatusIndicators.Success, StatusIndicators.Error, StatusIndicators.Warning, StatusIndicators.Arrow} {
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q contains non-ASCII rune", s)
			}
		}
	}
}
