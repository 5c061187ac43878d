// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme names accepted by NewTheme.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
	ThemeAuto  = "auto"
)

// Theme holds the styles shared by the deck dialog and the CLI output.
type Theme struct {
	Name         string
	IsDark       bool
	ColorProfile termenv.Profile

	// Frame
	Box      lipgloss.Style
	Title    lipgloss.Style
	Subtitle lipgloss.Style

	// Deck list
	Item         lipgloss.Style
	ItemSelected lipgloss.Style
	Indicator    lipgloss.Style
	Match        lipgloss.Style
	Empty        lipgloss.Style

	// Inputs
	Prompt      lipgloss.Style
	InputText   lipgloss.Style
	Placeholder lipgloss.Style

	// Results
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Help    lipgloss.Style
}

// NewTheme builds the theme for the given name. "auto" follows the terminal
// background; "dark" and "light" force the adaptive colors to one side.
func NewTheme(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = ThemeAuto
	}

	var dark bool
	switch name {
	case ThemeAuto:
		dark = termenv.HasDarkBackground()
	case ThemeDark:
		dark = true
	case ThemeLight:
		dark = false
	default:
		return nil, fmt.Errorf("unknown theme %q", name)
	}
	lipgloss.SetHasDarkBackground(dark)

	t := &Theme{
		Name:         name,
		IsDark:       dark,
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t, nil
}

// DefaultTheme returns the auto-detected theme.
func DefaultTheme() *Theme {
	t, _ := NewTheme(ThemeAuto)
	return t
}

func (t *Theme) initStyles() {
	t.Box = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Orange)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.Item = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.ItemSelected = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SelectionBg).
		Bold(true)

	t.Indicator = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.Match = lipgloss.NewStyle().
		Foreground(Orange).
		Bold(true)

	t.Empty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.Prompt = lipgloss.NewStyle().
		Foreground(Cyan).
		Bold(true)

	t.InputText = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.Placeholder = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.Success = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.Warning = lipgloss.NewStyle().
		Foreground(Amber)

	t.Error = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.Help = lipgloss.NewStyle().
		Foreground(TextMuted)
}

// BoxWidth clamps a dialog width to the terminal width.
func BoxWidth(termWidth, preferred int) int {
	if termWidth <= 0 {
		return preferred
	}
	if w := termWidth - 4; w < preferred {
		if w < 20 {
			return 20
		}
		return w
	}
	return preferred
}
