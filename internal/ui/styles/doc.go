// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the terminal colors and lipgloss styles used by the
deck dialog and the command-line output.

All colors use Lip Gloss AdaptiveColor. NewTheme selects the light or dark
side from the ui.theme setting, or from the terminal background when the
setting is "auto".

	theme, err := styles.NewTheme(cfg.UI.Theme)
	fmt.Println(theme.Title.Render("Export a deck"))
*/
package styles
