// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package util

import "github.com/mattn/go-runewidth"

// Ellipsis marks truncated text.
const Ellipsis = "..."

// StringWidth returns the number of terminal cells s occupies. Wide runes
// (CJK, fullwidth forms) count as two.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// TruncateWidth shortens s to at most maxWidth cells, ending it with
// Ellipsis when anything was cut. A wide rune is never split.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(s, maxWidth, Ellipsis)
}

// PadWidth right-pads s with spaces to maxWidth cells, truncating first if
// it is wider.
func PadWidth(s string, maxWidth int) string {
	return runewidth.FillRight(TruncateWidth(s, maxWidth), maxWidth)
}
