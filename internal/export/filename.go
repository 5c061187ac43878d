// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// FileExtension is appended to every card file name.
const FileExtension = ".html"

// CardFilename derives the output file name for the index-th card (1-based)
// from its first field value. A blank value yields card_<index>.html.
// Names are not made unique: equal first fields map to the same file.
func CardFilename(first string, index int, unicodeNames bool) string {
	name := strings.TrimSpace(first)
	if name == "" {
		name = fmt.Sprintf("card_%d", index)
	}
	return SanitizeFilename(name+FileExtension, unicodeNames)
}

// SanitizeFilename replaces every character outside [A-Za-z0-9_.\- ] with
// '_'. With unicodeNames set, the name is NFC-normalised first and Unicode
// letters and digits are kept as well.
func SanitizeFilename(name string, unicodeNames bool) string {
	if unicodeNames {
		name = norm.NFC.String(name)
	}

	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		if allowedFilenameRune(r, unicodeNames) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func allowedFilenameRune(r rune, unicodeNames bool) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_', r == '-', r == '.', r == ' ':
		return true
	case unicodeNames && r > unicode.MaxASCII:
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	default:
		return false
	}
}
