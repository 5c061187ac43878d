// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"sort"
	"strings"
)

// =============================================================================
// CLOZE FLATTENING
// =============================================================================

const (
	clozeClose     = "}}"
	clozeOpenStart = "{{"
	clozeSep       = "::"
)

// span is a byte range [start, end) of the input.
type span struct {
	start, end int
}

// FlattenCloze replaces every cloze deletion {{c<N>::content}} with its
// content, keeping everything up to the matching "}}" (including any "::").
// Nested deletions are flattened too, and an opener without a matching "}}"
// is kept as literal text. Runs in a single pass over s.
func FlattenCloze(s string) string {
	if !strings.Contains(s, clozeOpenStart) {
		return s
	}

	var open []span // unmatched openers, innermost last
	var drop []span // delimiters of matched deletions

	for i := 0; i < len(s); {
		if n := clozeOpenerLen(s[i:]); n > 0 {
			open = append(open, span{i, i + n})
			i += n
			continue
		}
		if len(open) > 0 && strings.HasPrefix(s[i:], clozeClose) {
			opener := open[len(open)-1]
			open = open[:len(open)-1]
			drop = append(drop, opener, span{i, i + len(clozeClose)})
			i += len(clozeClose)
			continue
		}
		i++
	}

	if len(drop) == 0 {
		return s
	}
	sort.Slice(drop, func(a, b int) bool { return drop[a].start < drop[b].start })

	var sb strings.Builder
	sb.Grow(len(s))
	prev := 0
	for _, d := range drop {
		sb.WriteString(s[prev:d.start])
		prev = d.end
	}
	sb.WriteString(s[prev:])
	return sb.String()
}

// clozeOpenerLen returns the length of a "{{c<digits>::" opener at the start
// of s, or 0 if s does not start with one.
func clozeOpenerLen(s string) int {
	if !strings.HasPrefix(s, clozeOpenStart) {
		return 0
	}
	i := len(clozeOpenStart)
	if i >= len(s) || (s[i] != 'c' && s[i] != 'C') {
		return 0
	}
	i++
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits || !strings.HasPrefix(s[i:], clozeSep) {
		return 0
	}
	return i + len(clozeSep)
}
