// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"sort"
	"strings"
	"unicode"
)

// =============================================================================
// FUZZY MATCHING
// =============================================================================

// FuzzyMatch performs fuzzy matching between a query and a deck name.
// Returns a score (higher is better) and whether the match succeeded.
//
// Matching rules:
//   - Each character in query must appear in order in target
//   - Consecutive matches get bonus points
//   - Matches at word boundaries and after "::" get bonus points
//   - Matches at start of string get bonus points
//   - Case-insensitive matching
//
// Examples:
//   - "gv" matches "German::Vocabulary" (start + sub-deck boundary)
//   - "vcb" matches "German::Vocabulary" with a lower score
//   - "xyz" does not match "German::Vocabulary"
func FuzzyMatch(query, target string) (score int, matched bool) {
	score, positions := fuzzyPositions(query, target)
	if positions == nil && query != "" {
		return 0, false
	}
	return score, true
}

// fuzzyPositions returns the score and the rune positions in target that
// matched. positions is nil when the match failed.
func fuzzyPositions(query, target string) (int, []int) {
	if query == "" {
		return 0, []int{}
	}

	queryRunes := []rune(strings.ToLower(query))
	targetRunes := []rune(strings.ToLower(target))
	if len(queryRunes) > len(targetRunes) {
		return 0, nil
	}

	targetOrig := []rune(target)
	queryOrig := []rune(query)

	positions := make([]int, 0, len(queryRunes))
	score := 0
	queryPos := 0
	lastMatch := -1

	for targetPos := 0; targetPos < len(targetRunes) && queryPos < len(queryRunes); targetPos++ {
		if targetRunes[targetPos] != queryRunes[queryPos] {
			continue
		}

		matchScore := 1
		if lastMatch == targetPos-1 {
			matchScore += 5
		}
		if targetPos == 0 {
			matchScore += 10
		}
		if isWordBoundary(targetRunes, targetPos) {
			matchScore += 7
		}
		if len(targetOrig) == len(targetRunes) && len(queryOrig) == len(queryRunes) &&
			targetOrig[targetPos] == queryOrig[queryPos] {
			matchScore += 2
		}

		score += matchScore
		positions = append(positions, targetPos)
		lastMatch = targetPos
		queryPos++
	}

	if queryPos != len(queryRunes) {
		return 0, nil
	}

	// Shorter names are better matches.
	score -= len(targetRunes) / 4
	return score, positions
}

// isWordBoundary reports whether pos starts a word: after a separator
// (space, slash, dash, underscore, colon) or at a camelCase hump.
func isWordBoundary(runes []rune, pos int) bool {
	if pos == 0 {
		return true
	}
	if pos >= len(runes) {
		return false
	}

	prev := runes[pos-1]
	switch prev {
	case ' ', '/', '-', '_', ':':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(runes[pos])
}

// =============================================================================
// SCORED MATCH
// =============================================================================

// ScoredMatch is a deck name that survived filtering.
type ScoredMatch struct {
	Target    string
	Score     int
	Positions []int
}

// FuzzyFilter filters targets by query. Matches are sorted by score, highest
// first; equal scores keep their input order.
func FuzzyFilter(query string, targets []string) []ScoredMatch {
	matches := make([]ScoredMatch, 0, len(targets))
	for _, target := range targets {
		score, positions := fuzzyPositions(query, target)
		if positions == nil {
			continue
		}
		matches = append(matches, ScoredMatch{Target: target, Score: score, Positions: positions})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	return matches
}
