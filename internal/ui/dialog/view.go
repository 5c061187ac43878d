// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/deckhtml/internal/ui/styles"
	"github.com/jeranaias/deckhtml/internal/util"
)

// View implements tea.Model.
func (m Model) View() string {
	width := styles.BoxWidth(m.width, boxWidth)

	var body string
	switch m.state {
	case StateSelectDeck:
		body = m.viewDeckList(width)
	case StateSelectDirectory:
		body = m.viewDirectory(width)
	case StateExporting:
		body = m.viewExporting(width)
	case StateReported:
		body = m.viewReport()
	case StateAborted:
		return m.theme.Warning.Render(NoDirectoryMessage) + "\n"
	}

	return m.theme.Box.Width(width).Render(body) + "\n"
}

func (m Model) viewDeckList(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Export a deck to HTML"))
	b.WriteString("\n\n")
	b.WriteString(m.filter.View())
	b.WriteString("\n\n")

	if len(m.matches) == 0 {
		if len(m.decks) == 0 {
			b.WriteString(m.theme.Empty.Render("The collection has no decks"))
		} else {
			b.WriteString(m.theme.Empty.Render("No matching decks"))
		}
		b.WriteString("\n")
	}

	start := 0
	if m.selected >= maxVisible {
		start = m.selected - maxVisible + 1
	}
	end := min(start+maxVisible, len(m.matches))

	nameWidth := width - 6
	for i := start; i < end; i++ {
		match := m.matches[i]
		name := highlightTruncated(match.Target, nameWidth, match.Positions, m.theme.Match)
		if i == m.selected {
			b.WriteString(m.theme.Indicator.Render(styles.StatusIndicators.Arrow + " "))
			b.WriteString(m.theme.ItemSelected.Render(name))
		} else {
			b.WriteString("  ")
			b.WriteString(m.theme.Item.Render(name))
		}
		b.WriteString("\n")
	}

	if len(m.matches) > maxVisible {
		b.WriteString(m.theme.Help.Render(fmt.Sprintf("%d of %d decks", len(m.matches), len(m.decks))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(deckHelp(m.keys)))
	return b.String()
}

func (m Model) viewDirectory(width int) string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Choose an output directory"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Deck: " + util.TruncateWidth(m.deck, width-10)))
	b.WriteString("\n\n")
	b.WriteString(m.dir.View())
	b.WriteString("\n")
	if m.dirErr != "" {
		b.WriteString(m.theme.Error.Render(util.TruncateWidth(m.dirErr, width-4)))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(directoryHelp(m.keys)))
	return b.String()
}

func (m Model) viewExporting(width int) string {
	return fmt.Sprintf("%s Exporting %s\n%s",
		m.spinner.View(),
		util.TruncateWidth(m.deck, width-16),
		m.theme.Help.Render("to "+util.TruncateWidth(m.directory, width-8)))
}

func (m Model) viewReport() string {
	var b strings.Builder
	b.WriteString(m.report.View())
	b.WriteString("\n\n")
	b.WriteString(m.help.View(reportHelp(m.keys)))
	return b.String()
}

// reportText renders the run summary shown in the viewport.
func (m Model) reportText() string {
	switch {
	case m.err != nil:
		return m.theme.Error.Render(styles.StatusIndicators.Error+" Export failed") + "\n" + m.err.Error()
	case m.result == nil:
		return ""
	case m.result.OK():
		return m.theme.Success.Render(styles.StatusIndicators.Success+" ") + m.result.Summary()
	default:
		lines := strings.SplitN(m.result.Summary(), "\n", 2)
		head := m.theme.Warning.Render(styles.StatusIndicators.Warning + " " + lines[0])
		if len(lines) == 1 {
			return head
		}
		return head + "\n" + lines[1]
	}
}

// highlightTruncated truncates s to width cells and highlights the matched
// runes that survive the cut.
func highlightTruncated(s string, width int, positions []int, style lipgloss.Style) string {
	short := util.TruncateWidth(s, width)
	if short == s {
		return highlight(s, positions, style)
	}
	kept := strings.TrimSuffix(short, util.Ellipsis)
	return highlight(kept, positions, style) + util.Ellipsis
}

// highlight renders the runes at positions with style. Positions past the
// end of s are ignored.
func highlight(s string, positions []int, style lipgloss.Style) string {
	if len(positions) == 0 {
		return s
	}
	marked := make(map[int]bool, len(positions))
	for _, p := range positions {
		marked[p] = true
	}

	var b strings.Builder
	for i, r := range []rune(s) {
		if marked[i] {
			b.WriteString(style.Render(string(r)))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
