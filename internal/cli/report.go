// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// report.go - Export summaries.

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/deckhtml/internal/export"
)

// ReportMarkdown describes an export run as markdown.
func ReportMarkdown(deck string, r *export.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## Export of `%s`\n\n", strings.ReplaceAll(deck, "`", "'"))

	if r.OK() {
		fmt.Fprintf(&b, "%s\n\n", r.Summary())
	} else {
		b.WriteString("Finished with errors:\n\n")
		for _, msg := range r.Errors {
			fmt.Fprintf(&b, "- %s\n", msg)
		}
		b.WriteString("\n")
	}

	b.WriteString("| Cards | Files written | Errors |\n")
	b.WriteString("|------:|--------------:|-------:|\n")
	fmt.Fprintf(&b, "| %d | %d | %d |\n", r.Cards, len(r.Files()), len(r.Errors))

	if overwritten := len(r.Written) - len(r.Files()); overwritten > 0 {
		fmt.Fprintf(&b, "\n%d file(s) were overwritten by later cards with the same name.\n", overwritten)
	}
	return b.String()
}

// RenderReport formats the summary of a run. Unstyled output is the plain
// summary text; styled output is the markdown report rendered for the
// terminal, falling back to plain text if rendering fails.
func RenderReport(deck string, r *export.Result, width int, styled bool) string {
	plain := r.Summary() + "\n"
	if !styled {
		return plain
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return plain
	}
	out, err := renderer.Render(ReportMarkdown(deck, r))
	if err != nil {
		return plain
	}
	return out
}
