// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jeranaias/deckhtml/internal/export"
)

func TestReportMarkdown(t *testing.T) {
	ok := &export.Result{Directory: "/tmp/cards", Cards: 3, Written: []string{"a.html", "b.html", "a.html"}}
	md := ReportMarkdown("Ba`sics", ok)

	assert.Contains(t, md, "## Export of `Ba'sics`")
	assert.Contains(t, md, "All cards exported successfully to /tmp/cards!")
	assert.Contains(t, md, "| 3 | 2 | 0 |")
	assert.Contains(t, md, "1 file(s) were overwritten")

	failed := &export.Result{Directory: "/tmp/cards", Cards: 2, Written: []string{"a.html"}, Errors: []string{"card 2: no such note"}}
	md = ReportMarkdown("Basics", failed)
	assert.Contains(t, md, "Finished with errors:")
	assert.Contains(t, md, "- card 2: no such note")
	assert.Contains(t, md, "| 2 | 1 | 1 |")
	assert.NotContains(t, md, "overwritten")
}

func TestRenderReport(t *testing.T) {
	r := &export.Result{Directory: "/tmp/cards", Cards: 1, Written: []string{"a.html"}}

	assert.Equal(t, "All cards exported successfully to /tmp/cards!\n", RenderReport("Basics", r, 80, false))

	styled := RenderReport("Basics", r, 80, true)
	assert.Contains(t, styled, "Export of")
	assert.Contains(t, styled, "/tmp/cards")
}
