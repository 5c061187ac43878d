// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"strings"
)

// Result aggregates one export run: the files written and the per-card errors.
type Result struct {
	// RunID identifies the run in the diagnostic log.
	RunID string

	// Directory the run wrote to.
	Directory string

	// Cards is the number of card ids handed to the run.
	Cards int

	// Written lists file names in write order. A name appears again when a
	// later card overwrote it.
	Written []string

	// Errors holds one message per failed card.
	Errors []string
}

// OK reports whether the run finished without errors.
func (r *Result) OK() bool {
	return len(r.Errors) == 0
}

// Files returns the distinct file names left on disk by the run.
func (r *Result) Files() []string {
	seen := make(map[string]bool, len(r.Written))
	var files []string
	for _, name := range r.Written {
		if !seen[name] {
			seen[name] = true
			files = append(files, name)
		}
	}
	return files
}

// Summary returns the user-facing report for the run.
func (r *Result) Summary() string {
	if len(r.Errors) > 0 {
		return "Finished with errors:\n" + strings.Join(r.Errors, "\n")
	}
	return fmt.Sprintf("All cards exported successfully to %s!", r.Directory)
}

func (r *Result) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
