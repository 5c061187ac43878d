// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package dialog

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the dialog on the terminal and blocks until it closes. The
// returned model reports the outcome; its Err is ErrNoDirectory when the
// user left without choosing a directory.
func Run(opts Options, progOpts ...tea.ProgramOption) (Model, error) {
	m := New(opts)
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}

	final, err := tea.NewProgram(m, progOpts...).Run()
	if err != nil {
		return m, fmt.Errorf("run dialog: %w", err)
	}
	done, ok := final.(Model)
	if !ok {
		return m, fmt.Errorf("run dialog: unexpected model %T", final)
	}
	return done, nil
}
