// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dialog implements the deck selection dialog: pick a deck, pick an
// output directory, watch the export run and read the summary.
package dialog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/deckhtml/internal/config"
	"github.com/jeranaias/deckhtml/internal/export"
	"github.com/jeranaias/deckhtml/internal/ui/styles"
)

// NoDirectoryMessage is reported when the dialog closes without an output
// directory.
const NoDirectoryMessage = "No directory selected."

// ErrNoDirectory is returned when the user leaves the dialog before choosing
// an output directory. Nothing has been written.
var ErrNoDirectory = errors.New("no directory selected")

const (
	boxWidth    = 64
	maxVisible  = 10
	reportLines = 12
)

// State is the dialog step.
type State int

const (
	StateSelectDeck State = iota
	StateSelectDirectory
	StateExporting
	StateReported
	StateAborted
)

func (s State) String() string {
	switch s {
	case StateSelectDeck:
		return "select-deck"
	case StateSelectDirectory:
		return "select-directory"
	case StateExporting:
		return "exporting"
	case StateReported:
		return "reported"
	case StateAborted:
		return "aborted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ExportFunc runs the export of deck into dir.
type ExportFunc func(ctx context.Context, deck, dir string) (*export.Result, error)

// Options configures a dialog.
type Options struct {
	// Decks are the deck names to offer, in display order.
	Decks []string

	// DefaultDir pre-fills the directory prompt. "~" is expanded on confirm.
	DefaultDir string

	// Export is run once a directory is confirmed.
	Export ExportFunc

	// Theme defaults to the auto-detected theme.
	Theme *styles.Theme

	// Context is passed to Export.
	Context context.Context
}

// exportDoneMsg carries the outcome of the export command.
type exportDoneMsg struct {
	result *export.Result
	err    error
}

// Model is the Bubble Tea model of the dialog.
type Model struct {
	state State
	theme *styles.Theme
	keys  keyMap
	help  help.Model
	ctx   context.Context

	decks    []string
	matches  []ScoredMatch
	selected int
	filter   textinput.Model

	dir    textinput.Model
	dirErr string

	spinner spinner.Model
	report  viewport.Model

	exportFn  ExportFunc
	deck      string
	directory string
	result    *export.Result
	err       error

	width  int
	height int
}

// New creates a dialog in the deck selection state.
func New(opts Options) Model {
	theme := opts.Theme
	if theme == nil {
		theme = styles.DefaultTheme()
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	filter := textinput.New()
	filter.Placeholder = "Type to filter decks..."
	filter.Prompt = "> "
	filter.PromptStyle = theme.Prompt
	filter.TextStyle = theme.InputText
	filter.PlaceholderStyle = theme.Placeholder
	filter.CharLimit = 200
	filter.Width = boxWidth - 8
	filter.Focus()

	dir := textinput.New()
	dir.Placeholder = "Output directory"
	dir.Prompt = "Save to: "
	dir.PromptStyle = theme.Prompt
	dir.TextStyle = theme.InputText
	dir.PlaceholderStyle = theme.Placeholder
	dir.CharLimit = 4096
	dir.Width = boxWidth - 14
	dir.SetValue(opts.DefaultDir)

	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    spinner.Line.FPS,
	}
	s.Style = theme.Indicator

	m := Model{
		state:    StateSelectDeck,
		theme:    theme,
		keys:     defaultKeyMap(),
		help:     help.New(),
		ctx:      ctx,
		decks:    opts.Decks,
		filter:   filter,
		dir:      dir,
		spinner:  s,
		report:   viewport.New(boxWidth-4, reportLines),
		exportFn: opts.Export,
	}
	m.refilter()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// State returns the current step.
func (m Model) State() State { return m.state }

// Deck returns the chosen deck, or "" before confirmation.
func (m Model) Deck() string { return m.deck }

// Directory returns the chosen directory, or "" before confirmation.
func (m Model) Directory() string { return m.directory }

// Result returns the export result once reported.
func (m Model) Result() *export.Result { return m.result }

// Err returns ErrNoDirectory after an abort, or the export error.
func (m Model) Err() error { return m.err }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.report.Width = styles.BoxWidth(msg.Width, boxWidth) - 4
		m.report.Height = min(reportLines, max(msg.Height-8, 3))
		return m, nil

	case exportDoneMsg:
		m.finish(msg)
		return m, nil

	case spinner.TickMsg:
		if m.state != StateExporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.state {
		case StateSelectDeck:
			return m.updateDeckList(msg)
		case StateSelectDirectory:
			return m.updateDirectory(msg)
		case StateReported:
			return m.updateReport(msg)
		}
		// The run cannot be cancelled once it has started.
		return m, nil
	}

	var cmd tea.Cmd
	switch m.state {
	case StateSelectDeck:
		m.filter, cmd = m.filter.Update(msg)
	case StateSelectDirectory:
		m.dir, cmd = m.dir.Update(msg)
	}
	return m, cmd
}

func (m Model) updateDeckList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.abort()

	case key.Matches(msg, m.keys.Up):
		m.move(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.move(1)
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.matches) == 0 {
			return m, nil
		}
		m.deck = m.matches[m.selected].Target
		m.state = StateSelectDirectory
		m.filter.Blur()
		m.dir.CursorEnd()
		return m, m.dir.Focus()
	}

	prev := m.filter.Value()
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	if m.filter.Value() != prev {
		m.refilter()
	}
	return m, cmd
}

func (m Model) updateDirectory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.abort()

	case key.Matches(msg, m.keys.Select):
		raw := strings.TrimSpace(m.dir.Value())
		if raw == "" {
			return m.abort()
		}
		path := config.ExpandPath(raw)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			m.dirErr = fmt.Sprintf("Not a directory: %s", path)
			return m, nil
		}

		m.directory = path
		m.dirErr = ""
		m.state = StateExporting
		m.dir.Blur()
		return m, tea.Batch(m.spinner.Tick, m.exportCmd())
	}

	m.dirErr = ""
	var cmd tea.Cmd
	m.dir, cmd = m.dir.Update(msg)
	return m, cmd
}

func (m Model) updateReport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.report, cmd = m.report.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Close):
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) abort() (tea.Model, tea.Cmd) {
	m.state = StateAborted
	m.err = ErrNoDirectory
	m.filter.Blur()
	m.dir.Blur()
	return m, tea.Quit
}

// exportCmd runs the export off the event loop.
func (m Model) exportCmd() tea.Cmd {
	fn, ctx, deck, dir := m.exportFn, m.ctx, m.deck, m.directory
	return func() tea.Msg {
		if fn == nil {
			return exportDoneMsg{err: errors.New("no exporter configured")}
		}
		result, err := fn(ctx, deck, dir)
		return exportDoneMsg{result: result, err: err}
	}
}

func (m *Model) finish(msg exportDoneMsg) {
	if m.state != StateExporting {
		return
	}
	m.state = StateReported
	m.result = msg.result
	m.err = msg.err
	m.report.SetContent(m.reportText())
	m.report.GotoTop()
}

// move changes the selection by delta, wrapping at both ends.
func (m *Model) move(delta int) {
	n := len(m.matches)
	if n == 0 {
		return
	}
	m.selected = ((m.selected+delta)%n + n) % n
}

// refilter recomputes matches for the current filter text. Without a query
// the decks keep their given order.
func (m *Model) refilter() {
	m.matches = FuzzyFilter(strings.TrimSpace(m.filter.Value()), m.decks)
	if m.selected >= len(m.matches) {
		m.selected = 0
	}
	if strings.TrimSpace(m.filter.Value()) != "" {
		m.selected = 0
	}
}
