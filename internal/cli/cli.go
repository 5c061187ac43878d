// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing for deckhtml.

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdDialog Command = iota
	CmdExport
	CmdDecks
	CmdRender
	CmdConfig
	CmdVersion
	CmdHelp
)

var commandNames = [...]string{"dialog", "export", "decks", "render", "config", "version", "help"}

func (c Command) String() string {
	if c < 0 || int(c) >= len(commandNames) {
		return "unknown"
	}
	return commandNames[c]
}

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Plain      bool
	Quiet      bool
	Verbose    bool
	Collection string
	Source     string
	ConfigFile string

	// export / render / decks
	Deck   string
	Out    string
	Style  string
	Watch  bool
	Open   bool
	Card   int
	Counts bool

	// config
	Subcommand string
	ConfigKey  string
	ConfigVal  string
	Force      bool
}

const usageText = `deckhtml - export flashcard decks to standalone HTML files

Every card of the chosen deck becomes one self-contained .html file with its
images and audio embedded, ready to open in any browser.

Usage:
  deckhtml                        Choose a deck and a directory (dialog)
  deckhtml --plain                Same, with line prompts instead of the dialog
  deckhtml export [flags]         Export a deck without prompting
  deckhtml decks [--counts]       List the decks of the collection
  deckhtml render [flags]         Print the HTML of one card
  deckhtml config [subcommand]    Show or edit the configuration
  deckhtml version                Show version information
  deckhtml help                   Show this help

Export flags:
  --deck NAME         Deck to export (sub-decks included)
  --out DIR           Output directory (default: export.default_dir)
  --style STYLE       plain or styled (default: export.style)
  --watch             Export again whenever the collection file changes
  --open              Open the output directory when done

Render flags:
  --deck NAME         Deck holding the card
  --card N            1-based position of the card in the deck (default: 1)
  --style STYLE       plain or styled

Config subcommands:
  show                Print the effective configuration
  path                Print the config file location
  init [--force]      Write a default config file
  get KEY             Print one setting (e.g. export.style)
  set KEY VALUE       Change one setting in the config file

Global flags:
  --collection PATH   Collection file (sqlite source)
  --source SOURCE     sqlite or ankiconnect
  --config FILE       Config file to use instead of ~/.deckhtml/config.toml
  -v, --verbose       Mirror the diagnostic log to stderr
  -q, --quiet         Only print errors

Environment:
  DECKHTML_SOURCE, DECKHTML_COLLECTION, DECKHTML_MEDIA_DIR,
  DECKHTML_ANKICONNECT_URL, DECKHTML_STYLE, DECKHTML_OUTPUT_DIR,
  DECKHTML_LOG_LEVEL, NO_COLOR

Examples:
  deckhtml export --deck "German::Vocabulary" --out ~/cards
  deckhtml export --deck Basics --out ~/cards --style plain --open
  deckhtml --source ankiconnect decks
  deckhtml render --deck Basics --card 3 > card.html

Version: %s
`

// PrintUsage writes the usage/help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "deckhtml version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go version: %s\n", runtime.Version())
}

// Parse parses command-line arguments (without the program name).
func Parse(argv []string) (Command, Args, error) {
	remaining, args, err := parseGlobalFlags(argv)
	if err != nil {
		return CmdHelp, args, err
	}

	if len(remaining) == 0 {
		return CmdDialog, args, nil
	}

	cmd := strings.ToLower(remaining[0])
	rest := remaining[1:]

	switch cmd {
	case "dialog":
		return CmdDialog, args, nil

	case "export":
		return CmdExport, args, parseExportArgs(&args, rest)

	case "decks", "list":
		p := NewArgParser(rest, "counts")
		args.Counts = p.BoolFlag("counts")
		return CmdDecks, args, nil

	case "render", "preview":
		return CmdRender, args, parseRenderArgs(&args, rest)

	case "config":
		return CmdConfig, args, parseConfigArgs(&args, rest)

	case "version", "--version":
		return CmdVersion, args, nil

	case "help", "--help", "-h":
		return CmdHelp, args, nil

	default:
		return CmdHelp, args, NewValidationError("command", remaining[0], "unknown command")
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(argv []string) ([]string, Args, error) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		name, value, hasValue := strings.Cut(arg, "=")

		switch name {
		case "--plain":
			args.Plain = true
		case "-q", "--quiet":
			args.Quiet = true
		case "-v", "--verbose":
			args.Verbose = true
		case "--collection", "--source", "--config":
			if !hasValue {
				if i+1 >= len(argv) {
					return nil, args, ErrMissingArgument(name, name+" VALUE")
				}
				i++
				value = argv[i]
			}
			switch name {
			case "--collection":
				args.Collection = value
			case "--source":
				args.Source = value
			case "--config":
				args.ConfigFile = value
			}
		default:
			remaining = append(remaining, arg)
		}
	}

	if args.Quiet && args.Verbose {
		return nil, args, NewValidationError("flags", "--quiet --verbose", "cannot be combined")
	}
	return remaining, args, nil
}

func parseExportArgs(args *Args, rest []string) error {
	p := NewArgParser(rest, "watch", "open")
	args.Deck = p.Flag("deck")
	args.Out = p.Flag("out")
	args.Style = p.Flag("style")
	args.Watch = p.BoolFlag("watch")
	args.Open = p.BoolFlag("open")

	if args.Deck == "" && p.PositionalCount() == 1 {
		args.Deck = p.Positional(0)
	} else if p.PositionalCount() > 0 {
		return NewValidationError("argument", p.Positional(0), "unexpected argument")
	}
	if args.Deck == "" {
		return ErrMissingArgument("--deck", `deckhtml export --deck "German::Vocabulary" --out ~/cards`)
	}
	return checkFlags(p, "deck", "out", "style", "watch", "open")
}

func parseRenderArgs(args *Args, rest []string) error {
	p := NewArgParser(rest)
	args.Deck = p.Flag("deck")
	args.Style = p.Flag("style")
	args.Card = 1

	if p.HasFlag("card") {
		n, err := ParseIntWithValidation(p.Flag("card"), "--card")
		if err != nil {
			return NewValidationError("--card", p.Flag("card"), err.Error())
		}
		args.Card = n
	}
	if args.Deck == "" {
		return ErrMissingArgument("--deck", "deckhtml render --deck Basics --card 2")
	}
	return checkFlags(p, "deck", "card", "style")
}

func parseConfigArgs(args *Args, rest []string) error {
	p := NewArgParser(rest, "force")
	args.Subcommand = strings.ToLower(p.Subcommand())
	if args.Subcommand == "" {
		args.Subcommand = "show"
	}
	args.Force = p.BoolFlag("force")

	switch args.Subcommand {
	case "show", "path", "init":
		return nil
	case "get":
		args.ConfigKey = p.Positional(1)
		if args.ConfigKey == "" {
			return ErrMissingArgument("KEY", "deckhtml config get export.style")
		}
	case "set":
		args.ConfigKey = p.Positional(1)
		args.ConfigVal = p.Positional(2)
		if args.ConfigKey == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("KEY VALUE", "deckhtml config set export.style plain")
		}
	default:
		return NewValidationError("config subcommand", args.Subcommand, "expected show, path, init, get or set")
	}
	return nil
}

// checkFlags rejects flags the command does not know.
func checkFlags(p *ArgParser, known ...string) error {
	allowed := make(map[string]bool, len(known))
	for _, name := range known {
		allowed[name] = true
	}
	for _, name := range p.Flags() {
		if !allowed[name] {
			return NewValidationError("flag", "--"+name, "unknown flag")
		}
	}
	return nil
}

// HandleVersion handles the "version" command.
func HandleVersion(app *App) error {
	PrintVersion(app.Stdout)
	return nil
}

// HandleHelp handles the "help" command.
func HandleHelp(app *App) error {
	PrintUsage(app.Stdout)
	return nil
}
