// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the command handlers for
// deckhtml.
//
// # Key Types
//
//   - Command: Enumeration of the available commands
//   - Args: Parsed global and command-specific flags
//   - App: Configuration, logger and output streams shared by handlers
//
// # Usage
//
//	cmd, args, err := cli.Parse(os.Args[1:])
//	app, err := cli.NewApp(args)
//	switch cmd {
//	case cli.CmdExport:
//	    err = cli.HandleExport(ctx, app, args)
//	// ... other commands
//	}
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - (none) / dialog: choose a deck and a directory, then export
//   - export: export one deck without prompting, optionally on every change
//   - decks: list deck names, optionally with card counts
//   - render: print the page of one card
//   - config: show, locate, create or edit the configuration
//   - version, help
package cli
