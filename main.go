// deckhtml - Export flashcard decks to standalone HTML pages.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeranaias/deckhtml/internal/cli"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes one command and returns the process exit code.
func run(argv []string) int {
	cmd, args, err := cli.Parse(argv)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		cli.PrintUsage(os.Stderr)
		return cli.GetExitCode(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(args)
	if err != nil {
		cli.DisplayError(os.Stderr, err)
		return cli.GetExitCode(err)
	}
	defer app.Close()

	app.Logger.Debug("command start", "command", cmd, "args", argv)

	// Route to appropriate handler
	switch cmd {
	case cli.CmdDialog:
		err = cli.HandleDialog(ctx, app, args)
	case cli.CmdExport:
		err = cli.HandleExport(ctx, app, args)
	case cli.CmdDecks:
		err = cli.HandleDecks(ctx, app, args)
	case cli.CmdRender:
		err = cli.HandleRender(ctx, app, args)
	case cli.CmdConfig:
		err = cli.HandleConfig(app, args)
	case cli.CmdVersion:
		err = cli.HandleVersion(app)
	default:
		err = cli.HandleHelp(app)
	}

	if err != nil {
		app.Logger.Error("command failed", "command", cmd, "err", err)
		cli.DisplayError(os.Stderr, err)
	}
	return cli.GetExitCode(err)
}
