// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation.
//
// Subcommands:
//   show (default)      Print the effective configuration
//   path                Print the config file location
//   init [--force]      Write a default config file
//   get KEY             Print one setting
//   set KEY VALUE       Change one setting in the config file
//
// Examples:
//   deckhtml config set export.style plain
//   deckhtml config set collection.source ankiconnect
//   deckhtml config get export.default_dir

package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/deckhtml/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(app *App, args Args) error {
	switch args.Subcommand {
	case "", "show":
		fmt.Fprint(app.Stdout, app.Config.String())
		return nil

	case "path":
		path, err := configFilePath(args)
		if err != nil {
			return err
		}
		fmt.Fprintln(app.Stdout, path)
		return nil

	case "init":
		return handleConfigInit(app, args)

	case "get":
		value, err := app.Config.Get(args.ConfigKey)
		if err != nil {
			return NewValidationError("key", args.ConfigKey, err.Error())
		}
		fmt.Fprintln(app.Stdout, value)
		return nil

	case "set":
		return handleConfigSet(app, args)

	default:
		return NewValidationError("config subcommand", args.Subcommand, "expected show, path, init, get or set")
	}
}

// configFilePath is --config if given, else ~/.deckhtml/config.toml.
func configFilePath(args Args) (string, error) {
	if args.ConfigFile != "" {
		return config.ExpandPath(args.ConfigFile), nil
	}
	path, err := config.ConfigPathTOML()
	if err != nil {
		return "", &ConfigError{Err: err}
	}
	return path, nil
}

func handleConfigInit(app *App, args Args) error {
	path, err := configFilePath(args)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !args.Force {
		return NewCommandError("config", "init", path+" already exists (use --force to overwrite)", nil)
	}
	if args.ConfigFile == "" {
		err = config.Save(config.Default())
	} else {
		err = config.SaveTOML(config.Default(), path)
	}
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	app.info("%s wrote %s", RenderStatus("ok"), path)
	return nil
}

// handleConfigSet edits the file itself, so environment overrides in effect
// for this run are not written back.
func handleConfigSet(app *App, args Args) error {
	path, err := configFilePath(args)
	if err != nil {
		return err
	}

	cfg, err := config.ReadFile(path)
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
		return NewValidationError("key", args.ConfigKey, err.Error())
	}
	if err := cfg.Migrate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	if strings.HasSuffix(path, ".json") {
		err = config.SaveJSON(cfg, path)
	} else {
		err = config.SaveTOML(cfg, path)
	}
	if err != nil {
		return &ConfigError{Path: path, Err: err}
	}

	app.info("%s %s = %v", RenderStatus("ok"), args.ConfigKey, args.ConfigVal)
	return nil
}
