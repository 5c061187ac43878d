// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// app.go - Runtime shared by the command handlers.

package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/jeranaias/deckhtml/internal/collection"
	"github.com/jeranaias/deckhtml/internal/config"
	"github.com/jeranaias/deckhtml/internal/export"
	"github.com/jeranaias/deckhtml/internal/logging"
	"github.com/jeranaias/deckhtml/internal/ui/styles"
)

// App carries the configuration, logger and output streams of one run.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	Theme  *styles.Theme
	Stdout io.Writer
	Stderr io.Writer

	// Styled enables markdown reports and HTML highlighting.
	Styled bool
	Quiet  bool

	// open is swapped in tests.
	open   func(ctx context.Context) (collection.Collection, error)
	closer io.Closer
}

// NewApp loads the configuration, applies the global flags and builds the
// logger.
func NewApp(args Args) (*App, error) {
	app := &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Styled: IsStdoutTTY() && ColorsEnabled(),
		Quiet:  args.Quiet,
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	logPath, err := cfg.LogPath()
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	logOpts := logging.Options{Level: cfg.Log.Level, File: logPath}
	if args.Verbose {
		logOpts.Level = "debug"
		logOpts.Mirror = app.Stderr
	}
	logger, closer, err := logging.New(logOpts)
	if err != nil {
		// The log file is diagnostics only; keep going without it.
		logOpts.File = ""
		logger, closer, _ = logging.New(logOpts)
		if !args.Quiet {
			fmt.Fprintf(app.Stderr, "%s %v\n", RenderStatus("warn"), err)
		}
	}
	app.Logger = logger
	app.closer = closer

	theme, err := styles.NewTheme(cfg.UI.Theme)
	if err != nil {
		theme = styles.DefaultTheme()
	}
	app.Theme = theme

	app.open = app.openConfigured
	return app, nil
}

// loadConfig reads the config file and applies --collection and --source.
// A broken default config file is reported but does not stop the run.
func loadConfig(args Args) (*config.Config, error) {
	var cfg *config.Config
	var err error

	if args.ConfigFile != "" {
		cfg, err = config.LoadFromPath(config.ExpandPath(args.ConfigFile))
		if err != nil {
			return nil, &ConfigError{Path: args.ConfigFile, Err: err}
		}
	} else {
		cfg, err = config.Load()
		if cfg == nil {
			return nil, &ConfigError{Err: err}
		}
		if err != nil && !args.Quiet {
			fmt.Fprintf(os.Stderr, "%s %v (using defaults)\n", RenderStatus("warn"), err)
		}
	}

	if args.Collection != "" {
		cfg.Collection.Path = args.Collection
	}
	if args.Source != "" {
		cfg.Collection.Source = args.Source
	}
	if args.Collection != "" || args.Source != "" {
		if err := cfg.Migrate(); err != nil {
			return nil, &ConfigError{Err: err}
		}
		if err := cfg.Validate(); err != nil {
			return nil, &ConfigError{Err: err}
		}
	}
	return cfg, nil
}

// Close releases the log file.
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// OpenCollection opens the configured collection.
func (a *App) OpenCollection(ctx context.Context) (collection.Collection, error) {
	return a.open(ctx)
}

func (a *App) openConfigured(ctx context.Context) (collection.Collection, error) {
	cfg := a.Config.Collection

	switch cfg.Source {
	case config.SourceAnkiConnect:
		a.Logger.Debug("using ankiconnect", "url", cfg.AnkiConnectURL)
		return collection.NewConnect(collection.ConnectOptions{
			URL:     cfg.AnkiConnectURL,
			Timeout: a.Config.Timeout(),
		}), nil

	default:
		path, err := a.Config.CollectionPath()
		if err != nil {
			return nil, &ConfigError{Err: err}
		}
		a.Logger.Debug("opening collection", "path", path)
		return collection.OpenSQLite(ctx, path, collection.SQLiteOptions{
			MediaDir: config.ExpandPath(cfg.MediaDir),
		})
	}
}

// NewExporter builds an exporter for coll. An empty style selects the
// configured one.
func (a *App) NewExporter(coll collection.Collection, style string, open bool) (*export.Exporter, error) {
	if style == "" {
		style = a.Config.Export.Style
	}
	st, err := export.ParseStyle(style)
	if err != nil {
		return nil, NewValidationError("--style", style, "expected plain or styled")
	}
	return export.New(coll, &export.Options{
		Style:            st,
		UnicodeFilenames: a.Config.Export.UnicodeFilenames,
		OpenAfterExport:  open || a.Config.Export.OpenAfterExport,
		Logger:           a.Logger,
	}), nil
}

// info prints a status line on stderr unless --quiet.
func (a *App) info(format string, args ...any) {
	if a.Quiet {
		return
	}
	fmt.Fprintf(a.Stderr, format+"\n", args...)
}
