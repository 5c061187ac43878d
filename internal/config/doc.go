// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for deckhtml.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - CollectionConfig: Which collection to read and how to reach it
//   - ExportConfig: Page style, default directory and file naming
//   - LogConfig: Diagnostic log level and location
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (DECKHTML_*)
//   - ~/.deckhtml/config.toml
//   - ~/.deckhtml/config.json
//   - Built-in defaults
//
// # Usage
//
// Load configuration:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Access settings:
//
//	style := cfg.Export.Style
//	path, err := cfg.CollectionPath()
package config
