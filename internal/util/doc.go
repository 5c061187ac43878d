// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across deckhtml.
//
//   - AtomicWriteFile: crash-safe file writes for card pages and config files
//   - TruncateWidth, PadWidth, StringWidth: terminal-cell aware string sizing
//     for deck names in the dialog and the CLI listings
package util
