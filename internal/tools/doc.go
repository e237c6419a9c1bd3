// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package tools implements the file-handling built-ins of the shell.
//
// # Key Types
//
//   - Copier: single-file and recursive tree copy (cp)
//   - Grep: line search with highlighted matches (grep)
//   - PathError, PatternError: typed failures shown to the user
//
// Both write their progress and results to an io.Writer supplied by the
// caller, so the same code feeds the full-screen transcript and the plain
// line mode.
package tools
