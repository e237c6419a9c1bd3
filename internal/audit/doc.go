// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audit writes the shell's event log.
//
// The full-screen UI owns the terminal, so everything the shell wants to
// record goes to a file instead: one line per event, secrets redacted,
// rotated by size. The standard library logger is pointed at the same file
// by RedirectStdLog.
//
// Line format:
//
//	2025-01-20 14:30:00 | COMMAND | 6f1c... | name=cp argc=3 kind=builtin | SUCCESS
package audit
