// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package process runs external programs for the shell.
//
// A program runs with stdin bound to the null device and stdout and stderr
// sent into an anonymous pipe. The parent reads the pipe in small chunks
// and relays each one to the caller's writer as soon as it arrives, until
// the child closes its end. Only one program runs at a time.
//
// Start failures are classified by errno and written into the same output
// stream the program's output would have used.
package process
