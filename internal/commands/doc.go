// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands turns submitted lines into work for the shell.
//
// # Key Types
//
//   - Tokenize: splits a line into a name and quote-aware arguments
//   - Registry: the built-in commands with their arity and flags
//   - Dispatcher: runs a built-in or hands the line to a Runner
//   - Session: shell state shared with the built-ins
//   - PathCompleter: Tab completion from $PATH and the working directory
//
// # Built-in Commands
//
//   - cd, help, exit, clear, history, echo, cp, grep
//
// # Usage
//
//	d := commands.NewDispatcher(commands.NewRegistry(), process.NewExecutor())
//	outcome, err := d.Dispatch(ctx, session, "grep -i foo notes.txt")
//	if err != nil {
//	    fmt.Fprintln(session.Out, err)
//	}
package commands
