// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli wires the rigsh command line.
//
// The root command starts the full-screen shell, or the line-mode shell with
// --line. Subcommands:
//
//	rigsh version              print build information
//	rigsh config show          print the effective configuration as TOML
//	rigsh config get <key>     print one setting, e.g. shell.history_size
//	rigsh config init          write a default config file
//	rigsh config path          print the config file location
//
// Execute returns the process exit code: 0 on success, 1 on any error.
package cli
