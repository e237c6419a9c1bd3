// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for rigsh.
//
// Supports both TOML and JSON configuration formats, with defaults,
// environment variable overrides, validation, and live reload.
//
// # Key Types
//
//   - Config: all settings
//   - ShellConfig: history size, scrolling, scrollback, child handling
//   - UIConfig: mouse, color and status bar
//   - LogConfig: event log location and rotation
//   - Watcher: reloads the config file when it changes on disk
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (RIGSH_*, NO_COLOR)
//   - ~/.rigsh/config.toml
//   - ~/.rigsh/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ring := history.NewStore(cfg.Shell.HistorySize)
package config
