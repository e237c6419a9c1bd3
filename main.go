// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// rigsh is a small interactive shell with a scrollable full-screen
// transcript.
//
// Usage:
//
//	rigsh                     start the full-screen shell
//	rigsh --line              start the line-mode shell
//	rigsh version             print build information
//	rigsh config show         print the effective configuration
package main

import (
	"os"

	"github.com/jeranaias/rigsh/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
