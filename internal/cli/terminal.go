// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// interactive reports whether the full-screen shell can own the terminal.
// Tests replace it.
var interactive = func() bool {
	return IsTTY() && IsStdoutTTY()
}

// TTYRequiredError is returned when the full-screen shell is started
// without a terminal.
type TTYRequiredError struct {
	Stream string
}

func (e *TTYRequiredError) Error() string {
	return "rigsh: " + e.Stream + " is not a terminal; run with --line for line mode"
}

func ttyError() error {
	if !IsTTY() {
		return &TTYRequiredError{Stream: "stdin"}
	}
	return &TTYRequiredError{Stream: "stdout"}
}

// =============================================================================
// COLOR PROFILE
// =============================================================================

// ColorProfileName names the color profile stdout supports, honoring
// NO_COLOR and CLICOLOR_FORCE.
func ColorProfileName() string {
	switch termenv.NewOutput(os.Stdout).EnvColorProfile() {
	case termenv.TrueColor:
		return "truecolor"
	case termenv.ANSI256:
		return "ansi256"
	case termenv.ANSI:
		return "ansi"
	default:
		return "ascii"
	}
}
