// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the colors and text styles of the rigsh UI.

# Color System (colors.go)

The prompt and transcript use the basic ANSI palette so they follow the
user's terminal scheme:

	Magenta - prompt brackets, history listings
	Green   - login name
	Yellow  - working directory, grep matches
	Blue    - prompt symbol
	Cyan    - recalled history entries
	Red     - errors

The status bar uses Lip Gloss AdaptiveColor surfaces for light/dark
terminals.

# Theme System (theme.go)

A Theme owns a Lip Gloss renderer bound to one termenv color profile.
With color disabled (config ui.color = false or NO_COLOR) the profile is
termenv.Ascii and every style renders plain text.

	theme := styles.NewTheme(true)
	prompt := theme.Prompt("jesse", "~/src", "$")

Theme implements commands.Styler, so built-ins can color their output
without importing this package.

# Markdown (markdown.go)

NewMarkdownRenderer wraps glamour for the help built-in.
*/
package styles
