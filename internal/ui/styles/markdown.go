// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// DefaultMarkdownWidth is the wrap width used before the terminal size is known.
const DefaultMarkdownWidth = 80

// NewMarkdownRenderer returns a function that renders markdown for the
// transcript. The style is fixed up front from the theme; glamour's auto
// style would query the terminal while the UI owns it.
//
// If glamour fails the markdown is returned as-is.
func NewMarkdownRenderer(t *Theme, width int) func(string) string {
	if width <= 0 {
		width = DefaultMarkdownWidth
	}

	style := "notty"
	if t != nil && t.HasColor() {
		style = "light"
		if t.IsDark {
			style = "dark"
		}
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return func(md string) string { return md }
	}

	return func(md string) string {
		out, err := renderer.Render(md)
		if err != nil {
			return md
		}
		return strings.TrimLeft(out, "\n")
	}
}
