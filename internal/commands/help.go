// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"strings"
)

// HelpMarkdown builds the help page from the registered commands.
func (r *Registry) HelpMarkdown() string {
	var b strings.Builder
	b.WriteString("# rigsh\n\n")
	b.WriteString("Available commands:\n\n")
	for _, cmd := range r.All() {
		fmt.Fprintf(&b, "- `%s`  %s\n", cmd.Usage, cmd.Description)
		for _, f := range cmd.Flags {
			fmt.Fprintf(&b, "  - `%s` %s\n", f.Name, f.Description)
		}
	}
	b.WriteString("- any program found in the directories of `PATH`\n\n")
	b.WriteString("Quote arguments containing spaces with `'...'` or `\"...\"`. ")
	b.WriteString("Tab completes program names, or files after `./`. ")
	b.WriteString("Up and Down walk the history.\n")
	return b.String()
}

func (r *Registry) handleHelp(ctx context.Context, s *Session, args Args) (Action, error) {
	md := r.HelpMarkdown()
	if s.RenderMarkdown != nil {
		_, err := fmt.Fprint(s.Out, s.RenderMarkdown(md))
		return ActionNone, err
	}
	_, err := fmt.Fprint(s.Out, s.style().Help(md))
	return ActionNone, err
}
