// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"github.com/jeranaias/rigsh/internal/commands"
	"github.com/jeranaias/rigsh/internal/config"
)

// OutputMsg carries command output for the transcript.
type OutputMsg struct {
	Data []byte
}

// CommandDoneMsg is sent once a dispatched line has finished and all of its
// output has been delivered.
type CommandDoneMsg struct {
	Line    string
	Outcome commands.Outcome
	Err     error
}

// InterruptMsg asks the shell to shut down, e.g. on SIGINT or SIGTERM.
type InterruptMsg struct {
	Reason string
}

// ConfigReloadMsg delivers a config file change. Err is set when the new
// file failed to load; the running config is kept.
type ConfigReloadMsg struct {
	Path   string
	Config *config.Config
	Err    error
}
