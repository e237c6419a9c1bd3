// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"fmt"
	"sort"
)

// Unbounded as MaxArgs accepts any number of arguments.
const Unbounded = -1

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Action tells the caller what to do with the session after a command.
type Action int

const (
	ActionNone  Action = iota // Keep going
	ActionClear               // Erase the transcript
	ActionExit                // Shut the shell down
)

// Command is a built-in the dispatcher runs in-process.
type Command struct {
	// Name is what the user types (e.g., "cp")
	Name string

	// Description is shown in help
	Description string

	// Usage shows argument syntax (e.g., "cp [-R] [-O] source dest")
	Usage string

	// MinArgs and MaxArgs bound the positional arguments left after flags.
	// MaxArgs is Unbounded for variadic commands.
	MinArgs int
	MaxArgs int

	// Flags are accepted only as leading arguments, in any order, each once
	Flags []Flag

	// Handler runs the command with validated arguments
	Handler func(ctx context.Context, s *Session, args Args) (Action, error)
}

// Flag is a leading switch such as -R.
type Flag struct {
	Name        string
	Description string
}

// Args are a command's validated arguments.
type Args struct {
	// Values are the positional arguments
	Values []string

	flags map[string]bool
}

// Has reports whether flag was given.
func (a Args) Has(flag string) bool {
	return a.flags[flag]
}

// Bind splits raw into leading flags and positional values and checks the
// positional count against the command's arity.
//
// Flags are only consumed while there are more arguments than MaxArgs
// allows, so "cp -R dest" copies a file named -R rather than failing.
func (c *Command) Bind(raw []string) (Args, error) {
	args := Args{flags: make(map[string]bool)}

	rest := raw
	for c.MaxArgs != Unbounded && len(rest) > c.MaxArgs {
		name := rest[0]
		if !c.acceptsFlag(name) || args.flags[name] {
			break
		}
		args.flags[name] = true
		rest = rest[1:]
	}

	if len(rest) < c.MinArgs {
		return Args{}, &ArityError{Command: c.Name, Min: c.MinArgs, Max: c.MaxArgs, Got: len(rest)}
	}
	if c.MaxArgs != Unbounded && len(rest) > c.MaxArgs {
		return Args{}, &ArityError{Command: c.Name, Min: c.MinArgs, Max: c.MaxArgs, Got: len(rest)}
	}

	args.Values = rest
	return args, nil
}

func (c *Command) acceptsFlag(name string) bool {
	for _, f := range c.Flags {
		if f.Name == name {
			return true
		}
	}
	return false
}

// =============================================================================
// ARITY ERROR
// =============================================================================

// ArityError reports a built-in called with the wrong number of arguments.
type ArityError struct {
	Command string
	Min     int
	Max     int
	Got     int
}

// TooFew reports whether the call was short of arguments.
func (e *ArityError) TooFew() bool {
	return e.Got < e.Min
}

func (e *ArityError) Error() string {
	if e.TooFew() {
		return fmt.Sprintf("too few parameters (minimum %d)", e.Min)
	}
	return fmt.Sprintf("too many parameters (maximum %d)", e.Max)
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds the built-in commands.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a registry with all built-in commands.
func NewRegistry() *Registry {
	r := &Registry{
		commands: make(map[string]*Command),
	}
	r.registerBuiltins()
	return r
}

// Register adds a command, replacing any command with the same name.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Get retrieves a command by name. Returns nil for unknown names.
func (r *Registry) Get(name string) *Command {
	return r.commands[name]
}

// All returns all registered commands sorted by name.
func (r *Registry) All() []*Command {
	cmds := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		cmds = append(cmds, cmd)
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

// =============================================================================
// BUILT-IN COMMANDS
// =============================================================================

func (r *Registry) registerBuiltins() {
	r.Register(&Command{
		Name:        "cd",
		Description: "Change the working directory (~ for home, - for the previous one)",
		Usage:       "cd path",
		MinArgs:     1,
		MaxArgs:     1,
		Handler:     handleCd,
	})

	r.Register(&Command{
		Name:        "help",
		Description: "Show available commands",
		Usage:       "help",
		Handler:     r.handleHelp,
	})

	r.Register(&Command{
		Name:        "exit",
		Description: "Leave the shell",
		Usage:       "exit",
		Handler:     handleExit,
	})

	r.Register(&Command{
		Name:        "clear",
		Description: "Erase the screen",
		Usage:       "clear",
		Handler:     handleClear,
	})

	r.Register(&Command{
		Name:        "history",
		Description: "List recent commands, newest first",
		Usage:       "history",
		Handler:     handleHistory,
	})

	r.Register(&Command{
		Name:        "echo",
		Description: "Print the arguments",
		Usage:       "echo text...",
		MinArgs:     1,
		MaxArgs:     Unbounded,
		Handler:     handleEcho,
	})

	r.Register(&Command{
		Name:        "cp",
		Description: "Copy a file or directory tree",
		Usage:       "cp [-R] [-O] source dest",
		MinArgs:     2,
		MaxArgs:     2,
		Flags: []Flag{
			{Name: "-R", Description: "recursive (copy subdirectories too)"},
			{Name: "-O", Description: "overwrite existing files"},
		},
		Handler: handleCp,
	})

	r.Register(&Command{
		Name:        "grep",
		Description: "Print the lines of a file matching an extended regular expression",
		Usage:       "grep [-i] pattern file",
		MinArgs:     2,
		MaxArgs:     2,
		Flags: []Flag{
			{Name: "-i", Description: "case insensitive"},
		},
		Handler: handleGrep,
	})
}
