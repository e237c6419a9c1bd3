// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package commands

import (
	"context"
	"errors"
)

// ErrNoRunner is returned for external commands when no Runner is set.
var ErrNoRunner = errors.New("external commands are not available")

// =============================================================================
// DISPATCHER
// =============================================================================

// Outcome describes what a dispatched line did.
type Outcome struct {
	// Name and Args are the tokenized line
	Name string
	Args []string

	// Builtin is true when a registry command handled the line
	Builtin bool

	// Action is the follow-up the caller must perform
	Action Action

	// RunErr is the external program's result. Its text has already been
	// written to the session output where the user needs to see it.
	RunErr error
}

// Dispatcher turns submitted lines into built-in calls or external runs.
type Dispatcher struct {
	registry *Registry
	runner   Runner
}

// NewDispatcher creates a dispatcher over registry that hands unknown names
// to runner.
func NewDispatcher(registry *Registry, runner Runner) *Dispatcher {
	return &Dispatcher{registry: registry, runner: runner}
}

// Registry returns the dispatcher's command table.
func (d *Dispatcher) Registry() *Registry {
	return d.registry
}

// Dispatch tokenizes line and runs it.
//
// The returned error is something the user must be shown: a *ParseError,
// an *ArityError, or a built-in's own failure. Nothing runs when tokenizing
// or the arity check fails. Failures of external programs are reported in
// Outcome.RunErr instead.
func (d *Dispatcher) Dispatch(ctx context.Context, s *Session, line string) (Outcome, error) {
	inv, err := Tokenize(line)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Name: inv.Name, Args: inv.Args}
	if inv.Name == "" {
		return out, nil
	}

	if cmd := d.registry.Get(inv.Name); cmd != nil {
		out.Builtin = true
		args, err := cmd.Bind(inv.Args)
		if err != nil {
			return out, err
		}
		action, err := cmd.Handler(ctx, s, args)
		out.Action = action
		return out, err
	}

	if d.runner == nil {
		return out, ErrNoRunner
	}
	out.RunErr = d.runner.Run(ctx, inv.Name, inv.Args, s.Out)
	return out, nil
}
