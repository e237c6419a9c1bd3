// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package process

import (
	"errors"
	"fmt"
	"os/exec"

	"golang.org/x/sys/unix"
)

// ErrBusy is returned by Run while another program is still running.
var ErrBusy = errors.New("another command is still running")

// =============================================================================
// START ERRORS
// =============================================================================

// ErrorKind classifies why a program could not be started.
type ErrorKind int

const (
	KindOther      ErrorKind = iota // Any other errno
	KindPermission                  // EPERM
	KindNotFound                    // ENOENT or not on PATH
	KindAccess                      // EACCES
)

// String returns the kind's name for logs.
func (k ErrorKind) String() string {
	switch k {
	case KindPermission:
		return "permission"
	case KindNotFound:
		return "not_found"
	case KindAccess:
		return "access"
	default:
		return "other"
	}
}

// StartError reports a program that never ran.
type StartError struct {
	Name  string
	Kind  ErrorKind
	Errno unix.Errno
	Cause error
}

// Message is the user-facing description of the failure.
func (e *StartError) Message() string {
	switch e.Kind {
	case KindPermission:
		return "permission denied"
	case KindNotFound:
		return "no such file in PATH directories"
	case KindAccess:
		return "access denied"
	}
	if e.Errno != 0 {
		return fmt.Sprintf("error errno = %d", int(e.Errno))
	}
	return e.Cause.Error()
}

func (e *StartError) Error() string {
	return e.Name + ": " + e.Message()
}

func (e *StartError) Unwrap() error {
	return e.Cause
}

// classify wraps a start failure in a StartError.
func classify(name string, err error) *StartError {
	se := &StartError{Name: name, Kind: KindOther, Cause: err}

	var errno unix.Errno
	if errors.As(err, &errno) {
		se.Errno = errno
	}

	switch {
	case errors.Is(err, exec.ErrNotFound):
		se.Kind = KindNotFound
		se.Errno = unix.ENOENT
	case se.Errno == unix.EPERM:
		se.Kind = KindPermission
	case se.Errno == unix.ENOENT:
		se.Kind = KindNotFound
	case se.Errno == unix.EACCES:
		se.Kind = KindAccess
	}
	return se
}

// ExitError reports a program that ran and exited non-zero or was killed.
type ExitError struct {
	Name string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s: exit status %d", e.Name, e.Code)
}
