// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// DefaultChunkSize is the read size of the capture pipe.
const DefaultChunkSize = 512

// =============================================================================
// EXECUTOR
// =============================================================================

// Executor runs one external program at a time.
type Executor struct {
	// ChunkSize is the largest piece relayed per write (default 512)
	ChunkSize int

	// Env is the child's environment; the shell's own when nil
	Env []string

	// WaitDelay bounds how long Run waits for the pipe to close after the
	// child is killed, in case a grandchild still holds it (default 2s)
	WaitDelay time.Duration

	mu      sync.Mutex
	busy    bool
	running string
}

// NewExecutor creates an executor with default settings.
func NewExecutor() *Executor {
	return &Executor{
		ChunkSize: DefaultChunkSize,
		WaitDelay: 2 * time.Second,
	}
}

// Running returns the name of the program in flight, or "".
func (e *Executor) Running() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Run starts name with args and copies everything it writes to stdout or
// stderr into out, chunk by chunk, until the child closes the pipe.
//
// A program that cannot be started yields a *StartError whose message has
// already been written to out. A non-zero exit yields an *ExitError.
// Cancelling ctx kills the child's whole process group.
func (e *Executor) Run(ctx context.Context, name string, args []string, out io.Writer) error {
	if !e.acquire(name) {
		return ErrBusy
	}
	defer e.release()

	r, w, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("create capture pipe: %w", err)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = nil
	cmd.Stdout = w
	cmd.Stderr = w
	cmd.Env = e.Env
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		return unix.Kill(-cmd.Process.Pid, unix.SIGKILL)
	}

	if err := cmd.Start(); err != nil {
		w.Close()
		r.Close()
		se := classify(name, err)
		fmt.Fprintln(out, se.Message())
		log.Printf("EXEC_FAILED | name=%s kind=%s errno=%d", name, se.Kind, int(se.Errno))
		return se
	}

	// The child owns the write end now; EOF arrives once it closes its copy.
	w.Close()

	copyErr := e.relay(ctx, r, out)
	r.Close()

	waitErr := cmd.Wait()
	if copyErr != nil {
		return copyErr
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return &ExitError{Name: name, Code: exitErr.ExitCode()}
		}
		return fmt.Errorf("wait for %s: %w", name, waitErr)
	}
	return nil
}

// relay copies r to out in chunks until EOF. After ctx is cancelled the pipe
// gets a read deadline so a grandchild holding the write end cannot block
// the shell forever.
func (e *Executor) relay(ctx context.Context, r *os.File, out io.Writer) error {
	size := e.ChunkSize
	if size <= 0 {
		size = DefaultChunkSize
	}

	stop := context.AfterFunc(ctx, func() {
		delay := e.WaitDelay
		if delay <= 0 {
			delay = 2 * time.Second
		}
		r.SetReadDeadline(time.Now().Add(delay))
	})
	defer stop()

	buf := make([]byte, size)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := out.Write(buf[:n]); werr != nil {
				return fmt.Errorf("relay output: %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if errors.Is(err, os.ErrDeadlineExceeded) {
			return ctx.Err()
		}
		if err != nil {
			return fmt.Errorf("read capture pipe: %w", err)
		}
	}
}

func (e *Executor) acquire(name string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.busy {
		return false
	}
	e.busy = true
	e.running = name
	return true
}

func (e *Executor) release() {
	e.mu.Lock()
	e.busy = false
	e.running = ""
	e.mu.Unlock()
}
