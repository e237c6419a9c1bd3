// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"
)

const (
	// DefaultRelayFPS caps how often output redraws the screen.
	DefaultRelayFPS = 30

	relayBuffer   = 64
	maxRelayBatch = 64 * 1024
)

type relayEvent struct {
	data []byte
	done *CommandDoneMsg
}

// Relay carries output from a running command to the update loop.
//
// Writes come from the command goroutine; Wait returns a tea.Cmd that
// delivers the next batch as an OutputMsg, or the CommandDoneMsg once the
// command has finished. Events keep their order, so the done message always
// follows the last chunk. Chunks that arrive while a redraw is being paced
// are merged into one message.
type Relay struct {
	ch      chan relayEvent
	limiter *rate.Limiter

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	pending *CommandDoneMsg
}

// NewRelay creates a relay that redraws at most fps times per second.
func NewRelay(fps int) *Relay {
	if fps <= 0 {
		fps = DefaultRelayFPS
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Relay{
		ch:      make(chan relayEvent, relayBuffer),
		limiter: rate.NewLimiter(rate.Limit(fps), 1),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Write queues a copy of p. After Close it fails with io.ErrClosedPipe.
func (r *Relay) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	copy(buf, p)
	select {
	case r.ch <- relayEvent{data: buf}:
		return len(p), nil
	case <-r.ctx.Done():
		return 0, io.ErrClosedPipe
	}
}

// Finish queues the completion message behind any pending output.
func (r *Relay) Finish(done CommandDoneMsg) {
	select {
	case r.ch <- relayEvent{done: &done}:
	case <-r.ctx.Done():
	}
}

// Close unblocks writers and waiters. It is safe to call more than once.
func (r *Relay) Close() {
	r.cancel()
}

// Wait returns a command that blocks for the next relay event.
func (r *Relay) Wait() tea.Cmd {
	return func() tea.Msg {
		r.mu.Lock()
		if r.pending != nil {
			done := *r.pending
			r.pending = nil
			r.mu.Unlock()
			return done
		}
		r.mu.Unlock()

		var ev relayEvent
		select {
		case ev = <-r.ch:
		case <-r.ctx.Done():
			return nil
		}
		if ev.done != nil {
			return *ev.done
		}

		if err := r.limiter.Wait(r.ctx); err != nil {
			return OutputMsg{Data: ev.data}
		}

		data := ev.data
		for len(data) < maxRelayBatch {
			select {
			case next := <-r.ch:
				if next.done != nil {
					r.mu.Lock()
					r.pending = next.done
					r.mu.Unlock()
					return OutputMsg{Data: data}
				}
				data = append(data, next.data...)
			default:
				return OutputMsg{Data: data}
			}
		}
		return OutputMsg{Data: data}
	}
}
