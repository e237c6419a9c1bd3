// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package line provides rigsh's line mode: a plain read-eval loop for
// terminals where the full-screen UI is unwanted or unavailable.
//
// peterh/liner edits the line and draws the prompt. Everything after Enter
// is shared with the full-screen shell: the same history store, tokenizer,
// dispatcher, completer and process executor. Output goes straight to the
// terminal.
package line

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/peterh/liner"

	"github.com/jeranaias/rigsh/internal/audit"
	"github.com/jeranaias/rigsh/internal/commands"
	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/history"
	"github.com/jeranaias/rigsh/internal/process"
)

// clearScreen homes the cursor and erases the display.
const clearScreen = "\x1b[H\x1b[2J"

// Prompter reads one edited line. *liner.State implements it.
type Prompter interface {
	Prompt(prompt string) (string, error)
	AppendHistory(item string)
}

// Options configures a REPL. Zero fields get working defaults.
type Options struct {
	Config *config.Config
	Runner commands.Runner
	Audit  *audit.Logger
	Out    io.Writer
	Getenv func(string) string
	Login  string
}

// REPL is the line-mode shell.
type REPL struct {
	out        io.Writer
	session    *commands.Session
	dispatcher *commands.Dispatcher
	history    *history.Store
	completer  *commands.PathCompleter
	audit      *audit.Logger

	login           string
	home            string
	symbol          string
	killOnInterrupt bool

	once   sync.Once
	reason string
}

// New creates a line-mode shell.
func New(opts Options) *REPL {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	runner := opts.Runner
	if runner == nil {
		runner = process.NewExecutor()
	}
	logger := opts.Audit
	if logger == nil {
		logger = audit.Global()
	}

	store := history.NewStore(cfg.Shell.HistorySize)
	session := commands.NewSession(out, store)
	session.Getenv = getenv

	completer := commands.NewPathCompleter()
	completer.Getenv = getenv

	login := opts.Login
	if login == "" {
		login = getenv("USER")
	}
	if login == "" {
		if u, err := user.Current(); err == nil {
			login = u.Username
		}
	}

	return &REPL{
		out:             out,
		session:         session,
		dispatcher:      commands.NewDispatcher(commands.NewRegistry(), runner),
		history:         store,
		completer:       completer,
		audit:           logger,
		login:           login,
		home:            getenv("HOME"),
		symbol:          cfg.Shell.PromptSymbol,
		killOnInterrupt: cfg.Shell.KillChildOnInterrupt,
	}
}

// Run reads lines from the terminal until exit, Ctrl+C, Ctrl+D or ctx is
// cancelled.
func (r *REPL) Run(ctx context.Context) error {
	state := liner.NewLiner()
	defer state.Close()

	state.SetCtrlCAborts(true)
	state.SetTabCompletionStyle(liner.TabCircular)
	state.SetCompleter(r.Complete)

	return r.Loop(ctx, state)
}

// Loop drives the shell from p.
func (r *REPL) Loop(ctx context.Context, p Prompter) error {
	for {
		if ctx.Err() != nil {
			r.Shutdown("signal")
			return nil
		}

		text, err := p.Prompt(r.Prompt())
		switch {
		case errors.Is(err, liner.ErrPromptAborted):
			r.Shutdown("interrupt")
			return nil
		case errors.Is(err, io.EOF):
			fmt.Fprintln(r.out)
			r.Shutdown("eof")
			return nil
		case err != nil:
			r.Shutdown("error")
			return fmt.Errorf("read line: %w", err)
		}

		if strings.TrimRight(text, " ") != "" {
			p.AppendHistory(text)
		}
		if r.Execute(ctx, text) {
			return nil
		}
	}
}

// Execute runs one submitted line and reports whether the shell should
// stop.
func (r *REPL) Execute(ctx context.Context, text string) bool {
	line := strings.TrimRight(text, " ")
	if line == "" {
		return false
	}
	r.history.Push(line)

	runCtx := ctx
	if !r.killOnInterrupt {
		runCtx = context.WithoutCancel(ctx)
	}

	outcome, err := r.dispatcher.Dispatch(runCtx, r.session, line)

	var parseErr *commands.ParseError
	switch {
	case errors.As(err, &parseErr):
		r.audit.LogParseError(err)
	case outcome.Name != "":
		logErr := err
		if logErr == nil {
			logErr = outcome.RunErr
		}
		r.audit.LogCommand(outcome.Name, len(outcome.Args), outcome.Builtin, logErr)
	}

	if err != nil {
		fmt.Fprintln(r.out, err)
	}

	switch outcome.Action {
	case commands.ActionClear:
		fmt.Fprint(r.out, clearScreen)
	case commands.ActionExit:
		r.Shutdown("exit")
		return true
	}
	return false
}

// Complete lists every completion for line, for liner's Tab handling.
func (r *REPL) Complete(line string) []string {
	candidates, err := r.completer.Candidates(line)
	if err != nil {
		return nil
	}
	return candidates
}

// Prompt renders "[login:cwd] $ " without color; liner measures the prompt
// by its bytes.
func (r *REPL) Prompt() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "?"
	}
	if r.home != "" && r.home != "/" {
		if cwd == r.home {
			cwd = "~"
		} else if rest, ok := strings.CutPrefix(cwd, r.home+"/"); ok {
			cwd = "~/" + rest
		}
	}
	return fmt.Sprintf("[%s:%s] %s ", r.login, cwd, r.symbol)
}

// History returns the session's history store.
func (r *REPL) History() *history.Store {
	return r.history
}

// Shutdown releases the session once.
func (r *REPL) Shutdown(reason string) {
	r.once.Do(func() {
		r.reason = reason
		r.history.Release()
		r.audit.LogShutdown(reason)
	})
}

// ShutdownReason returns what stopped the shell, or "".
func (r *REPL) ShutdownReason() string {
	return r.reason
}
