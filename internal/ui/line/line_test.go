// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package line

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/peterh/liner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigsh/internal/audit"
)

type scripted struct {
	lines    []string
	end      error
	prompts  []string
	appended []string
}

func (s *scripted) Prompt(prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if len(s.lines) == 0 {
		return "", s.end
	}
	next := s.lines[0]
	s.lines = s.lines[1:]
	return next, nil
}

func (s *scripted) AppendHistory(item string) {
	s.appended = append(s.appended, item)
}

type recordingRunner struct {
	names []string
	ctx   context.Context
}

func (r *recordingRunner) Run(ctx context.Context, name string, args []string, out io.Writer) error {
	r.names = append(r.names, name)
	r.ctx = ctx
	io.WriteString(out, name+" ran\n")
	return nil
}

func newTestREPL(t *testing.T, runner *recordingRunner) (*REPL, *bytes.Buffer, string) {
	t.Helper()
	home := t.TempDir()
	t.Chdir(home)

	var out bytes.Buffer
	env := map[string]string{"HOME": home, "PATH": ""}
	r := New(Options{
		Runner: runner,
		Audit:  audit.Discard(),
		Out:    &out,
		Getenv: func(k string) string { return env[k] },
		Login:  "tester",
	})
	return r, &out, home
}

func TestLoop_RunsLinesUntilEOF(t *testing.T) {
	runner := &recordingRunner{}
	r, out, _ := newTestREPL(t, runner)
	p := &scripted{lines: []string{"echo hello world", "", "ls -l"}, end: io.EOF}

	require.NoError(t, r.Loop(context.Background(), p))

	assert.Equal(t, "hello world \nls ran\n\n", out.String())
	assert.Equal(t, []string{"ls"}, runner.names)
	assert.Equal(t, []string{"echo hello world", "ls -l"}, p.appended)
	assert.Equal(t, "[tester:~] $ ", p.prompts[0])
	assert.Equal(t, "eof", r.ShutdownReason())
	assert.Equal(t, 0, r.History().Len(), "history released on shutdown")
}

func TestLoop_Exit(t *testing.T) {
	r, _, _ := newTestREPL(t, &recordingRunner{})
	p := &scripted{lines: []string{"exit", "echo never"}, end: io.EOF}

	require.NoError(t, r.Loop(context.Background(), p))
	assert.Equal(t, "exit", r.ShutdownReason())
	assert.Len(t, p.lines, 1, "nothing read after exit")
}

func TestLoop_CtrlC(t *testing.T) {
	r, _, _ := newTestREPL(t, &recordingRunner{})
	p := &scripted{end: liner.ErrPromptAborted}

	require.NoError(t, r.Loop(context.Background(), p))
	assert.Equal(t, "interrupt", r.ShutdownReason())
}

func TestLoop_CancelledContext(t *testing.T) {
	r, _, _ := newTestREPL(t, &recordingRunner{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, r.Loop(ctx, &scripted{end: io.EOF}))
	assert.Equal(t, "signal", r.ShutdownReason())
}

func TestLoop_ReadError(t *testing.T) {
	r, _, _ := newTestREPL(t, &recordingRunner{})
	boom := errors.New("tty gone")

	err := r.Loop(context.Background(), &scripted{end: boom})
	assert.ErrorIs(t, err, boom)
}

func TestExecute_Errors(t *testing.T) {
	r, out, _ := newTestREPL(t, &recordingRunner{})

	assert.False(t, r.Execute(context.Background(), "echo"))
	assert.False(t, r.Execute(context.Background(), "echo 'open"))

	assert.Equal(t, "too few parameters (minimum 1)\nmissing closing ' at end of command\n", out.String())
	assert.Equal(t, 2, r.History().Len())
}

func TestExecute_Clear(t *testing.T) {
	r, out, _ := newTestREPL(t, &recordingRunner{})

	r.Execute(context.Background(), "clear")
	assert.Equal(t, clearScreen, out.String())
}

func TestExecute_KillPolicy(t *testing.T) {
	runner := &recordingRunner{}
	r, _, _ := newTestREPL(t, runner)
	ctx, cancel := context.WithCancel(context.Background())

	r.killOnInterrupt = false
	r.Execute(ctx, "sleep")
	cancel()
	assert.NoError(t, runner.ctx.Err(), "child context outlives the shell")

	ctx, cancel = context.WithCancel(context.Background())
	r.killOnInterrupt = true
	r.Execute(ctx, "sleep")
	cancel()
	assert.Error(t, runner.ctx.Err())
}

func TestPrompt_Cwd(t *testing.T) {
	r, _, home := newTestREPL(t, &recordingRunner{})

	sub := filepath.Join(home, "src")
	require.NoError(t, os.Mkdir(sub, 0755))
	t.Chdir(sub)
	assert.Equal(t, "[tester:~/src] $ ", r.Prompt())

	other := t.TempDir()
	t.Chdir(other)
	assert.Equal(t, "[tester:"+other+"] $ ", r.Prompt())
}

func TestComplete(t *testing.T) {
	r, _, home := newTestREPL(t, &recordingRunner{})
	require.NoError(t, os.WriteFile(filepath.Join(home, "build.sh"), nil, 0755))

	assert.Equal(t, []string{"./build.sh"}, r.Complete("./bu"))
	assert.Empty(t, r.Complete("nothing-on-an-empty-path"))
}
