// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/ui/shell"
)

// isolate points the config directory at a temp dir and clears overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RIGSH_HOME", dir)
	for _, key := range []string{"RIGSH_HISTORY_SIZE", "RIGSH_SCROLL_STEP", "RIGSH_NO_MOUSE", "RIGSH_LOG_PATH", "RIGSH_LOG_ENABLED", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// =============================================================================
// VERSION
// =============================================================================

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "rigsh version "+Version)
	assert.Contains(t, out, "Git commit: ")
}

// =============================================================================
// CONFIG
// =============================================================================

func TestConfigGet(t *testing.T) {
	isolate(t)

	tests := []struct {
		key  string
		want string
	}{
		{"shell.history_size", "10\n"},
		{"shell.scroll_step", "3\n"},
		{"shell.kill_child_on_interrupt", "true\n"},
		{"ui.mouse", "true\n"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			out, err := execute(t, "config", "get", tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestConfigGet_UnknownKey(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "get", "shell.nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown field: shell.nope")
	assert.Contains(t, err.Error(), "shell.history_size")
}

func TestConfigGet_Arity(t *testing.T) {
	isolate(t)

	_, err := execute(t, "config", "get")
	assert.Error(t, err)
}

func TestConfigShow_UsesConfigFlag(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shell]\nscroll_step = 7\n"), 0600))

	out, err := execute(t, "--config", path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "scroll_step = 7")
	assert.Contains(t, out, "history_size = 10")
}

func TestConfigShow_InvalidFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shell]\nscroll_step = 0.5\n"), 0600))

	_, err := execute(t, "--config", path, "config", "show")
	assert.Error(t, err)
}

func TestConfigInit(t *testing.T) {
	dir := isolate(t)
	want := filepath.Join(dir, "config.toml")

	out, err := execute(t, "config", "init")
	require.NoError(t, err)
	assert.Equal(t, "wrote "+want+"\n", out)

	cfg, err := config.LoadFromPath(want)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Shell, cfg.Shell)

	_, err = execute(t, "config", "init")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigInit_JSON(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "rigsh.json")

	_, err := execute(t, "--config", path, "config", "init")
	require.NoError(t, err)

	cfg, err := config.LoadFromPath(path)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.Shell.HistorySize)
}

func TestConfigPath(t *testing.T) {
	dir := isolate(t)

	out, err := execute(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out)

	out, err = execute(t, "--config", "/etc/rigsh.toml", "config", "path")
	require.NoError(t, err)
	assert.Equal(t, "/etc/rigsh.toml\n", out)
}

// =============================================================================
// ROOT COMMAND
// =============================================================================

func TestRoot_RequiresTerminal(t *testing.T) {
	isolate(t)
	saved := interactive
	interactive = func() bool { return false }
	t.Cleanup(func() { interactive = saved })

	_, err := execute(t)
	require.Error(t, err)

	var ttyErr *TTYRequiredError
	require.True(t, errors.As(err, &ttyErr))
	assert.Contains(t, err.Error(), "--line")
}

func TestRoot_UnreadableWorkingDirectory(t *testing.T) {
	isolate(t)
	savedGetwd, savedInteractive := getwd, interactive
	getwd = func() (string, error) { return "", syscall.ENOENT }
	interactive = func() bool { return true }
	t.Cleanup(func() {
		getwd = savedGetwd
		interactive = savedInteractive
	})

	for _, args := range [][]string{nil, {"--line"}} {
		_, err := execute(t, args...)
		require.Error(t, err)
		assert.ErrorIs(t, err, syscall.ENOENT)
		assert.Contains(t, err.Error(), "working directory")
	}
}

func TestRoot_RejectsArguments(t *testing.T) {
	isolate(t)

	_, err := execute(t, "stray")
	assert.Error(t, err)
}

func TestRootOptions_Apply(t *testing.T) {
	tests := []struct {
		name    string
		opts    rootOptions
		wantErr bool
		check   func(t *testing.T, cfg *config.Config)
	}{
		{
			name: "no flags",
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, config.Default(), cfg)
			},
		},
		{
			name: "no mouse",
			opts: rootOptions{noMouse: true},
			check: func(t *testing.T, cfg *config.Config) {
				assert.False(t, cfg.UI.Mouse)
			},
		},
		{
			name: "history size",
			opts: rootOptions{historySize: 25},
			check: func(t *testing.T, cfg *config.Config) {
				assert.Equal(t, 25, cfg.Shell.HistorySize)
			},
		},
		{
			name:    "history size out of range",
			opts:    rootOptions{historySize: 5000},
			wantErr: true,
		},
		{
			name:    "negative history size",
			opts:    rootOptions{historySize: -1},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := tt.opts.apply(cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestForwardSignals(t *testing.T) {
	sigs := make(chan os.Signal, 1)
	done := make(chan struct{})
	got := make(chan tea.Msg, 2)

	exited := forwardSignals(sigs, done, func(msg tea.Msg) { got <- msg })

	sigs <- syscall.SIGTERM
	select {
	case msg := <-got:
		assert.Equal(t, shell.InterruptMsg{Reason: "terminated"}, msg)
	case <-time.After(2 * time.Second):
		t.Fatal("signal was not forwarded")
	}

	close(done)
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Fatal("forwarding goroutine did not exit")
	}
}

func TestSignalReason(t *testing.T) {
	assert.Equal(t, "interrupt", signalReason(syscall.SIGINT))
	assert.Equal(t, "terminated", signalReason(syscall.SIGTERM))
}
