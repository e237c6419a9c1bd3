// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[shell]\nscroll_step = 3\n"), 0600))

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[shell]\nscroll_step = 9\n"), 0600))

	select {
	case cfg := <-changes:
		assert.Equal(t, 9, cfg.Shell.ScrollStep)
	case <-time.After(3 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcher_ReportsInvalidConfig(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	errs := make(chan error, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, nil, func(err error) { errs <- err })
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("[shell]\nscroll_step = 0.5\n"), 0600))

	select {
	case err := <-errs:
		assert.Error(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("no error for an invalid config")
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")

	changes := make(chan *Config, 4)
	w, err := NewWatcher(path, 20*time.Millisecond, func(c *Config) { changes <- c }, nil)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "rigsh.log"), []byte("x"), 0600))

	select {
	case <-changes:
		t.Fatal("reloaded for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "Close is idempotent")
}
