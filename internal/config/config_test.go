// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// isolate points the config directory at a fresh temp dir and clears the
// environment overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("RIGSH_HOME", dir)
	for _, key := range []string{"RIGSH_HISTORY_SIZE", "RIGSH_SCROLL_STEP", "RIGSH_NO_MOUSE", "RIGSH_LOG_PATH", "RIGSH_LOG_ENABLED", "NO_COLOR"} {
		t.Setenv(key, "")
	}
	return dir
}

func TestConfig_Default(t *testing.T) {
	cfg := Default()

	if cfg.Shell.HistorySize != 10 {
		t.Errorf("HistorySize = %d, want 10", cfg.Shell.HistorySize)
	}
	if cfg.Shell.ScrollStep != 3 {
		t.Errorf("ScrollStep = %d, want 3", cfg.Shell.ScrollStep)
	}
	if cfg.Shell.MaxTranscriptRows != 1000 {
		t.Errorf("MaxTranscriptRows = %d, want 1000", cfg.Shell.MaxTranscriptRows)
	}
	if !cfg.Shell.KillChildOnInterrupt {
		t.Error("KillChildOnInterrupt should default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{"valid default config", func(*Config) {}, ""},
		{"history too small", func(c *Config) { c.Shell.HistorySize = 0 }, "shell.history_size"},
		{"history too large", func(c *Config) { c.Shell.HistorySize = 5000 }, "shell.history_size"},
		{"scroll step", func(c *Config) { c.Shell.ScrollStep = 99 }, "shell.scroll_step"},
		{"scrollback", func(c *Config) { c.Shell.MaxTranscriptRows = 10 }, "shell.max_transcript_rows"},
		{"multi-line prompt", func(c *Config) { c.Shell.PromptSymbol = "$\n" }, "shell.prompt_symbol"},
		{"negative log size", func(c *Config) { c.Log.MaxSizeMB = -1 }, "log.max_size_mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			var errs ValidateErrors
			if !errors.As(err, &errs) {
				t.Fatalf("Validate() = %v, want ValidateErrors", err)
			}
			if errs[0].Field != tt.wantField {
				t.Errorf("Field = %q, want %q", errs[0].Field, tt.wantField)
			}
		})
	}
}

func TestConfig_LoadWithoutFileUsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Shell.HistorySize != 10 {
		t.Errorf("HistorySize = %d", cfg.Shell.HistorySize)
	}
}

func TestConfig_LoadTOMLKeepsUnsetDefaults(t *testing.T) {
	dir := isolate(t)
	content := "[shell]\nhistory_size = 25\n\n[ui]\nmouse = false\n"
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Shell.HistorySize != 25 {
		t.Errorf("HistorySize = %d, want 25", cfg.Shell.HistorySize)
	}
	if cfg.UI.Mouse {
		t.Error("Mouse should be false")
	}
	if cfg.Shell.ScrollStep != 3 || !cfg.UI.Color {
		t.Error("unset keys should keep their defaults")
	}
}

func TestConfig_LoadTOMLRejectsUnknownKeys(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[shell]\nhistroy_size = 5\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFromPath(path); err == nil {
		t.Error("LoadFromPath should reject misspelled keys")
	}
}

func TestConfig_JSONFallback(t *testing.T) {
	dir := isolate(t)
	content := `{"shell": {"scroll_step": 7}}`
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Shell.ScrollStep != 7 {
		t.Errorf("ScrollStep = %d, want 7", cfg.Shell.ScrollStep)
	}
	path, _ := ActivePath()
	if filepath.Base(path) != "config.json" {
		t.Errorf("ActivePath() = %q", path)
	}
}

func TestConfig_InvalidFileFailsLoad(t *testing.T) {
	dir := isolate(t)
	if err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("[shell]\nscroll_step = 500\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(); err == nil {
		t.Error("Load() should fail validation")
	}
}

func TestConfig_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("RIGSH_HISTORY_SIZE", "42")
	t.Setenv("RIGSH_SCROLL_STEP", "not-a-number")
	t.Setenv("RIGSH_NO_MOUSE", "1")
	t.Setenv("RIGSH_LOG_ENABLED", "false")
	t.Setenv("NO_COLOR", "1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if cfg.Shell.HistorySize != 42 {
		t.Errorf("HistorySize = %d, want 42", cfg.Shell.HistorySize)
	}
	if cfg.Shell.ScrollStep != 3 {
		t.Errorf("ScrollStep = %d, want the default for a bad value", cfg.Shell.ScrollStep)
	}
	if cfg.UI.Mouse || cfg.UI.Color || cfg.Log.Enabled {
		t.Errorf("overrides not applied: %+v %+v", cfg.UI, cfg.Log)
	}
}

func TestConfig_SaveAndReload(t *testing.T) {
	dir := isolate(t)
	cfg := Default()
	cfg.Shell.HistorySize = 50
	cfg.Shell.KillChildOnInterrupt = false

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() = %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v", err)
	}
	if loaded.Shell.HistorySize != 50 || loaded.Shell.KillChildOnInterrupt {
		t.Errorf("round trip lost values: %+v", loaded.Shell)
	}
}

func TestConfig_Get(t *testing.T) {
	cfg := Default()

	tests := []struct {
		key     string
		want    interface{}
		wantErr bool
	}{
		{"shell.history_size", 10, false},
		{"shell.kill_child_on_interrupt", true, false},
		{"ui.mouse", true, false},
		{"version", CurrentVersion, false},
		{"shell.nope", nil, true},
		{"version.x", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := cfg.Get(tt.key)
		if (err != nil) != tt.wantErr {
			t.Errorf("Get(%q) error = %v, wantErr %v", tt.key, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("Get(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestConfig_GetAllKeys(t *testing.T) {
	keys := GetAllKeys()
	cfg := Default()
	for _, key := range keys {
		if _, err := cfg.Get(key); err != nil {
			t.Errorf("Get(%q) = %v", key, err)
		}
	}
	if len(keys) != 12 {
		t.Errorf("GetAllKeys() returned %d keys: %v", len(keys), keys)
	}
}

func TestConfig_LogPath(t *testing.T) {
	dir := isolate(t)
	cfg := Default()

	path, err := cfg.LogPath()
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "rigsh.log") {
		t.Errorf("LogPath() = %q", path)
	}

	cfg.Log.Path = "/var/tmp/custom.log"
	path, _ = cfg.LogPath()
	if path != "/var/tmp/custom.log" {
		t.Errorf("LogPath() = %q", path)
	}
}
