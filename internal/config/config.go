// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/rigsh/internal/util"
)

// CurrentVersion is the config schema version written by Save.
const CurrentVersion = "1"

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigsh configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Shell behavior
	Shell ShellConfig `toml:"shell" json:"shell"`

	// Terminal presentation
	UI UIConfig `toml:"ui" json:"ui"`

	// Event log
	Log LogConfig `toml:"log" json:"log"`
}

// ShellConfig contains the line editor and executor settings.
type ShellConfig struct {
	// HistorySize is the capacity of the history ring
	HistorySize int `toml:"history_size" json:"history_size"`

	// ScrollStep is the number of rows one mouse wheel tick scrolls
	ScrollStep int `toml:"scroll_step" json:"scroll_step"`

	// MaxTranscriptRows bounds the scrollback; the oldest rows go first
	MaxTranscriptRows int `toml:"max_transcript_rows" json:"max_transcript_rows"`

	// KillChildOnInterrupt kills a running program when the shell is
	// interrupted; otherwise the program is left running on its own
	KillChildOnInterrupt bool `toml:"kill_child_on_interrupt" json:"kill_child_on_interrupt"`

	// PromptSymbol ends the prompt
	PromptSymbol string `toml:"prompt_symbol" json:"prompt_symbol"`
}

// UIConfig contains terminal presentation settings.
type UIConfig struct {
	Mouse     bool `toml:"mouse" json:"mouse"`
	Color     bool `toml:"color" json:"color"`
	StatusBar bool `toml:"status_bar" json:"status_bar"`
}

// LogConfig contains event log settings.
type LogConfig struct {
	Enabled bool `toml:"enabled" json:"enabled"`

	// Path of the log file; ~/.rigsh/rigsh.log when empty
	Path string `toml:"path" json:"path"`

	// MaxSizeMB rotates the log once it grows past this size
	MaxSizeMB int `toml:"max_size_mb" json:"max_size_mb"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Shell: ShellConfig{
			HistorySize:          10,
			ScrollStep:           3,
			MaxTranscriptRows:    1000,
			KillChildOnInterrupt: true,
			PromptSymbol:         "$",
		},
		UI: UIConfig{
			Mouse:     true,
			Color:     true,
			StatusBar: true,
		},
		Log: LogConfig{
			Enabled:   true,
			MaxSizeMB: 10,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigsh configuration directory path.
func ConfigDir() (string, error) {
	if dir := os.Getenv("RIGSH_HOME"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigsh"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// ActivePath returns the file Load reads: the TOML file if it exists, else
// the JSON file if it exists, else the TOML path.
func ActivePath() (string, error) {
	tomlPath, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(tomlPath); err == nil {
		return tomlPath, nil
	}
	jsonPath, err := ConfigPathJSON()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(jsonPath); err == nil {
		return jsonPath, nil
	}
	return tomlPath, nil
}

// LogPath returns the configured log file, defaulting into ConfigDir.
func (c *Config) LogPath() (string, error) {
	if c.Log.Path != "" {
		return util.ExpandHome(c.Log.Path)
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "rigsh.log"), nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file.
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides are applied last.
func Load() (*Config, error) {
	path, err := ActivePath()
	if err != nil {
		return nil, err
	}
	if _, statErr := os.Stat(path); statErr != nil {
		cfg := Default()
		return finish(cfg)
	}
	return LoadFromPath(path)
}

// LoadFromPath loads configuration from a specific file. Files ending in
// .json are read as JSON, anything else as TOML.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	return finish(cfg)
}

func finish(cfg *Config) (*Config, error) {
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadTOML decodes a TOML file over cfg. Keys missing from the file keep
// their current values.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML writes the configuration to a TOML file atomically.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	fmt.Fprintln(&buf, "# rigsh configuration file")
	fmt.Fprintln(&buf, "# Generated by rigsh - edit with care")
	fmt.Fprintln(&buf, "")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SaveJSON writes the configuration to a JSON file atomically.
func SaveJSON(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate checks that every setting is in range.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Shell.HistorySize < 1 || c.Shell.HistorySize > 1000 {
		errs = append(errs, ValidationError{
			Field:   "shell.history_size",
			Message: fmt.Sprintf("must be between 1 and 1000, got %d", c.Shell.HistorySize),
		})
	}
	if c.Shell.ScrollStep < 1 || c.Shell.ScrollStep > 50 {
		errs = append(errs, ValidationError{
			Field:   "shell.scroll_step",
			Message: fmt.Sprintf("must be between 1 and 50, got %d", c.Shell.ScrollStep),
		})
	}
	if c.Shell.MaxTranscriptRows < 100 {
		errs = append(errs, ValidationError{
			Field:   "shell.max_transcript_rows",
			Message: fmt.Sprintf("must be at least 100, got %d", c.Shell.MaxTranscriptRows),
		})
	}
	if strings.ContainsAny(c.Shell.PromptSymbol, "\n\r") {
		errs = append(errs, ValidationError{
			Field:   "shell.prompt_symbol",
			Message: "must be a single line",
		})
	}
	if c.Log.MaxSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "log.max_size_mb",
			Message: "must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaults fills zero-valued fields that have no meaningful zero.
func (c *Config) SetDefaults() {
	defaults := Default()
	if c.Version == "" {
		c.Version = defaults.Version
	}
	if c.Shell.HistorySize == 0 {
		c.Shell.HistorySize = defaults.Shell.HistorySize
	}
	if c.Shell.ScrollStep == 0 {
		c.Shell.ScrollStep = defaults.Shell.ScrollStep
	}
	if c.Shell.MaxTranscriptRows == 0 {
		c.Shell.MaxTranscriptRows = defaults.Shell.MaxTranscriptRows
	}
	if c.Shell.PromptSymbol == "" {
		c.Shell.PromptSymbol = defaults.Shell.PromptSymbol
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	}
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGSH_HISTORY_SIZE: overrides shell.history_size
//   - RIGSH_SCROLL_STEP: overrides shell.scroll_step
//   - RIGSH_NO_MOUSE: "1" or "true" disables mouse reporting
//   - RIGSH_LOG_PATH: overrides log.path
//   - RIGSH_LOG_ENABLED: "0" or "false" disables the event log
//   - NO_COLOR: any value disables color
func (c *Config) ApplyEnvOverrides() {
	if n, ok := envInt("RIGSH_HISTORY_SIZE"); ok {
		c.Shell.HistorySize = n
	}
	if n, ok := envInt("RIGSH_SCROLL_STEP"); ok {
		c.Shell.ScrollStep = n
	}
	if v := os.Getenv("RIGSH_NO_MOUSE"); v != "" {
		c.UI.Mouse = !isTrue(v)
	}
	if path := os.Getenv("RIGSH_LOG_PATH"); path != "" {
		c.Log.Path = path
	}
	if v := os.Getenv("RIGSH_LOG_ENABLED"); v != "" {
		c.Log.Enabled = isTrue(v)
	}
	if os.Getenv("NO_COLOR") != "" {
		c.UI.Color = false
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func isTrue(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// =============================================================================
// GET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation
// (e.g., "shell.history_size").
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds the struct field whose toml tag is name.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		tag, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
		if tag == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			tag, _, _ := strings.Cut(t.Field(i).Tag.Get("toml"), ",")
			if tag == "" || tag == "-" {
				continue
			}
			key := prefix + tag
			if t.Field(i).Type.Kind() == reflect.Struct {
				walk(t.Field(i).Type, key+".")
				continue
			}
			keys = append(keys, key)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}
