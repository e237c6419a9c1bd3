// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package shell

import (
	"context"
	"errors"
	"os"
	"os/user"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/rigsh/internal/audit"
	"github.com/jeranaias/rigsh/internal/commands"
	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/history"
	"github.com/jeranaias/rigsh/internal/process"
	"github.com/jeranaias/rigsh/internal/ui/styles"
)

// =============================================================================
// STATE
// =============================================================================

// State is the input loop's mode.
type State int

const (
	// StateReady waits for input
	StateReady State = iota
	// StateRunning has a command in flight; only the interrupt is handled
	StateRunning
	// StateQuitting is set once shutdown has run
	StateQuitting
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateRunning:
		return "Running"
	case StateQuitting:
		return "Quitting"
	default:
		return "Unknown"
	}
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a Model. Zero fields get working defaults.
type Options struct {
	Config *config.Config
	Theme  *styles.Theme
	Runner commands.Runner
	Audit  *audit.Logger

	// Getenv overrides environment lookups (HOME, PATH, USER)
	Getenv func(string) string

	// Login is shown in the prompt; $USER when empty
	Login string
}

// closer runs the shutdown sequence once, whatever triggers it.
type closer struct {
	once   sync.Once
	reason string
}

// =============================================================================
// MODEL
// =============================================================================

// Model is the full-screen shell.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme
	keys  KeyMap
	audit *audit.Logger

	// Command pipeline
	session    *commands.Session
	dispatcher *commands.Dispatcher
	relay      *Relay
	cancel     context.CancelFunc
	running    string

	// Line editing
	line      []rune
	recalled  int
	history   *history.Store
	browser   *history.Browser
	completer *commands.PathCompleter

	// Transcript and viewport
	transcript    *Transcript
	viewport      viewport.Model
	rows          []string
	scroll        int
	cursorVisible bool

	// Settings that follow config reloads
	scrollStep      int
	statusBar       bool
	killOnInterrupt bool
	promptSymbol    string

	// Prompt
	login string
	cwd   string
	home  string

	state  State
	width  int
	height int
	closer *closer
}

// New creates the shell model.
func New(opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := opts.Theme
	if theme == nil {
		theme = styles.NewTheme(cfg.UI.Color)
	}
	logger := opts.Audit
	if logger == nil {
		logger = audit.Global()
	}
	getenv := opts.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	runner := opts.Runner
	if runner == nil {
		runner = process.NewExecutor()
	}

	store := history.NewStore(cfg.Shell.HistorySize)
	relay := NewRelay(DefaultRelayFPS)

	session := commands.NewSession(relay, store)
	session.Style = theme
	session.Getenv = getenv
	session.RenderMarkdown = styles.NewMarkdownRenderer(theme, styles.DefaultMarkdownWidth)

	completer := commands.NewPathCompleter()
	completer.Getenv = getenv

	login := opts.Login
	if login == "" {
		login = loginName(getenv)
	}

	vp := viewport.New(80, 24)
	vp.MouseWheelEnabled = false

	m := Model{
		cfg:        cfg,
		theme:      theme,
		keys:       DefaultKeyMap(),
		audit:      logger,
		session:    session,
		dispatcher: commands.NewDispatcher(commands.NewRegistry(), runner),
		relay:      relay,
		history:    store,
		browser:    history.NewBrowser(store),
		completer:  completer,
		transcript: NewTranscript(cfg.Shell.MaxTranscriptRows),
		viewport:   vp,
		login:      login,
		home:       getenv("HOME"),
		width:      80,
		height:     24,
		closer:     &closer{},
	}
	m.applyConfig(cfg)
	m.updateCwd()
	m.transcript.SetWidth(m.width)
	m.viewport.Height = m.visibleRows()
	m.refresh(true)
	return m
}

// Init starts the model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle("rigsh")
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.state == StateQuitting {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case OutputMsg:
		m.transcript.Write(msg.Data)
		m.refresh(true)
		return m, m.relay.Wait()

	case CommandDoneMsg:
		return m.handleCommandDone(msg)

	case InterruptMsg:
		return m.shutdown(msg.Reason)

	case ConfigReloadMsg:
		return m.handleConfigReload(msg)
	}

	return m, nil
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current mode.
func (m Model) State() State {
	return m.state
}

// Line returns the line being edited.
func (m Model) Line() string {
	return string(m.line)
}

// History returns the session's history store.
func (m Model) History() *history.Store {
	return m.history
}

// Transcript returns the session transcript.
func (m Model) Transcript() *Transcript {
	return m.transcript
}

// Scroll returns the top row of the window.
func (m Model) Scroll() int {
	return m.scroll
}

// Rows returns the rendered transcript rows, live row last.
func (m Model) Rows() []string {
	return m.rows
}

// CursorVisible reports whether the input cursor is drawn.
func (m Model) CursorVisible() bool {
	return m.cursorVisible
}

// Session returns the built-in command session.
func (m Model) Session() *commands.Session {
	return m.session
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height
	if m.width < 1 {
		m.width = 1
	}
	if m.height < 1 {
		m.height = 1
	}

	m.viewport.Width = m.width
	m.viewport.Height = m.visibleRows()
	m.transcript.SetWidth(m.width)
	m.refresh(true)
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.scrollBy(-m.scrollStep)
	case tea.MouseWheelDown:
		m.scrollBy(m.scrollStep)
	}
	return m, nil
}

func (m Model) handleCommandDone(msg CommandDoneMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.running = ""
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}

	m.logCommand(msg)

	if msg.Err != nil {
		m.printError(msg.Err.Error())
	}
	if err := msg.Outcome.RunErr; err != nil && reportRunError(err) {
		m.printError(err.Error())
	}

	switch msg.Outcome.Action {
	case commands.ActionClear:
		m.transcript.Clear()
	case commands.ActionExit:
		return m.shutdown("exit")
	}

	m.updateCwd()
	m.refresh(true)
	return m, nil
}

func (m Model) handleConfigReload(msg ConfigReloadMsg) (tea.Model, tea.Cmd) {
	m.audit.LogConfigReload(msg.Path, msg.Err)
	if msg.Err != nil || msg.Config == nil {
		return m, nil
	}
	m.applyConfig(msg.Config)
	m.viewport.Height = m.visibleRows()
	m.refresh(false)
	return m, nil
}

// applyConfig takes the settings that may change while the shell runs.
// The history capacity only applies at startup.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.scrollStep = cfg.Shell.ScrollStep
	if m.scrollStep <= 0 {
		m.scrollStep = DefaultScrollStep
	}
	m.statusBar = cfg.UI.StatusBar
	m.killOnInterrupt = cfg.Shell.KillChildOnInterrupt
	m.promptSymbol = cfg.Shell.PromptSymbol
	m.transcript.SetMaxLines(cfg.Shell.MaxTranscriptRows)

	// The session is shared with the command goroutine; restyle it only
	// between commands.
	if m.state == StateReady {
		m.theme = m.theme.WithColor(cfg.UI.Color)
		m.session.Style = m.theme
	}
}

// =============================================================================
// SHUTDOWN
// =============================================================================

// shutdown stops the shell. The sequence runs once no matter how many
// interrupts, exits or signals arrive.
func (m Model) shutdown(reason string) (tea.Model, tea.Cmd) {
	m.closer.once.Do(func() {
		m.closer.reason = reason
		if m.cancel != nil && m.killOnInterrupt {
			m.cancel()
		}
		m.relay.Close()
		m.history.Release()
		m.audit.LogShutdown(reason)
	})
	m.state = StateQuitting
	return m, tea.Quit
}

// ShutdownReason returns what stopped the shell, or "" while it runs.
func (m Model) ShutdownReason() string {
	return m.closer.reason
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) logCommand(msg CommandDoneMsg) {
	var parseErr *commands.ParseError
	if errors.As(msg.Err, &parseErr) {
		m.audit.LogParseError(parseErr)
		return
	}
	if msg.Outcome.Name == "" {
		return
	}
	err := msg.Err
	if err == nil {
		err = msg.Outcome.RunErr
	}
	m.audit.LogCommand(msg.Outcome.Name, len(msg.Outcome.Args), msg.Outcome.Builtin, err)
}

// reportRunError reports whether an external program's error still needs
// printing. Start failures were written into the output stream already, and
// exit codes and cancellation are silent.
func reportRunError(err error) bool {
	var startErr *process.StartError
	var exitErr *process.ExitError
	switch {
	case errors.As(err, &startErr), errors.As(err, &exitErr):
		return false
	case errors.Is(err, context.Canceled):
		return false
	}
	return true
}

func (m *Model) printError(text string) {
	if p := m.transcript.Partial(); p != "" {
		m.transcript.WriteString("\n")
	}
	m.transcript.WriteString(m.theme.Error(text) + "\n")
}

func (m *Model) updateCwd() {
	if wd, err := os.Getwd(); err == nil {
		m.cwd = wd
	}
}

// displayCwd shortens the home directory to "~".
func (m *Model) displayCwd() string {
	if m.home != "" && m.home != "/" {
		if m.cwd == m.home {
			return "~"
		}
		if rest, ok := strings.CutPrefix(m.cwd, m.home+"/"); ok {
			return "~/" + rest
		}
	}
	return m.cwd
}

func loginName(getenv func(string) string) string {
	if name := getenv("USER"); name != "" {
		return name
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "?"
}
