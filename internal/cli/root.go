// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jeranaias/rigsh/internal/audit"
	"github.com/jeranaias/rigsh/internal/config"
	"github.com/jeranaias/rigsh/internal/ui/line"
	"github.com/jeranaias/rigsh/internal/ui/shell"
	"github.com/jeranaias/rigsh/internal/ui/styles"
)

// Exit codes returned by Execute.
const (
	ExitSuccess      = 0
	ExitGeneralError = 1
)

// rootOptions holds the flags shared by every command.
type rootOptions struct {
	configPath  string
	lineMode    bool
	noMouse     bool
	historySize int
}

// Execute runs the rigsh command line and returns the exit code.
func Execute() int {
	root := NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitGeneralError
	}
	return ExitSuccess
}

// NewRootCmd builds the rigsh command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "rigsh",
		Short:         "A small interactive shell with a scrollable transcript",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.rigsh/config.toml)")
	root.Flags().BoolVar(&opts.lineMode, "line", false, "run the line-mode shell instead of the full-screen one")
	root.Flags().BoolVar(&opts.noMouse, "no-mouse", false, "disable mouse wheel scrolling")
	root.Flags().IntVar(&opts.historySize, "history-size", 0, "history ring capacity (overrides shell.history_size)")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(opts))
	return root
}

// =============================================================================
// CONFIG LOADING
// =============================================================================

// loadConfig reads the config file named by --config, or the default one.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	if o.configPath != "" {
		return config.LoadFromPath(o.configPath)
	}
	return config.Load()
}

// configFile returns the file loadConfig reads.
func (o *rootOptions) configFile() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.ActivePath()
}

// apply lays the command-line overrides over cfg and revalidates it.
func (o *rootOptions) apply(cfg *config.Config) error {
	if o.noMouse {
		cfg.UI.Mouse = false
	}
	if o.historySize != 0 {
		cfg.Shell.HistorySize = o.historySize
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	return nil
}

// =============================================================================
// STARTUP
// =============================================================================

// getwd is replaced by tests.
var getwd = os.Getwd

func runRoot(ctx context.Context, opts *rootOptions, stdout io.Writer) error {
	if _, err := getwd(); err != nil {
		return fmt.Errorf("rigsh: cannot read working directory: %w", err)
	}
	if !opts.lineMode && !interactive() {
		return ttyError()
	}

	cfg, err := opts.loadConfig()
	if err != nil {
		return err
	}
	if err := opts.apply(cfg); err != nil {
		return err
	}

	logger, err := openLog(cfg)
	if err != nil {
		return err
	}
	defer logger.Close()

	mode := "tui"
	if opts.lineMode {
		mode = "line"
	}
	logger.LogStartup(map[string]string{
		"mode":    mode,
		"version": Version,
		"color":   ColorProfileName(),
		"history": strconv.Itoa(cfg.Shell.HistorySize),
	})

	if opts.lineMode {
		return runLine(ctx, cfg, logger, stdout)
	}
	return runShell(ctx, opts, cfg, logger)
}

// openLog opens the event log and routes the standard logger into it.
func openLog(cfg *config.Config) (*audit.Logger, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, err
	}
	logger, err := audit.Init(path, cfg.Log.Enabled, int64(cfg.Log.MaxSizeMB)*1024*1024)
	if err != nil {
		return nil, fmt.Errorf("failed to open log: %w", err)
	}
	audit.RedirectStdLog(logger)
	return logger, nil
}

// runShell runs the full-screen shell until it quits.
func runShell(ctx context.Context, opts *rootOptions, cfg *config.Config, logger *audit.Logger) error {
	m := shell.New(shell.Options{
		Config: cfg,
		Theme:  styles.NewTheme(cfg.UI.Color),
		Audit:  logger,
	})

	programOpts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	}
	if cfg.UI.Mouse {
		programOpts = append(programOpts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(m, programOpts...)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	relayDone := forwardSignals(sigs, done, p.Send)
	defer func() {
		signal.Stop(sigs)
		close(done)
		<-relayDone
	}()

	if watcher := watchConfig(p, opts); watcher != nil {
		defer watcher.Close()
	}

	final, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running rigsh: %w", err)
	}
	if fm, ok := final.(shell.Model); ok {
		log.Printf("SHELL_EXIT | reason=%s", fm.ShutdownReason())
	}
	return nil
}

// watchConfig forwards config file changes to the running program. A
// watcher that cannot start is logged and skipped.
func watchConfig(p *tea.Program, opts *rootOptions) *config.Watcher {
	path, err := opts.configFile()
	if err != nil {
		log.Printf("CONFIG_WATCH | error=%v", err)
		return nil
	}
	onChange := func(cfg *config.Config) {
		if err := opts.apply(cfg); err != nil {
			p.Send(shell.ConfigReloadMsg{Path: path, Err: err})
			return
		}
		p.Send(shell.ConfigReloadMsg{Path: path, Config: cfg})
	}
	onError := func(err error) {
		p.Send(shell.ConfigReloadMsg{Path: path, Err: err})
	}
	w, err := config.NewWatcher(path, config.DefaultDebounce, onChange, onError)
	if err != nil {
		log.Printf("CONFIG_WATCH | path=%s error=%v", path, err)
		return nil
	}
	return w
}

// runLine runs the line-mode shell. The first SIGINT or SIGTERM cancels the
// running command and ends the session; a second one falls through to the
// default handler.
func runLine(ctx context.Context, cfg *config.Config, logger *audit.Logger, stdout io.Writer) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, stop)

	repl := line.New(line.Options{
		Config: cfg,
		Audit:  logger,
		Out:    stdout,
	})
	return repl.Run(ctx)
}

// forwardSignals turns each signal on sigs into an InterruptMsg until done
// is closed. The returned channel closes when the goroutine exits.
func forwardSignals(sigs <-chan os.Signal, done <-chan struct{}, send func(tea.Msg)) <-chan struct{} {
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		for {
			select {
			case sig := <-sigs:
				send(shell.InterruptMsg{Reason: signalReason(sig)})
			case <-done:
				return
			}
		}
	}()
	return exited
}

func signalReason(sig os.Signal) string {
	if sig == syscall.SIGTERM {
		return "terminated"
	}
	return "interrupt"
}
