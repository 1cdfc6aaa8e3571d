// Package app wires configuration, walker, printer and backup together for
// the command-line tool
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/backup"
	"github.com/bethropolis/xparse-ignore/internal/config"
	"github.com/bethropolis/xparse-ignore/internal/logger"
	"github.com/bethropolis/xparse-ignore/internal/printer"
	"github.com/bethropolis/xparse-ignore/internal/setup"
	"github.com/bethropolis/xparse-ignore/internal/summary"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/fatih/color"
	"github.com/spf13/afero"
)

// ErrMissingDestination is returned by RunBackup when --to was not given
var ErrMissingDestination = errors.New("backup destination is required (--to)")

// App encapsulates the main application functionality
type App struct {
	cfg    *config.Config
	log    *logger.Logger
	fs     afero.Fs
	Output io.Writer
	Errout io.Writer
}

// Option configures an App
type Option func(*App)

// WithFs sets the filesystem the app works on
func WithFs(fs afero.Fs) Option {
	return func(a *App) {
		a.fs = fs
	}
}

// WithOutput sets where listings go when no output file is configured
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.Output = w
	}
}

// WithErrorOutput sets where logs, progress and explanations go
func WithErrorOutput(w io.Writer) Option {
	return func(a *App) {
		a.Errout = w
	}
}

// New creates a new App instance
func New(cfg *config.Config, opts ...Option) *App {
	a := &App{
		cfg:    cfg,
		fs:     afero.NewOsFs(),
		Output: os.Stdout,
		Errout: os.Stderr,
	}
	for _, opt := range opts {
		opt(a)
	}

	// Configure color globally
	color.NoColor = !cfg.UseColors

	log := logger.New(a.Errout, cfg.Verbose, cfg.UseColors)
	// An explicit log level overrides the verbose and quiet flags
	if level := logger.ParseLevel(cfg.LogLevel); level != logger.LevelInfo {
		log.WithLevel(level)
	} else if cfg.Quiet {
		log.WithLevel(logger.LevelWarn)
	}
	a.log = log

	return a
}

// infoLog prints info messages unless quiet is set
func (a *App) infoLog(format string, args ...interface{}) {
	if !a.cfg.Quiet {
		a.log.Info(format, args...)
	}
}

// withTimeout derives the run context from the configured timeout
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.cfg.Timeout > 0 {
		return context.WithTimeout(ctx, a.cfg.Timeout)
	}
	return context.WithCancel(ctx)
}

func (a *App) walkerConfig(ctx context.Context) setup.WalkerConfig {
	return setup.WalkerConfig{
		Fs:             a.fs,
		CustomPatterns: a.cfg.CustomPatterns(),
		Lint:           !a.cfg.NoLint,
		ShowProgress:   a.cfg.ShowProgress,
		Context:        ctx,
		Quiet:          a.cfg.Quiet,
		Logger:         a.log,
		Progress:       a.Errout,
	}
}

// timeoutError replaces a deadline error with a readable message
func (a *App) timeoutError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("timeout of %v reached: %w", a.cfg.Timeout, err)
	}
	return err
}

// endProgress terminates the carriage-return progress line
func (a *App) endProgress() {
	if a.cfg.ShowProgress && !a.cfg.Quiet {
		fmt.Fprintln(a.Errout)
	}
}

// RunList walks the configured root and prints the selected paths
func (a *App) RunList(ctx context.Context) (err error) {
	startTime := time.Now() // Start timer for overall execution

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	a.log.Debug("Color output: %v", a.cfg.UseColors)
	a.log.Debug("Directory: %s", a.cfg.RootDir)
	a.log.Debug("Lint rule files: %v", !a.cfg.NoLint)

	walkOptions := setup.ConfigureWalker(a.walkerConfig(ctx), a.infoLog)

	a.infoLog("Scanning directory: %s", a.cfg.RootDir)
	entries, err := walker.Walk(a.cfg.RootDir, walkOptions...)
	a.endProgress()
	if err != nil {
		return a.timeoutError(err)
	}

	output := a.Output
	if a.cfg.OutputFile != "" {
		file, ferr := a.fs.Create(a.cfg.OutputFile)
		if ferr != nil {
			return fmt.Errorf("failed to create output file: %w", ferr)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("failed to close output file: %w", cerr)
			}
		}()
		output = file
	}

	// --- Create the printer ---
	p := printer.New().WithOutput(output)
	if a.cfg.JSONOutput {
		a.log.Debug("JSON output mode enabled")
		p.WithJSON(true)
	} else {
		p.WithColors(a.cfg.UseColors && a.cfg.OutputFile == "")
	}

	opts := printer.Options{
		Ignored:   a.cfg.Ignored,
		Relative:  a.cfg.Relative,
		Separator: a.cfg.Separator(),
		FilesOnly: a.cfg.FilesOnly,
	}
	if err := p.Print(entries, opts); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	a.log.Debug("Printed %d paths", p.GetCount())

	if a.cfg.Explain {
		summary.DisplayIgnoredItems(a.log, entries, a.Errout, a.cfg.Quiet)
	}
	summary.DisplayResults(a.log, entries, time.Since(startTime), a.cfg.Quiet)
	if warnings := a.log.Warnings(); warnings > 0 {
		a.infoLog("%d warnings were reported.", warnings)
	}
	return nil
}

// RunBackup copies the kept files of source into the configured destination
func (a *App) RunBackup(ctx context.Context, source string) error {
	if a.cfg.BackupTo == "" {
		return ErrMissingDestination
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	backupOptions := setup.ConfigureBackup(setup.BackupConfig{
		WalkerConfig: a.walkerConfig(ctx),
		Workers:      a.cfg.MaxWorkers,
		DryRun:       a.cfg.DryRun,
	}, a.infoLog)

	a.infoLog("Backing up %s to %s with %d workers.", source, a.cfg.BackupTo, a.cfg.MaxWorkers)
	report, err := backup.Run(source, a.cfg.BackupTo, backupOptions...)
	a.endProgress()
	if report == nil {
		return a.timeoutError(err)
	}

	summary.DisplayBackup(a.log, report, a.Errout, a.cfg.Quiet)

	if a.cfg.BackupOut != "" && !report.DryRun {
		if werr := backup.WriteManifest(a.fs, a.cfg.BackupOut, report); werr != nil {
			return werr
		}
		a.infoLog("Manifest written to %s", a.cfg.BackupOut)
	}
	if err != nil {
		return a.timeoutError(err)
	}
	if report.Failed == 0 {
		a.log.Success("Backup complete.")
	}
	return nil
}
