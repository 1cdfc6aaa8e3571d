// Package setup provides initialization and configuration functions
package setup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/bethropolis/xparse-ignore/internal/backup"
	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/spf13/afero"
)

// InfoLogger wraps the Info method for status updates
type InfoLogger func(format string, args ...interface{})

// WalkerConfig holds all parameters needed to configure a directory walker
type WalkerConfig struct {
	Fs             afero.Fs
	CustomPatterns []string
	Lint           bool
	ShowProgress   bool
	Context        context.Context
	Quiet          bool
	Logger         utils.Logger
	// Progress receives the progress line, os.Stderr when nil
	Progress io.Writer
}

// BackupConfig holds the parameters of a backup run
type BackupConfig struct {
	WalkerConfig
	Workers int
	DryRun  bool
}

// ConfigureWalker builds the walker options described by cfg
func ConfigureWalker(cfg WalkerConfig, infoLog InfoLogger) []walker.Option {
	walkOptions := []walker.Option{
		walker.WithLint(cfg.Lint),
	}
	if cfg.Logger != nil {
		walkOptions = append(walkOptions, walker.WithLogger(cfg.Logger))
	}
	if cfg.Fs != nil {
		walkOptions = append(walkOptions, walker.WithFs(cfg.Fs))
	}
	if cfg.Context != nil {
		walkOptions = append(walkOptions, walker.WithContext(cfg.Context))
	}

	if len(cfg.CustomPatterns) > 0 {
		infoLog("Using custom ignore patterns: %v", cfg.CustomPatterns)
		walkOptions = append(walkOptions, walker.WithCustomRules(cfg.CustomPatterns))
	}

	// Add progress option if enabled
	if cfg.ShowProgress && !cfg.Quiet {
		debug(cfg.Logger, "Progress display enabled")
		out := progressWriter(cfg)
		walkOptions = append(walkOptions, walker.WithProgress(func(stats walker.ProgressStats) {
			// Print with carriage return to overwrite previous line
			fmt.Fprintf(out, "\rScanning: %-40s | Files: %d (%d ignored) | Dirs: %d (%d pruned)",
				truncate(stats.CurrentDir, 40),
				stats.TotalFiles, stats.IgnoredFiles,
				stats.TotalDirs, stats.IgnoredDirs)
		}))
	}

	return walkOptions
}

// ConfigureBackup builds the backup options described by cfg. The walker
// settings apply to the scan of the source tree.
func ConfigureBackup(cfg BackupConfig, infoLog InfoLogger) []backup.Option {
	backupOptions := []backup.Option{
		backup.WithWorkers(cfg.Workers),
		backup.WithDryRun(cfg.DryRun),
		backup.WithWalkOptions(walker.WithLint(cfg.Lint)),
	}
	if cfg.Logger != nil {
		backupOptions = append(backupOptions, backup.WithLogger(cfg.Logger))
	}
	if cfg.Fs != nil {
		backupOptions = append(backupOptions, backup.WithFs(cfg.Fs))
	}
	if cfg.Context != nil {
		backupOptions = append(backupOptions, backup.WithContext(cfg.Context))
	}

	if len(cfg.CustomPatterns) > 0 {
		infoLog("Using custom ignore patterns: %v", cfg.CustomPatterns)
		backupOptions = append(backupOptions, backup.WithCustomRules(cfg.CustomPatterns))
	}
	if cfg.DryRun {
		infoLog("Dry run: nothing will be written.")
	}

	if cfg.ShowProgress && !cfg.Quiet {
		debug(cfg.Logger, "Progress display enabled")
		out := progressWriter(cfg.WalkerConfig)
		backupOptions = append(backupOptions, backup.WithProgress(func(progress backup.Progress) {
			fmt.Fprintf(out, "\r%s", progress)
		}))
	}

	return backupOptions
}

func progressWriter(cfg WalkerConfig) io.Writer {
	if cfg.Progress != nil {
		return cfg.Progress
	}
	return os.Stderr
}

func debug(logger utils.Logger, format string, args ...interface{}) {
	if logger != nil {
		logger.Debug(format, args...)
	}
}

// truncate shortens p from the left so it fits in width columns
func truncate(p string, width int) string {
	if len(p) <= width {
		return p
	}
	return "..." + p[len(p)-(width-3):]
}
