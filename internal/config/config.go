// Package config holds the application settings and their command-line flags
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/pflag"
)

// Version is the application version reported by --version
const Version = "1.0.0"

// ErrInvalidConfig is wrapped by every validation error from Finalize
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all application configuration settings
type Config struct {
	// Directory settings
	RootDir string

	// Logging settings
	Verbose    bool
	Quiet      bool
	LogLevel   string
	NoColor    bool
	UseColors  bool
	OutputFile string
	Explain    bool

	// Processing settings
	ShowProgress bool
	Timeout      time.Duration
	NoLint       bool

	// Filtering settings
	CustomIgnore string

	// Output format
	Ignored       bool
	Relative      bool
	PathSeparator string
	FilesOnly     bool
	JSONOutput    bool

	// Backup settings
	BackupTo   string
	BackupOut  string
	MaxWorkers int
	DryRun     bool

	// Version info
	ShowVersion bool
	Version     string
}

// Default returns a Config with every setting at its default value
func Default() *Config {
	return &Config{
		LogLevel:   "INFO",
		MaxWorkers: runtime.NumCPU(),
		Version:    Version,
	}
}

// BindFlags registers the settings shared by every command
func BindFlags(flags *pflag.FlagSet, c *Config) {
	flags.BoolVar(&c.Verbose, "verbose", c.Verbose, "Enable verbose logging (DEBUG, WARN, ERROR)")
	flags.BoolVar(&c.Quiet, "quiet", c.Quiet, "Suppress INFO messages (only show WARN, ERROR)")
	flags.StringVar(&c.LogLevel, "log-level", c.LogLevel, "Set the logging level (DEBUG, INFO, WARN, ERROR, NONE)")
	flags.BoolVar(&c.NoColor, "no-color", c.NoColor, "Disable color output")
	flags.BoolVar(&c.ShowProgress, "progress", c.ShowProgress, "Show progress information on stderr")
	flags.DurationVar(&c.Timeout, "timeout", c.Timeout, "Maximum execution time (e.g., '30s', '5m')")
	flags.StringVar(&c.CustomIgnore, "ignore", c.CustomIgnore, "Extra ignore patterns applied at the root (comma-separated, gitignore syntax)")
	flags.BoolVar(&c.NoLint, "no-lint", c.NoLint, "Do not report gitignore syntax problems")
	flags.BoolVar(&c.ShowVersion, "version", c.ShowVersion, "Show version information")
}

// BindListFlags registers the flags of the path listing command
func BindListFlags(flags *pflag.FlagSet, c *Config) {
	flags.BoolVar(&c.Ignored, "ignored", c.Ignored, "Print ignored paths instead of kept paths")
	flags.BoolVar(&c.Relative, "relative", c.Relative, "Print paths relative to the root directory")
	flags.StringVar(&c.PathSeparator, "path-separator", c.PathSeparator, "Force the printed path separator ('/' or '\\')")
	flags.BoolVar(&c.FilesOnly, "files-only", c.FilesOnly, "Leave directories out of the listing")
	flags.BoolVar(&c.JSONOutput, "json", c.JSONOutput, "Output entries in JSON format")
	flags.StringVar(&c.OutputFile, "output", c.OutputFile, "Output to file instead of stdout")
	flags.BoolVar(&c.Explain, "explain", c.Explain, "Show why each ignored path was ignored (stderr)")
}

// BindBackupFlags registers the flags of the backup command
func BindBackupFlags(flags *pflag.FlagSet, c *Config) {
	flags.StringVar(&c.BackupTo, "to", c.BackupTo, "Backup destination directory (created if missing)")
	flags.StringVar(&c.BackupOut, "out", c.BackupOut, "Write a JSON map of copied source => destination paths to this file")
	flags.IntVar(&c.MaxWorkers, "workers", c.MaxWorkers, "Max number of concurrent copy workers (defaults to number of CPU cores)")
	flags.BoolVar(&c.DryRun, "dry-run", c.DryRun, "List what would be copied without writing anything")
}

// Finalize validates the settings and derives the computed ones
func (c *Config) Finalize() error {
	switch c.PathSeparator {
	case "", "/", "\\":
	default:
		return fmt.Errorf("config: %w: --path-separator must be '/' or '\\', got %q", ErrInvalidConfig, c.PathSeparator)
	}
	if c.MaxWorkers <= 0 {
		return fmt.Errorf("config: %w: --workers must be positive, got %d", ErrInvalidConfig, c.MaxWorkers)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: %w: --timeout must not be negative", ErrInvalidConfig)
	}

	// Determine if colors should be used
	c.UseColors = !c.NoColor && isatty.IsTerminal(os.Stderr.Fd())
	return nil
}

// CustomPatterns splits CustomIgnore into trimmed, non-empty patterns
func (c *Config) CustomPatterns() []string {
	if c.CustomIgnore == "" {
		return nil
	}
	var patterns []string
	for _, pattern := range strings.Split(c.CustomIgnore, ",") {
		if pattern = strings.TrimSpace(pattern); pattern != "" {
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// Separator returns the forced output separator, or 0 for the host default
func (c *Config) Separator() rune {
	if c.PathSeparator == "" {
		return 0
	}
	return rune(c.PathSeparator[0])
}
