package walker

import (
	"context"

	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/spf13/afero"
)

// WalkOptions configures the behavior of the Walk function
type WalkOptions struct {
	Logger      utils.Logger
	Fs          afero.Fs
	Context     context.Context
	CustomRules []string
	Lint        bool
	WalkFn      WalkFunc
	ProgressFn  ProgressCallback
}

// ProgressCallback is a function that receives progress updates
type ProgressCallback func(stats ProgressStats)

// ProgressStats holds statistics about the walk progress
type ProgressStats struct {
	TotalFiles   int64  // Files classified so far
	TotalDirs    int64  // Directories classified so far
	IgnoredFiles int64  // Files classified as IGNORE
	IgnoredDirs  int64  // Directories pruned
	CurrentDir   string // Directory being listed (relative)
}

// defaultOptions returns the default walk options
func defaultOptions() WalkOptions {
	return WalkOptions{
		Logger:  &utils.NoopLogger{},
		Fs:      afero.NewOsFs(),
		Context: context.Background(),
		Lint:    true,
	}
}

// Option is a functional option for configuring WalkOptions
type Option func(*WalkOptions)

// WithLogger sets a custom logger for the walker
func WithLogger(logger utils.Logger) Option {
	return func(opts *WalkOptions) {
		if logger != nil {
			opts.Logger = logger
		}
	}
}

// WithFs sets the filesystem to walk
func WithFs(fs afero.Fs) Option {
	return func(opts *WalkOptions) {
		if fs != nil {
			opts.Fs = fs
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(opts *WalkOptions) {
		if ctx != nil {
			opts.Context = ctx
		}
	}
}

// WithCustomRules adds patterns evaluated at the root before the root rule file
func WithCustomRules(patterns []string) Option {
	return func(opts *WalkOptions) {
		opts.CustomRules = patterns
	}
}

// WithLint enables or disables the syntax check of rule files
func WithLint(enabled bool) Option {
	return func(opts *WalkOptions) {
		opts.Lint = enabled
	}
}

// WithWalkFunc streams every entry to fn as it is emitted
func WithWalkFunc(fn WalkFunc) Option {
	return func(opts *WalkOptions) {
		opts.WalkFn = fn
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *WalkOptions) {
		o.ProgressFn = fn
	}
}
