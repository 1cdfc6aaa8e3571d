// Package backup copies the kept files of a source tree into a destination
package backup

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/spf13/afero"
)

var (
	// ErrInvalidSource is returned when the source is not an existing directory.
	ErrInvalidSource = errors.New("invalid backup source directory")
	// ErrInvalidDestination is returned when the destination cannot be used.
	ErrInvalidDestination = errors.New("invalid backup destination directory")
)

// Status is the outcome of one backup item
type Status int

const (
	StatusPending Status = iota
	StatusCopied
	StatusUnchanged
	StatusFailed
	// StatusPlanned marks items a dry run would copy.
	StatusPlanned
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusCopied:
		return "copied"
	case StatusUnchanged:
		return "unchanged"
	case StatusFailed:
		return "failed"
	case StatusPlanned:
		return "planned"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Item is one regular file scheduled for backup. Items are owned by a single
// worker while they are processed.
type Item struct {
	// Path is relative to both the source and the destination root.
	Path   string
	Size   int64
	Status Status
	Err    error

	bytes atomic.Int64
}

// Bytes returns how many bytes of the item have been written so far
func (i *Item) Bytes() int64 {
	return i.bytes.Load()
}

// Report summarises one backup run
type Report struct {
	ID          string
	Source      string
	Destination string
	Items       []*Item
	DryRun      bool

	Copied     int
	Unchanged  int
	Failed     int
	Planned    int
	TotalBytes int64

	// CopiedBytes counts bytes actually written to the destination.
	CopiedBytes int64

	ScanDuration time.Duration
	CopyDuration time.Duration
}

// Manifest maps the absolute source path of every copied or unchanged file to
// its absolute destination path.
func (r *Report) Manifest() map[string]string {
	manifest := make(map[string]string, len(r.Items))
	for _, item := range r.Items {
		if item.Status == StatusCopied || item.Status == StatusUnchanged {
			manifest[utils.JoinSlash(r.Source, item.Path)] = utils.JoinSlash(r.Destination, item.Path)
		}
	}
	return manifest
}

// Failures returns the items that could not be backed up
func (r *Report) Failures() []*Item {
	var failed []*Item
	for _, item := range r.Items {
		if item.Status == StatusFailed {
			failed = append(failed, item)
		}
	}
	return failed
}

// ProgressCallback receives periodic progress updates
type ProgressCallback func(progress Progress)

// Options configures a backup run
type Options struct {
	Logger      utils.Logger
	Fs          afero.Fs
	Context     context.Context
	Workers     int
	DryRun      bool
	CustomRules []string
	WalkOptions []walker.Option
	ProgressFn  ProgressCallback
}

// defaultOptions returns the default backup options
func defaultOptions() Options {
	return Options{
		Logger:  &utils.NoopLogger{},
		Fs:      afero.NewOsFs(),
		Context: context.Background(),
		Workers: 30,
	}
}

// Option is a functional option for configuring Options
type Option func(*Options)

// WithLogger sets a custom logger
func WithLogger(logger utils.Logger) Option {
	return func(o *Options) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithFs sets the filesystem for both source and destination
func WithFs(fs afero.Fs) Option {
	return func(o *Options) {
		if fs != nil {
			o.Fs = fs
		}
	}
}

// WithContext sets the context for cancellation
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Context = ctx
		}
	}
}

// WithWorkers sets the maximum number of concurrent copies
func WithWorkers(workers int) Option {
	return func(o *Options) {
		if workers > 0 {
			o.Workers = workers
		}
	}
}

// WithDryRun plans the backup without writing anything
func WithDryRun(enabled bool) Option {
	return func(o *Options) {
		o.DryRun = enabled
	}
}

// WithCustomRules adds ignore patterns evaluated at the source root
func WithCustomRules(patterns []string) Option {
	return func(o *Options) {
		o.CustomRules = patterns
	}
}

// WithWalkOptions passes extra options to the source walk
func WithWalkOptions(opts ...walker.Option) Option {
	return func(o *Options) {
		o.WalkOptions = append(o.WalkOptions, opts...)
	}
}

// WithProgress adds a progress callback function
func WithProgress(fn ProgressCallback) Option {
	return func(o *Options) {
		o.ProgressFn = fn
	}
}
