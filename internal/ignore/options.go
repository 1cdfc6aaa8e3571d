package ignore

import (
	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/spf13/afero"
)

// Option functions for configuration
type Option func(*Builder)

// WithFs sets the filesystem rule files are read from.
func WithFs(fs afero.Fs) Option {
	return func(b *Builder) {
		if fs != nil {
			b.fs = fs
		}
	}
}

// WithLogger sets the logger used for rule warnings.
func WithLogger(logger utils.Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithLint enables the gitignore syntax check of each rule file.
func WithLint(enabled bool) Option {
	return func(b *Builder) {
		b.lint = enabled
	}
}
