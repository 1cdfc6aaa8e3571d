package printer

import (
	"path/filepath"

	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/bethropolis/xparse-ignore/internal/walker"
)

// Options selects and formats the reported paths
type Options struct {
	// Ignored reports ignored, non-important entries instead of kept ones
	Ignored bool
	// Relative reports paths relative to the walk root
	Relative bool
	// Separator forces '/' or '\'; zero means the host separator
	Separator rune
	// FilesOnly leaves directories out
	FilesOnly bool
}

// Wants reports whether e belongs to the selection described by opts
func (opts Options) Wants(e walker.Entry) bool {
	if opts.FilesOnly && e.IsDir {
		return false
	}
	if opts.Ignored {
		return e.Ignored && e.Important == walker.ImportanceNone
	}
	return e.Kept()
}

// Select filters entries keeping the walker's order
func Select(entries []walker.Entry, opts Options) []walker.Entry {
	selected := make([]walker.Entry, 0, len(entries))
	for _, e := range entries {
		if opts.Wants(e) {
			selected = append(selected, e)
		}
	}
	return selected
}

// Format renders the path of e according to opts
func Format(e walker.Entry, opts Options) string {
	sep := opts.Separator
	if sep == 0 {
		sep = filepath.Separator
	}
	p := e.AbsolutePath
	if opts.Relative {
		p = e.RelativePath
	}
	return utils.WithSeparator(p, sep)
}

// Paths filters entries and formats each selected one as a path string
func Paths(entries []walker.Entry, opts Options) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if opts.Wants(e) {
			paths = append(paths, Format(e, opts))
		}
	}
	return paths
}
