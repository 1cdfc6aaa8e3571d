// Package walker handles directory traversal and classification
package walker

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/ignore"
	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/spf13/afero"
)

// pending is an entry that has been classified but not emitted yet.
type pending struct {
	entry Entry
	// chain is the active scope chain of the entry's parent directory.
	chain ignore.ScopeChain
	// descend is set for kept directories.
	descend bool
}

// walk carries the state of one Walk call.
type walk struct {
	root       string
	options    WalkOptions
	builder    *ignore.Builder
	classifier *ignore.Classifier
	entries    []Entry

	stats struct {
		totalFiles   atomic.Int64
		totalDirs    atomic.Int64
		ignoredFiles atomic.Int64
		ignoredDirs  atomic.Int64
		currentDir   atomic.Value
	}
}

// Walk classifies every entry below rootDir and returns them in emission
// order: a directory comes right before its own subtree and siblings follow
// listing order. Ignored directories that are not important are emitted but
// never descended into.
//
// An invalid root is reported as ErrInvalidRoot before anything is emitted.
// If the context is cancelled, the entries emitted so far are returned
// together with the context error.
func Walk(rootDir string, opts ...Option) ([]Entry, error) {
	startTime := time.Now()

	// Apply options
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	if strings.TrimSpace(rootDir) == "" {
		return nil, fmt.Errorf("walker: %w: empty root directory path", ErrInvalidRoot)
	}

	absRootDir, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("walker: %w: %q: %w", ErrInvalidRoot, rootDir, err)
	}
	root := utils.SlashPath(absRootDir)

	info, err := options.Fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w: %q: %w", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walker: %w: %q is not a directory", ErrInvalidRoot, root)
	}
	children, err := afero.ReadDir(options.Fs, root)
	if err != nil {
		return nil, fmt.Errorf("walker: %w: %q: %w", ErrInvalidRoot, root, err)
	}

	w := &walk{
		root:    root,
		options: options,
		builder: ignore.NewBuilder(
			ignore.WithFs(options.Fs),
			ignore.WithLogger(options.Logger),
			ignore.WithLint(options.Lint),
		),
		classifier: ignore.NewClassifier(options.Fs),
	}
	w.stats.currentDir.Store("")

	// Start progress reporting if enabled
	stopProgress := func() {}
	if options.ProgressFn != nil {
		progressCtx, progressCancel := context.WithCancel(context.Background())
		progressDone := make(chan struct{})
		stopProgress = func() {
			progressCancel()
			<-progressDone
		}

		go func() {
			defer close(progressDone)
			ticker := time.NewTicker(300 * time.Millisecond)
			defer ticker.Stop()

			for {
				select {
				case <-progressCtx.Done():
					return
				case <-ticker.C:
					options.ProgressFn(w.progress())
				}
			}
		}()
	}

	options.Logger.Debug("walker.Walk started. Root: %s, custom rules: %d", root, len(options.CustomRules))

	var chain ignore.ScopeChain
	if len(options.CustomRules) > 0 {
		chain = chain.With(w.builder.BuildLines(root, "", options.CustomRules))
	}

	err = w.run(root, chain, children)

	// The ticker must be gone before the final report
	stopProgress()
	if options.ProgressFn != nil {
		options.ProgressFn(w.progress())
	}
	options.Logger.Debug("Walker: %d entries in %s", len(w.entries), time.Since(startTime))

	return w.entries, err
}

// run drains an explicit work stack so that deep trees do not grow the
// goroutine stack. Items are pushed in reverse listing order.
func (w *walk) run(root string, chain ignore.ScopeChain, children []os.FileInfo) error {
	ctx := w.options.Context
	stack := w.expand(root, "", chain, false, children, nil)

	for len(stack) > 0 {
		// Check context between visits
		select {
		case <-ctx.Done():
			w.options.Logger.Debug("Walker: Received cancellation signal")
			return ctx.Err()
		default:
		}

		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var grandchildren []os.FileInfo
		if item.descend {
			w.stats.currentDir.Store(item.entry.RelativePath)
			var err error
			grandchildren, err = afero.ReadDir(w.options.Fs, item.entry.AbsolutePath)
			if err != nil {
				w.options.Logger.Warn("Skipping directory '%s': %v", item.entry.RelativePath, err)
				item.entry.Err = err
			}
		}

		if err := w.emit(item.entry); err != nil {
			return err
		}

		if item.descend && item.entry.Err == nil {
			forced := item.entry.Important != ImportanceNone
			stack = w.expand(item.entry.AbsolutePath, item.entry.RelativePath, item.chain, forced, grandchildren, stack)
		}
	}

	return nil
}

// expand builds the scope of dir, classifies all of its children and pushes
// them onto stack.
func (w *walk) expand(dir, relDir string, parent ignore.ScopeChain, forced bool, children []os.FileInfo, stack []pending) []pending {
	scope := w.builder.Build(dir, relDir, forced)
	chain := parent.With(scope)

	items := make([]pending, len(children))
	for i, child := range children {
		entry := w.classify(chain, dir, relDir, child.Name(), child.IsDir())
		items[i] = pending{
			entry:   entry,
			chain:   chain,
			descend: entry.IsDir && entry.Kept(),
		}
	}

	for i := len(items) - 1; i >= 0; i-- {
		stack = append(stack, items[i])
	}
	return stack
}

// classify decides KEEP/IGNORE for one child of dir.
func (w *walk) classify(chain ignore.ScopeChain, dir, relDir, name string, isDir bool) Entry {
	rel := utils.JoinSlash(relDir, name)
	entry := Entry{
		AbsolutePath: utils.JoinSlash(dir, name),
		RelativePath: rel,
		Name:         name,
		IsDir:        isDir,
	}

	verdict := chain.Evaluate(rel, isDir)
	builtin := w.classifier.Classify(dir, name, isDir)

	entry.IgnoredBy = verdict.IgnoredBy
	entry.IncludedBy = verdict.IncludedBy
	entry.BuiltinIgnored = builtin.Ignored

	// A matching rule has the final say over the built-in tables
	if verdict.Matched {
		entry.Ignored = verdict.Ignored()
	} else {
		entry.Ignored = builtin.Ignored
	}

	switch {
	case chain.ForcedImportant():
		entry.Important = InheritedFromAncestor
	case builtin.Important:
		entry.Important = BuiltinImportant
	case verdict.Negated():
		entry.Important = NegatedByRule
	}

	w.options.Logger.Debug("Walker: %q (isDir: %v) -> %s", rel, isDir, entry.Reason())
	return entry
}

func (w *walk) emit(entry Entry) error {
	if entry.IsDir {
		w.stats.totalDirs.Add(1)
		if !entry.Kept() {
			w.stats.ignoredDirs.Add(1)
		}
	} else {
		w.stats.totalFiles.Add(1)
		if !entry.Kept() {
			w.stats.ignoredFiles.Add(1)
		}
	}

	w.entries = append(w.entries, entry)
	if w.options.WalkFn != nil {
		return w.options.WalkFn(entry)
	}
	return nil
}

func (w *walk) progress() ProgressStats {
	current, _ := w.stats.currentDir.Load().(string)
	return ProgressStats{
		TotalFiles:   w.stats.totalFiles.Load(),
		TotalDirs:    w.stats.totalDirs.Load(),
		IgnoredFiles: w.stats.ignoredFiles.Load(),
		IgnoredDirs:  w.stats.ignoredDirs.Load(),
		CurrentDir:   current,
	}
}
