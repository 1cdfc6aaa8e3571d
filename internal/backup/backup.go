package backup

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/utils"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/google/uuid"
	"github.com/spf13/afero"
)

// run carries the state of one backup.
type run struct {
	source      string
	destination string
	options     Options
	items       []*Item
	totalBytes  int64
	startTime   time.Time

	stats struct {
		done      atomic.Int64
		copied    atomic.Int64
		unchanged atomic.Int64
		failed    atomic.Int64
		active    atomic.Int64
		bytes     atomic.Int64
		current   atomic.Value
	}
}

// Run copies every kept regular file below source to the same relative path
// below destination. Files whose destination already holds identical content
// are left untouched. Failures of individual files are recorded on the
// report items and do not stop the run.
func Run(source, destination string, opts ...Option) (*Report, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}

	src, err := resolveSource(options.Fs, source)
	if err != nil {
		return nil, err
	}
	dst, err := resolveDestination(options.Fs, src, destination, options.DryRun)
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:          uuid.NewString(),
		Source:      src,
		Destination: dst,
		DryRun:      options.DryRun,
	}
	options.Logger.Info("Backup %s: %s -> %s", report.ID, src, dst)

	scanStart := time.Now()
	items, err := scan(src, dst, options)
	report.ScanDuration = time.Since(scanStart)
	if err != nil {
		return report, fmt.Errorf("backup: scanning %q: %w", src, err)
	}
	report.Items = items
	for _, item := range items {
		report.TotalBytes += item.Size
	}
	options.Logger.Debug("Backup: %d files to process, scanned in %s", len(items), report.ScanDuration)

	r := &run{
		source:      src,
		destination: dst,
		options:     options,
		items:       items,
		totalBytes:  report.TotalBytes,
		startTime:   time.Now(),
	}
	r.stats.current.Store("")
	r.copyAll()
	report.CopyDuration = time.Since(r.startTime)
	report.CopiedBytes = r.stats.bytes.Load()

	for _, item := range items {
		switch item.Status {
		case StatusCopied:
			report.Copied++
		case StatusUnchanged:
			report.Unchanged++
		case StatusFailed:
			report.Failed++
			options.Logger.Warn("Backup failed for '%s': %v", item.Path, item.Err)
		case StatusPlanned:
			report.Planned++
		}
	}

	if err := options.Context.Err(); err != nil {
		return report, err
	}
	return report, nil
}

func resolveSource(fsys afero.Fs, source string) (string, error) {
	abs, err := filepath.Abs(source)
	if err != nil {
		return "", fmt.Errorf("backup: %w: %q: %w", ErrInvalidSource, source, err)
	}
	src := utils.SlashPath(abs)
	info, err := fsys.Stat(src)
	if err != nil {
		return "", fmt.Errorf("backup: %w: %q: %w", ErrInvalidSource, src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("backup: %w: %q is not a directory", ErrInvalidSource, src)
	}
	return src, nil
}

// resolveDestination creates the destination unless dryRun is set.
func resolveDestination(fsys afero.Fs, src, destination string, dryRun bool) (string, error) {
	abs, err := filepath.Abs(destination)
	if err != nil {
		return "", fmt.Errorf("backup: %w: %q: %w", ErrInvalidDestination, destination, err)
	}
	dst := utils.SlashPath(abs)
	if dst == src {
		return "", fmt.Errorf("backup: %w: %q is the source directory", ErrInvalidDestination, dst)
	}

	info, err := fsys.Stat(dst)
	switch {
	case err == nil && !info.IsDir():
		return "", fmt.Errorf("backup: %w: %q is not a directory", ErrInvalidDestination, dst)
	case err == nil:
		return dst, nil
	case !errors.Is(err, fs.ErrNotExist):
		return "", fmt.Errorf("backup: %w: %q: %w", ErrInvalidDestination, dst, err)
	case dryRun:
		return dst, nil
	}

	if err := fsys.MkdirAll(dst, 0o755); err != nil {
		return "", fmt.Errorf("backup: %w: creating %q: %w", ErrInvalidDestination, dst, err)
	}
	return dst, nil
}

// scan walks the source and collects its kept regular files. A destination
// nested in the source is excluded from the walk.
func scan(src, dst string, options Options) ([]*Item, error) {
	rules := append([]string(nil), options.CustomRules...)
	if rel, ok := strings.CutPrefix(dst, src+"/"); ok {
		rules = append(rules, "/"+rel+"/")
	}

	walkOpts := []walker.Option{
		walker.WithFs(options.Fs),
		walker.WithLogger(options.Logger),
		walker.WithContext(options.Context),
	}
	walkOpts = append(walkOpts, options.WalkOptions...)
	if len(rules) > 0 {
		walkOpts = append(walkOpts, walker.WithCustomRules(rules))
	}

	entries, err := walker.Walk(src, walkOpts...)
	if err != nil {
		return nil, err
	}

	var items []*Item
	for _, entry := range entries {
		if entry.IsDir || !entry.Kept() {
			continue
		}
		info, err := lstat(options.Fs, entry.AbsolutePath)
		if err != nil {
			items = append(items, &Item{Path: entry.RelativePath, Status: StatusFailed, Err: err})
			continue
		}
		if !info.Mode().IsRegular() {
			options.Logger.Debug("Backup: skipping '%s': not a regular file", entry.RelativePath)
			continue
		}
		items = append(items, &Item{Path: entry.RelativePath, Size: info.Size()})
	}
	return items, nil
}

// copyAll fans the pending items out to a bounded set of workers.
func (r *run) copyAll() {
	pending := make(chan *Item, len(r.items))
	for _, item := range r.items {
		if item.Status == StatusPending {
			pending <- item
			continue
		}
		r.stats.done.Add(1)
		r.stats.failed.Add(1)
	}
	close(pending)

	// Start progress reporting if enabled
	stopProgress := func() {}
	if r.options.ProgressFn != nil {
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
					r.options.ProgressFn(r.progress())
				}
			}
		}()
	}

	workers := r.options.Workers
	if workers > len(pending) {
		workers = len(pending)
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go r.worker(i, pending, &wg)
	}
	wg.Wait()

	// The ticker must be gone before the final report
	stopProgress()
	if r.options.ProgressFn != nil {
		r.options.ProgressFn(r.progress())
	}
}

func (r *run) worker(id int, pending <-chan *Item, wg *sync.WaitGroup) {
	defer wg.Done()
	r.options.Logger.Debug("Worker %d: Started", id)

	for item := range pending {
		select {
		case <-r.options.Context.Done():
			r.options.Logger.Debug("Worker %d: Received cancellation signal", id)
			return
		default:
		}

		r.stats.active.Add(1)
		r.stats.current.Store(item.Path)
		r.process(item)
		r.stats.active.Add(-1)
		r.stats.done.Add(1)

		switch item.Status {
		case StatusCopied:
			r.stats.copied.Add(1)
		case StatusUnchanged:
			r.stats.unchanged.Add(1)
		case StatusFailed:
			r.stats.failed.Add(1)
		}
	}

	r.options.Logger.Debug("Worker %d: Finished", id)
}

// process decides the outcome of one item and performs the copy.
func (r *run) process(item *Item) {
	fsys := r.options.Fs
	src := utils.JoinSlash(r.source, item.Path)
	dst := utils.JoinSlash(r.destination, item.Path)

	info, err := lstat(fsys, dst)
	switch {
	case err == nil && !info.Mode().IsRegular():
		item.Status, item.Err = StatusFailed, fmt.Errorf("destination %q is not a regular file", dst)
		return
	case err == nil:
		same, err := sameContent(fsys, src, dst)
		if err != nil {
			item.Status, item.Err = StatusFailed, err
			return
		}
		if same {
			r.options.Logger.Debug("Backup: '%s' unchanged", item.Path)
			item.Status = StatusUnchanged
			return
		}
	case !errors.Is(err, fs.ErrNotExist):
		item.Status, item.Err = StatusFailed, err
		return
	}

	if r.options.DryRun {
		item.Status = StatusPlanned
		return
	}

	if err := r.copyFile(item, src, dst); err != nil {
		item.Status, item.Err = StatusFailed, err
		return
	}
	r.options.Logger.Debug("Backup: copied '%s' (%d bytes)", item.Path, item.Bytes())
	item.Status = StatusCopied
}

// copyFile writes src to a temporary sibling of dst and renames it into place
// so that an interrupted copy never leaves a truncated destination.
func (r *run) copyFile(item *Item, src, dst string) (err error) {
	fsys := r.options.Fs

	in, err := fsys.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("reading source info: %w", err)
	}

	if err := fsys.MkdirAll(path.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating destination directory: %w", err)
	}

	tmp := path.Join(path.Dir(dst), ".xparse-"+uuid.NewString()+".tmp")
	out, err := fsys.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = fsys.Remove(tmp)
		}
	}()

	counter := &byteCounter{item: &item.bytes, total: &r.stats.bytes}
	if _, err = io.Copy(io.MultiWriter(out, counter), in); err != nil {
		out.Close()
		return fmt.Errorf("copying: %w", err)
	}
	if err = out.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err = fsys.Chmod(tmp, info.Mode().Perm()); err != nil {
		return fmt.Errorf("setting file mode: %w", err)
	}
	if err = fsys.Rename(tmp, dst); err != nil {
		return fmt.Errorf("moving into place: %w", err)
	}
	return nil
}

func (r *run) progress() Progress {
	current, _ := r.stats.current.Load().(string)
	return Progress{
		Total:       len(r.items),
		Done:        int(r.stats.done.Load()),
		Active:      int(r.stats.active.Load()),
		Copied:      int(r.stats.copied.Load()),
		Unchanged:   int(r.stats.unchanged.Load()),
		Failed:      int(r.stats.failed.Load()),
		Bytes:       r.stats.bytes.Load(),
		TotalBytes:  r.totalBytes,
		Elapsed:     time.Since(r.startTime),
		CurrentFile: current,
	}
}

// byteCounter feeds copy progress into the item and run counters.
type byteCounter struct {
	item  *atomic.Int64
	total *atomic.Int64
}

func (c *byteCounter) Write(p []byte) (int, error) {
	c.item.Add(int64(len(p)))
	c.total.Add(int64(len(p)))
	return len(p), nil
}

// lstat does not follow symlinks when the filesystem supports it.
func lstat(fsys afero.Fs, name string) (os.FileInfo, error) {
	if lstater, ok := fsys.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(name)
		return info, err
	}
	return fsys.Stat(name)
}

func sameContent(fsys afero.Fs, a, b string) (bool, error) {
	infoA, err := fsys.Stat(a)
	if err != nil {
		return false, err
	}
	infoB, err := fsys.Stat(b)
	if err != nil {
		return false, err
	}
	if infoA.Size() != infoB.Size() {
		return false, nil
	}

	sumA, err := checksum(fsys, a)
	if err != nil {
		return false, err
	}
	sumB, err := checksum(fsys, b)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}

func checksum(fsys afero.Fs, name string) ([sha256.Size]byte, error) {
	var sum [sha256.Size]byte
	f, err := fsys.Open(name)
	if err != nil {
		return sum, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return sum, fmt.Errorf("hashing %q: %w", name, err)
	}
	copy(sum[:], h.Sum(nil))
	return sum, nil
}
