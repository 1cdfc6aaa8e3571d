// Package summary handles display of walk results and statistics
package summary

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/backup"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/dustin/go-humanize"
)

// Logger defines the minimal logging interface required
type Logger interface {
	Info(format string, args ...interface{})
}

// Counts tallies the classification of a walk
type Counts struct {
	Files        int
	Dirs         int
	IgnoredFiles int
	IgnoredDirs  int
	Important    int
	Unreadable   int
}

// Count tallies entries
func Count(entries []walker.Entry) Counts {
	var c Counts
	for _, e := range entries {
		if e.IsDir {
			c.Dirs++
			if !e.Kept() {
				c.IgnoredDirs++
			}
		} else {
			c.Files++
			if !e.Kept() {
				c.IgnoredFiles++
			}
		}
		if e.Important != walker.ImportanceNone {
			c.Important++
		}
		if e.Err != nil {
			c.Unreadable++
		}
	}
	return c
}

// DisplayResults shows the end results of a walk
func DisplayResults(
	logger Logger,
	entries []walker.Entry,
	duration time.Duration,
	quiet bool,
) {
	if quiet {
		return
	}
	c := Count(entries)
	logger.Info("Classified %d files and %d directories.", c.Files, c.Dirs)
	logger.Info("Kept %d files, %d directories (%d important). Ignored %d files, %d directories.",
		c.Files-c.IgnoredFiles, c.Dirs-c.IgnoredDirs, c.Important, c.IgnoredFiles, c.IgnoredDirs)
	if c.Unreadable > 0 {
		logger.Info("%d directories could not be read.", c.Unreadable)
	}
	logger.Info("Walk complete in %v.", duration.Round(time.Millisecond))
}

// DisplayIgnoredItems prints every ignored entry together with the reason
func DisplayIgnoredItems(
	logger Logger,
	entries []walker.Entry,
	output io.Writer,
	quiet bool,
) {
	infoLog := func(format string, args ...interface{}) {
		if !quiet {
			logger.Info(format, args...)
		}
	}

	var ignored []walker.Entry
	for _, e := range entries {
		if !e.Kept() {
			ignored = append(ignored, e)
		}
	}

	infoLog("--- Ignored Items (%d) ---", len(ignored))
	if len(ignored) > 0 {
		// Sort for consistent output
		sort.Slice(ignored, func(i, j int) bool {
			return ignored[i].RelativePath < ignored[j].RelativePath
		})
		for _, e := range ignored {
			typeStr := "FILE"
			if e.IsDir {
				typeStr = "DIR " // Add space for alignment
			}
			fmt.Fprintf(output, "Ignored %s: %-50s [%s]\n", typeStr, e.RelativePath, e.Reason())
		}
	} else {
		infoLog("No items were ignored.")
	}
	infoLog("--- End Ignored Items ---")
}

// DisplayBackup shows the outcome of a backup run and lists its failures
func DisplayBackup(
	logger Logger,
	report *backup.Report,
	output io.Writer,
	quiet bool,
) {
	if !quiet {
		logger.Info("Backup %s: %s -> %s", report.ID, report.Source, report.Destination)
		if report.DryRun {
			logger.Info("Dry run: %d files would be copied, %d unchanged.", report.Planned, report.Unchanged)
		} else {
			logger.Info("Copied %d files (%s), %d unchanged, %d failed.",
				report.Copied, humanize.Bytes(uint64(report.CopiedBytes)), report.Unchanged, report.Failed)
		}
		logger.Info("Scanned in %v, copied in %v.",
			report.ScanDuration.Round(time.Millisecond), report.CopyDuration.Round(time.Millisecond))
	}

	for _, item := range report.Failures() {
		fmt.Fprintf(output, "Failed FILE: %-50s [%v]\n", item.Path, item.Err)
	}
}
