package summary

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bethropolis/xparse-ignore/internal/backup"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

func sampleEntries() []walker.Entry {
	return []walker.Entry{
		{RelativePath: "src", IsDir: true},
		{RelativePath: "src/main.go"},
		{RelativePath: "node_modules", IsDir: true, Ignored: true, BuiltinIgnored: true},
		{RelativePath: "debug.log", Ignored: true, IgnoredBy: []string{"*.log"}},
		{RelativePath: ".gitignore", Important: walker.BuiltinImportant},
		{RelativePath: "locked", IsDir: true, Err: errors.New("permission denied")},
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, Counts{
		Files:        3,
		Dirs:         3,
		IgnoredFiles: 1,
		IgnoredDirs:  1,
		Important:    1,
		Unreadable:   1,
	}, Count(sampleEntries()))
}

func TestDisplayResults(t *testing.T) {
	logger := &recordingLogger{}
	DisplayResults(logger, sampleEntries(), 1500*time.Microsecond, false)

	assert.Equal(t, []string{
		"Classified 3 files and 3 directories.",
		"Kept 2 files, 2 directories (1 important). Ignored 1 files, 1 directories.",
		"1 directories could not be read.",
		"Walk complete in 2ms.",
	}, logger.lines)

	quiet := &recordingLogger{}
	DisplayResults(quiet, sampleEntries(), time.Second, true)
	assert.Empty(t, quiet.lines)
}

func TestDisplayIgnoredItems(t *testing.T) {
	logger := &recordingLogger{}
	var out bytes.Buffer

	DisplayIgnoredItems(logger, sampleEntries(), &out, false)

	assert.Equal(t, fmt.Sprintf("Ignored FILE: %-50s [%s]\nIgnored DIR : %-50s [%s]\n",
		"debug.log", `ignored by "*.log"`, "node_modules", "ignored (built-in)"), out.String())
	assert.Equal(t, []string{"--- Ignored Items (2) ---", "--- End Ignored Items ---"}, logger.lines)
}

func TestDisplayIgnoredItemsNone(t *testing.T) {
	logger := &recordingLogger{}
	var out bytes.Buffer

	DisplayIgnoredItems(logger, []walker.Entry{{RelativePath: "a"}}, &out, false)

	assert.Empty(t, out.String())
	assert.Contains(t, logger.lines, "No items were ignored.")
}

func TestDisplayBackup(t *testing.T) {
	report := &backup.Report{
		ID:          "run-1",
		Source:      "/src",
		Destination: "/dst",
		Items: []*backup.Item{
			{Path: "a.txt", Status: backup.StatusCopied},
			{Path: "b.txt", Status: backup.StatusFailed, Err: errors.New("boom")},
		},
		Copied:      1,
		Failed:      1,
		CopiedBytes: 2048,
	}
	logger := &recordingLogger{}
	var out bytes.Buffer

	DisplayBackup(logger, report, &out, false)

	assert.Contains(t, logger.lines, "Copied 1 files (2.0 kB), 0 unchanged, 1 failed.")
	assert.Equal(t, fmt.Sprintf("Failed FILE: %-50s [boom]\n", "b.txt"), out.String())

	report.DryRun = true
	report.Planned = 3
	logger = &recordingLogger{}
	DisplayBackup(logger, report, &out, false)
	assert.Contains(t, logger.lines, "Dry run: 3 files would be copied, 0 unchanged.")
}
