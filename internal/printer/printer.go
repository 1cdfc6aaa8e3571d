// Package printer handles output formatting and display
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/fatih/color"
)

// Printer writes the reported paths to the configured output destination
type Printer struct {
	output     io.Writer
	count      atomic.Int64
	useColors  bool
	jsonOutput bool
}

// New creates a new Printer with default settings
func New() *Printer {
	return &Printer{
		output: os.Stdout,
	}
}

// WithOutput sets the output destination
func (p *Printer) WithOutput(w io.Writer) *Printer {
	p.output = w
	return p
}

// WithColors enables or disables colored output
func (p *Printer) WithColors(enabled bool) *Printer {
	p.useColors = enabled
	return p
}

// WithJSON enables JSON output mode
func (p *Printer) WithJSON(enabled bool) *Printer {
	p.jsonOutput = enabled
	return p
}

// JSONEntry represents one reported entry in JSON output
type JSONEntry struct {
	Path       string            `json:"path"`
	Dir        bool              `json:"dir"`
	Ignored    bool              `json:"ignored"`
	Important  walker.Importance `json:"important"`
	IgnoredBy  []string          `json:"ignored_by,omitempty"`
	IncludedBy []string          `json:"included_by,omitempty"`
	Builtin    bool              `json:"builtin_ignored,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Print writes the entries selected by opts. Plain mode prints one path per
// line; JSON mode prints an array of JSONEntry objects.
func (p *Printer) Print(entries []walker.Entry, opts Options) error {
	selected := Select(entries, opts)

	if p.jsonOutput {
		out := make([]JSONEntry, len(selected))
		for i, e := range selected {
			out[i] = JSONEntry{
				Path:       Format(e, opts),
				Dir:        e.IsDir,
				Ignored:    e.Ignored,
				Important:  e.Important,
				IgnoredBy:  e.IgnoredBy,
				IncludedBy: e.IncludedBy,
				Builtin:    e.BuiltinIgnored,
			}
			if e.Err != nil {
				out[i].Error = e.Err.Error()
			}
		}
		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("printer: marshaling JSON: %w", err)
		}
		p.count.Add(int64(len(out)))
		_, err = fmt.Fprintf(p.output, "%s\n", data)
		return err
	}

	for _, e := range selected {
		line := Format(e, opts)
		if p.useColors && e.IsDir {
			line = color.New(color.FgCyan, color.Bold).Sprint(line)
		}
		if _, err := fmt.Fprintln(p.output, line); err != nil {
			return err
		}
		p.count.Add(1)
	}
	return nil
}

// GetCount returns the number of entries printed
func (p *Printer) GetCount() int64 {
	return p.count.Load()
}
