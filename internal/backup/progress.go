package backup

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Progress is a snapshot of a running backup
type Progress struct {
	Total       int
	Done        int
	Active      int
	Copied      int
	Unchanged   int
	Failed      int
	Bytes       int64
	TotalBytes  int64
	Elapsed     time.Duration
	CurrentFile string
}

// Percent returns the share of finished files, 0 to 100
func (p Progress) Percent() float64 {
	if p.Total == 0 {
		return 100
	}
	return float64(p.Done) * 100 / float64(p.Total)
}

// ETA estimates the remaining time from the byte throughput so far. It
// returns zero when there is nothing to base an estimate on.
func (p Progress) ETA() time.Duration {
	if p.Bytes <= 0 || p.Elapsed <= 0 || p.TotalBytes <= p.Bytes {
		return 0
	}
	rate := float64(p.Bytes) / p.Elapsed.Seconds()
	remaining := float64(p.TotalBytes-p.Bytes) / rate
	return time.Duration(remaining * float64(time.Second)).Round(time.Second)
}

// String renders the progress as a single status line
func (p Progress) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Files %d/%d (%.0f%%) ~ %s/%s", p.Done, p.Total, p.Percent(),
		humanize.Bytes(uint64(p.Bytes)), humanize.Bytes(uint64(p.TotalBytes)))
	fmt.Fprintf(&b, " | active:%d, unchanged:%d, copied:%d", p.Active, p.Unchanged, p.Copied)
	if p.Failed > 0 {
		fmt.Fprintf(&b, ", failed:%d", p.Failed)
	}
	if eta := p.ETA(); eta > 0 {
		fmt.Fprintf(&b, " | eta %s", eta)
	}
	return b.String()
}
