package logger

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	l.Debug("hidden %d", 1)
	l.Info("shown %d", 2)
	l.Warn("careful")
	l.Error("broken")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, " INFO] shown 2\n")
	assert.Contains(t, out, " WARN] careful\n")
	assert.Contains(t, out, " ERROR] broken\n")
	assert.Equal(t, int64(1), l.Warnings())
	assert.Equal(t, int64(1), l.Errors())
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, true, false)
	assert.True(t, l.VerboseMode)
	assert.Equal(t, LevelDebug, l.Level())

	l.SetLevel("warning")
	assert.False(t, l.VerboseMode)
	l.Info("quiet")
	l.Success("done")
	l.Warn("loud")
	assert.NotContains(t, buf.String(), "quiet")
	assert.NotContains(t, buf.String(), "done")
	assert.Contains(t, buf.String(), "loud")

	l.SetLevel("off")
	l.Error("nothing")
	assert.NotContains(t, buf.String(), "nothing")
	assert.Equal(t, int64(1), l.Errors(), "suppressed errors are still counted")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warn"))
	assert.Equal(t, LevelError, ParseLevel("Error"))
	assert.Equal(t, LevelNone, ParseLevel("none"))
	assert.Equal(t, LevelInfo, ParseLevel("bogus"))
}

func TestLoggerConcurrentWrites(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, false, false)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Warn("worker %d", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, strings.Split(strings.TrimSpace(buf.String()), "\n"), 8)
	assert.Equal(t, int64(8), l.Warnings())
}
