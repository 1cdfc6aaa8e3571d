package config

import (
	"runtime"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, args ...string) *Config {
	t.Helper()
	c := Default()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(flags, c)
	BindListFlags(flags, c)
	BindBackupFlags(flags, c)
	require.NoError(t, flags.Parse(args))
	return c
}

func TestDefaults(t *testing.T) {
	c := parse(t)
	assert.Empty(t, c.RootDir)
	assert.Equal(t, "INFO", c.LogLevel)
	assert.Equal(t, runtime.NumCPU(), c.MaxWorkers)
	assert.Equal(t, Version, c.Version)
	assert.False(t, c.Ignored)
	assert.NoError(t, c.Finalize())
	assert.Equal(t, rune(0), c.Separator())
}

func TestListFlags(t *testing.T) {
	c := parse(t, "--ignored", "--relative", "--path-separator=\\", "--files-only", "--timeout=2s", "--ignore", " *.bak, ,tmp/ ")
	assert.True(t, c.Ignored)
	assert.True(t, c.Relative)
	assert.True(t, c.FilesOnly)
	assert.Equal(t, 2*time.Second, c.Timeout)
	assert.Equal(t, '\\', c.Separator())
	assert.Equal(t, []string{"*.bak", "tmp/"}, c.CustomPatterns())
	assert.NoError(t, c.Finalize())
}

func TestBackupFlags(t *testing.T) {
	c := parse(t, "--to", "/backup", "--out=copies.json", "--workers", "4", "--dry-run")
	assert.Equal(t, "/backup", c.BackupTo)
	assert.Equal(t, "copies.json", c.BackupOut)
	assert.Equal(t, 4, c.MaxWorkers)
	assert.True(t, c.DryRun)
}

func TestFinalizeRejectsInvalidSettings(t *testing.T) {
	c := parse(t, "--path-separator=:")
	assert.ErrorIs(t, c.Finalize(), ErrInvalidConfig)

	c = parse(t, "--workers=0")
	assert.ErrorIs(t, c.Finalize(), ErrInvalidConfig)

	c = parse(t, "--no-color")
	require.NoError(t, c.Finalize())
	assert.False(t, c.UseColors)
}
