package app

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/bethropolis/xparse-ignore/internal/backup"
	"github.com/bethropolis/xparse-ignore/internal/config"
	"github.com/bethropolis/xparse-ignore/internal/walker"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newProject(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/proj/.gitignore":  "*.log\n",
		"/proj/a.txt":       "alpha",
		"/proj/debug.log":   "noise",
		"/proj/src/main.go": "package main",
	}
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

func newApp(t *testing.T, fs afero.Fs, configure func(*config.Config)) (*App, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.RootDir = "/proj"
	cfg.Relative = true
	cfg.PathSeparator = "/"
	if configure != nil {
		configure(cfg)
	}
	require.NoError(t, cfg.Finalize())

	var stdout, stderr bytes.Buffer
	a := New(cfg, WithFs(fs), WithOutput(&stdout), WithErrorOutput(&stderr))
	return a, &stdout, &stderr
}

func TestRunListKeptPaths(t *testing.T) {
	a, stdout, stderr := newApp(t, newProject(t), nil)

	require.NoError(t, a.RunList(context.Background()))
	assert.Equal(t, ".gitignore\na.txt\nsrc\nsrc/main.go\n", stdout.String())
	assert.Contains(t, stderr.String(), "Classified 4 files and 1 directories.")
}

func TestRunListIgnoredPaths(t *testing.T) {
	a, stdout, _ := newApp(t, newProject(t), func(c *config.Config) {
		c.Ignored = true
		c.Explain = true
	})

	require.NoError(t, a.RunList(context.Background()))
	assert.Equal(t, "debug.log\n", stdout.String())
}

func TestRunListExplain(t *testing.T) {
	a, _, stderr := newApp(t, newProject(t), func(c *config.Config) {
		c.Explain = true
	})

	require.NoError(t, a.RunList(context.Background()))
	assert.Contains(t, stderr.String(), "Ignored FILE: debug.log")
	assert.Contains(t, stderr.String(), `[ignored by "*.log"]`)
}

func TestRunListJSON(t *testing.T) {
	a, stdout, _ := newApp(t, newProject(t), func(c *config.Config) {
		c.JSONOutput = true
		c.FilesOnly = true
	})

	require.NoError(t, a.RunList(context.Background()))

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, ".gitignore", entries[0]["path"])
	assert.Equal(t, walker.BuiltinImportant.String(), entries[0]["important"])
}

func TestRunListOutputFile(t *testing.T) {
	fs := newProject(t)
	a, stdout, _ := newApp(t, fs, func(c *config.Config) {
		c.OutputFile = "/out.txt"
		c.Quiet = true
	})

	require.NoError(t, a.RunList(context.Background()))
	assert.Empty(t, stdout.String())

	data, err := afero.ReadFile(fs, "/out.txt")
	require.NoError(t, err)
	assert.Equal(t, ".gitignore\na.txt\nsrc\nsrc/main.go\n", string(data))
}

func TestRunListCustomIgnore(t *testing.T) {
	a, stdout, _ := newApp(t, newProject(t), func(c *config.Config) {
		c.CustomIgnore = "src/, a.txt"
	})

	require.NoError(t, a.RunList(context.Background()))
	assert.Equal(t, ".gitignore\n", stdout.String())
}

func TestRunListInvalidRoot(t *testing.T) {
	a, stdout, _ := newApp(t, newProject(t), func(c *config.Config) {
		c.RootDir = "/missing"
	})

	err := a.RunList(context.Background())
	assert.ErrorIs(t, err, walker.ErrInvalidRoot)
	assert.Empty(t, stdout.String())
}

func TestRunListRequiresRoot(t *testing.T) {
	a, stdout, _ := newApp(t, newProject(t), func(c *config.Config) {
		c.RootDir = ""
	})

	err := a.RunList(context.Background())
	assert.ErrorIs(t, err, walker.ErrInvalidRoot)
	assert.Empty(t, stdout.String())
}

func TestRunListCancelled(t *testing.T) {
	a, _, _ := newApp(t, newProject(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, a.RunList(ctx), context.Canceled)
}

func TestRunListQuiet(t *testing.T) {
	a, _, stderr := newApp(t, newProject(t), func(c *config.Config) {
		c.Quiet = true
	})

	require.NoError(t, a.RunList(context.Background()))
	assert.Empty(t, stderr.String())
}

func TestRunBackup(t *testing.T) {
	fs := newProject(t)
	a, _, stderr := newApp(t, fs, func(c *config.Config) {
		c.BackupTo = "/backup"
		c.BackupOut = "/manifest.json"
		c.MaxWorkers = 2
	})

	require.NoError(t, a.RunBackup(context.Background(), "/proj"))
	assert.Contains(t, stderr.String(), "Backup complete.")

	data, err := afero.ReadFile(fs, "/backup/src/main.go")
	require.NoError(t, err)
	assert.Equal(t, "package main", string(data))

	exists, err := afero.Exists(fs, "/backup/debug.log")
	require.NoError(t, err)
	assert.False(t, exists)

	manifest, err := afero.ReadFile(fs, "/manifest.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"/proj/.gitignore": "/backup/.gitignore",
		"/proj/a.txt": "/backup/a.txt",
		"/proj/src/main.go": "/backup/src/main.go"
	}`, string(manifest))
}

func TestRunBackupDryRun(t *testing.T) {
	fs := newProject(t)
	a, _, stderr := newApp(t, fs, func(c *config.Config) {
		c.BackupTo = "/backup"
		c.BackupOut = "/manifest.json"
		c.DryRun = true
	})

	require.NoError(t, a.RunBackup(context.Background(), "/proj"))
	assert.Contains(t, stderr.String(), "Dry run: 3 files would be copied, 0 unchanged.")

	for _, name := range []string{"/backup", "/manifest.json"} {
		exists, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.False(t, exists, name)
	}
}

func TestRunBackupErrors(t *testing.T) {
	a, _, _ := newApp(t, newProject(t), nil)
	assert.ErrorIs(t, a.RunBackup(context.Background(), "/proj"), ErrMissingDestination)

	a, _, _ = newApp(t, newProject(t), func(c *config.Config) {
		c.BackupTo = "/backup"
	})
	assert.ErrorIs(t, a.RunBackup(context.Background(), "/missing"), backup.ErrInvalidSource)
}
