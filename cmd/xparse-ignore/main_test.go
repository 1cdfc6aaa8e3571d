package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootRequiresRoot(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--quiet"}, &stdout, &stderr)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "accepts 1 arg(s), received 0")
}

func TestRootVersionNeedsNoRoot(t *testing.T) {
	t.Cleanup(func() { configuration.ShowVersion = false })
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"--version"}, &stdout, &stderr)

	assert.Equal(t, 0, code)
	assert.Equal(t, "xparse-ignore version "+configuration.Version+"\n", stdout.String())
}
