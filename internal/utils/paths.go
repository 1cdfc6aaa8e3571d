package utils

import (
	"path"
	"path/filepath"
	"strings"
)

// SlashPath cleans p and converts the host separator to forward slashes.
// Other characters, including '\' on POSIX hosts, are left alone.
func SlashPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// JoinSlash joins a forward-slash directory and a child name. An empty
// directory yields the name itself, which keeps root-relative paths bare.
func JoinSlash(dir, name string) string {
	if dir == "" || dir == "." {
		return name
	}
	if strings.HasSuffix(dir, "/") {
		return dir + name
	}
	return dir + "/" + name
}

// WithSeparator rewrites every '/' in p to sep. p must use forward slashes.
func WithSeparator(p string, sep rune) string {
	if sep == '/' {
		return p
	}
	return strings.ReplaceAll(p, "/", string(sep))
}
