package ignore

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile(t *testing.T) {
	type match struct {
		input   string
		isDir   bool
		matches bool
	}
	tests := []struct {
		name              string
		line              string
		wantNegated       bool
		wantDirectoryOnly bool
		wantAnchored      bool
		wantRegexp        string
		matches           []match
	}{
		{
			name:       "plain name matches at any depth",
			line:       "secret.txt",
			wantRegexp: `^secret\.txt$`,
			matches: []match{
				{input: "secret.txt", matches: true},
				{input: "a/b/secret.txt", matches: true},
				{input: "secret.txt.bak", matches: false},
				{input: "my-secret.txt", matches: false},
			},
		},
		{
			name:         "leading slash anchors to the defining directory",
			line:         "/build",
			wantAnchored: true,
			wantRegexp:   `^build$`,
			matches: []match{
				{input: "build", isDir: true, matches: true},
				{input: "sub/build", isDir: true, matches: false},
			},
		},
		{
			name:              "trailing slash only matches directories",
			line:              "dist/",
			wantDirectoryOnly: true,
			wantRegexp:        `^dist$`,
			matches: []match{
				{input: "dist", isDir: true, matches: true},
				{input: "dist", isDir: false, matches: false},
				{input: "pkg/dist", isDir: true, matches: true},
			},
		},
		{
			name:        "negation",
			line:        "!keep.log",
			wantNegated: true,
			wantRegexp:  `^keep\.log$`,
			matches: []match{
				{input: "keep.log", matches: true},
				{input: "other.log", matches: false},
			},
		},
		{
			name:         "single star stays within a segment",
			line:         "/*.log",
			wantAnchored: true,
			wantRegexp:   `^[^/]*\.log$`,
			matches: []match{
				{input: "a.log", matches: true},
				{input: ".log", matches: true},
				{input: "logs/a.log", matches: false},
			},
		},
		{
			name:         "question mark is one character",
			line:         "/file?.txt",
			wantAnchored: true,
			wantRegexp:   `^file[^/]\.txt$`,
			matches: []match{
				{input: "file1.txt", matches: true},
				{input: "file.txt", matches: false},
				{input: "file12.txt", matches: false},
				{input: "file/.txt", matches: false},
			},
		},
		{
			name:         "double star spans segments",
			line:         "/docs/**",
			wantAnchored: true,
			wantRegexp:   `^docs/.*$`,
			matches: []match{
				{input: "docs/a", matches: true},
				{input: "docs/a/b/c.md", matches: true},
				{input: "docs", isDir: true, matches: false},
			},
		},
		{
			name:         "double star in the middle may match nothing",
			line:         "/a/**/b",
			wantAnchored: true,
			wantRegexp:   `^a/(?:.*/)?b$`,
			matches: []match{
				{input: "a/b", matches: true},
				{input: "a/x/b", matches: true},
				{input: "a/x/y/b", matches: true},
				{input: "a/xb", matches: false},
			},
		},
		{
			name:       "leading double star",
			line:       "**/cache",
			wantRegexp: `^(?:.*/)?cache$`,
			matches: []match{
				{input: "cache", isDir: true, matches: true},
				{input: "x/y/cache", isDir: true, matches: true},
			},
		},
		{
			name:       "regexp meta characters are literal",
			line:       "a+b(1).[x]",
			wantRegexp: `^a\+b\(1\)\.\[x\]$`,
			matches: []match{
				{input: "a+b(1).[x]", matches: true},
				{input: "aab1.x", matches: false},
			},
		},
		{
			name:       "escaped exclamation mark is literal",
			line:       `\!important`,
			wantRegexp: `^!important$`,
			matches: []match{
				{input: "!important", matches: true},
			},
		},
		{
			name:       "escaped hash is literal",
			line:       `\#notes`,
			wantRegexp: `^#notes$`,
			matches: []match{
				{input: "#notes", matches: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := Compile("some/dir", tt.line)
			require.NoError(t, err)

			assert.Equal(t, tt.line, rule.Pattern)
			assert.Equal(t, "some/dir", rule.Directory)
			assert.Equal(t, tt.wantNegated, rule.Negated)
			assert.Equal(t, tt.wantDirectoryOnly, rule.DirectoryOnly)
			assert.Equal(t, tt.wantAnchored, rule.Anchored)
			assert.Equal(t, tt.wantRegexp, rule.matcher.String())

			for _, m := range tt.matches {
				assert.Equal(t, m.matches, rule.Match(m.input, m.isDir), "input %q (dir: %v)", m.input, m.isDir)
			}
		})
	}
}

func TestCompileInvalid(t *testing.T) {
	for _, line := range []string{"!", "/", "!/", "//", "!//"} {
		_, err := Compile("", line)
		assert.True(t, errors.Is(err, ErrInvalidPattern), "line %q: %v", line, err)
	}
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []token{
		{kind: tokenLiteral, text: "a"},
		{kind: tokenDoubleStar},
		{kind: tokenLiteral, text: "/b"},
		{kind: tokenStar},
		{kind: tokenQuestion},
	}, tokenize("a***/b*?"))
	assert.Nil(t, tokenize(""))
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("", "!") })
	assert.NotPanics(t, func() { MustCompile("", "*.tmp") })
}
