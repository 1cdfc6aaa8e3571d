package ignore

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidPattern is returned for ignore lines that cannot become a rule.
var ErrInvalidPattern = errors.New("invalid ignore pattern")

type tokenKind int

const (
	tokenLiteral tokenKind = iota
	tokenStar
	tokenDoubleStar
	tokenQuestion
)

// token is one element of a tokenized glob.
type token struct {
	kind tokenKind
	text string // literal text, empty for wildcards
}

// tokenize splits a glob into literal runs and wildcards.
func tokenize(glob string) []token {
	var tokens []token
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			tokens = append(tokens, token{kind: tokenLiteral, text: literal.String()})
			literal.Reset()
		}
	}

	for i := 0; i < len(glob); i++ {
		switch glob[i] {
		case '*':
			flush()
			if i+1 < len(glob) && glob[i+1] == '*' {
				// Runs of three or more stars collapse into one double star.
				for i+1 < len(glob) && glob[i+1] == '*' {
					i++
				}
				tokens = append(tokens, token{kind: tokenDoubleStar})
			} else {
				tokens = append(tokens, token{kind: tokenStar})
			}
		case '?':
			flush()
			tokens = append(tokens, token{kind: tokenQuestion})
		default:
			literal.WriteByte(glob[i])
		}
	}
	flush()

	return tokens
}

// translate turns a token sequence into an anchored regular expression.
func translate(tokens []token) string {
	var b strings.Builder
	b.WriteString("^")

	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.kind {
		case tokenLiteral:
			b.WriteString(regexp.QuoteMeta(t.text))
		case tokenStar:
			b.WriteString("[^/]*")
		case tokenQuestion:
			b.WriteString("[^/]")
		case tokenDoubleStar:
			// "**/" spans zero or more whole segments.
			if i+1 < len(tokens) && tokens[i+1].kind == tokenLiteral && strings.HasPrefix(tokens[i+1].text, "/") {
				b.WriteString("(?:.*/)?")
				rest := strings.TrimPrefix(tokens[i+1].text, "/")
				b.WriteString(regexp.QuoteMeta(rest))
				i++
				continue
			}
			b.WriteString(".*")
		}
	}

	b.WriteString("$")
	return b.String()
}

// Compile turns one rule-file line into a Rule owned by dir.
//
// The line must already be trimmed and must not be blank or a comment; the
// scope builder filters those out before calling Compile.
func Compile(dir, line string) (*Rule, error) {
	rule := &Rule{
		Pattern:   line,
		Directory: dir,
	}

	pattern := line
	switch {
	case strings.HasPrefix(pattern, `\!`), strings.HasPrefix(pattern, `\#`):
		pattern = pattern[1:]
	case strings.HasPrefix(pattern, "!"):
		rule.Negated = true
		pattern = pattern[1:]
	}

	if strings.HasSuffix(pattern, "/") {
		rule.DirectoryOnly = true
		pattern = strings.TrimSuffix(pattern, "/")
	}

	if strings.HasPrefix(pattern, "/") {
		rule.Anchored = true
		pattern = strings.TrimPrefix(pattern, "/")
	}

	if pattern == "" {
		return nil, fmt.Errorf("ignore: %q: %w: nothing left to match", line, ErrInvalidPattern)
	}

	re, err := regexp.Compile(translate(tokenize(pattern)))
	if err != nil {
		return nil, fmt.Errorf("ignore: %q: %w: %v", line, ErrInvalidPattern, err)
	}
	rule.matcher = re

	return rule, nil
}
