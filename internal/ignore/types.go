package ignore

import (
	"regexp"
	"strings"
)

// RuleFileName is the per-directory rule file read by the scope builder.
const RuleFileName = ".gitignore"

// Rule is one compiled line of a rule file. It is immutable after Compile.
type Rule struct {
	// Pattern is the raw line as it appeared in the rule file.
	Pattern string
	// Directory is the defining directory, relative to the walk root.
	Directory string

	Negated       bool
	DirectoryOnly bool
	Anchored      bool

	matcher *regexp.Regexp
}

// Match reports whether the rule applies to rel, a path relative to the
// rule's defining directory.
func (r *Rule) Match(rel string, isDir bool) bool {
	if r.DirectoryOnly && !isDir {
		return false
	}
	if r.Anchored {
		return r.matcher.MatchString(rel)
	}

	// Unanchored rules may match at any depth below their directory.
	for {
		if r.matcher.MatchString(rel) {
			return true
		}
		i := strings.IndexByte(rel, '/')
		if i < 0 {
			return false
		}
		rel = rel[i+1:]
	}
}

// RuleScope holds the rules one directory's rule file contributes.
type RuleScope struct {
	// Directory is the absolute directory path with forward slashes.
	Directory string
	// RelativeDirectory is Directory relative to the walk root ("" for the root).
	RelativeDirectory string
	// Rules are kept in file order.
	Rules []*Rule
	// ForcedImportant marks every descendant of Directory as important.
	ForcedImportant bool
	// Warnings collects non-fatal problems found while building the scope.
	Warnings []string
}

// ScopeChain is the ordered list of scopes from the walk root down to the
// directory being classified.
type ScopeChain []*RuleScope

// With returns a new chain extended by scope. The receiver is not modified,
// so sibling subtrees never share a backing array.
func (c ScopeChain) With(scope *RuleScope) ScopeChain {
	next := make(ScopeChain, len(c), len(c)+1)
	copy(next, c)
	return append(next, scope)
}

// ForcedImportant reports whether any scope in the chain is forced important.
func (c ScopeChain) ForcedImportant() bool {
	for _, s := range c {
		if s.ForcedImportant {
			return true
		}
	}
	return false
}
