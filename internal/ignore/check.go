package ignore

import (
	"strings"
)

// Verdict is the outcome of testing one path against a ScopeChain.
type Verdict struct {
	// Matched is true when at least one rule matched.
	Matched bool
	// Last is the last matching rule in chain order; it decides polarity.
	Last *Rule
	// IgnoredBy lists the patterns of matching non-negated rules.
	IgnoredBy []string
	// IncludedBy lists the patterns of matching negated rules.
	IncludedBy []string
}

// Ignored reports whether the last matching rule ignores the path.
func (v Verdict) Ignored() bool {
	return v.Matched && !v.Last.Negated
}

// Negated reports whether the last matching rule re-includes the path.
func (v Verdict) Negated() bool {
	return v.Matched && v.Last.Negated
}

// Evaluate tests relativePath (relative to the walk root, forward slashes)
// against every scope in the chain. Scopes are visited root to leaf and rules
// in file order, so the last match wins across scope boundaries.
func (c ScopeChain) Evaluate(relativePath string, isDir bool) Verdict {
	var v Verdict
	if relativePath == "" || relativePath == "." {
		return v // Never classify the root itself
	}

	seenIgnore := make(map[string]struct{})
	seenInclude := make(map[string]struct{})

	for _, scope := range c {
		rel, ok := relativeTo(relativePath, scope.RelativeDirectory)
		if !ok {
			continue
		}
		for _, rule := range scope.Rules {
			if !rule.Match(rel, isDir) {
				continue
			}
			v.Matched = true
			v.Last = rule
			if rule.Negated {
				if _, dup := seenInclude[rule.Pattern]; !dup {
					seenInclude[rule.Pattern] = struct{}{}
					v.IncludedBy = append(v.IncludedBy, rule.Pattern)
				}
			} else if _, dup := seenIgnore[rule.Pattern]; !dup {
				seenIgnore[rule.Pattern] = struct{}{}
				v.IgnoredBy = append(v.IgnoredBy, rule.Pattern)
			}
		}
	}

	return v
}

// relativeTo re-slices p (root relative) to be relative to dir (root
// relative). It reports false when p is not below dir.
func relativeTo(p, dir string) (string, bool) {
	if dir == "" || dir == "." {
		return p, true
	}
	if !strings.HasPrefix(p, dir+"/") {
		return "", false
	}
	return p[len(dir)+1:], true
}
