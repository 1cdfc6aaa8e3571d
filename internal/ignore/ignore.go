// Package ignore compiles .gitignore-style rules and classifies names.
//
// A rule file contributes one RuleScope per directory. Scopes are stacked
// into a ScopeChain from the walk root down to the directory being examined,
// and a path is tested against every scope of the chain in that order; the
// last matching rule decides whether the path is ignored. Independently of
// rule files, a Classifier marks a few well known names as always ignored
// (VCS folders, package manager caches, lockfiles, logs) or always important
// (the rule file itself, ".xx" pinned names).
package ignore

// MustCompile is like Compile but panics on error. It is meant for patterns
// known at compile time.
func MustCompile(dir, line string) *Rule {
	rule, err := Compile(dir, line)
	if err != nil {
		panic(err)
	}
	return rule
}
