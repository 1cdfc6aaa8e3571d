// Package walker handles directory traversal and classification
package walker

import (
	"errors"
	"fmt"
)

// ErrInvalidRoot is returned when the walk root is missing, not a directory
// or cannot be listed. No entries are produced in that case.
var ErrInvalidRoot = errors.New("invalid root directory")

// WalkFunc is called for every entry in emission order. A non-nil error
// stops the walk and is returned by Walk.
type WalkFunc func(entry Entry) error

// Importance tells why an entry is kept regardless of ignore rules.
type Importance int

const (
	ImportanceNone Importance = iota
	// BuiltinImportant marks names from the built-in important tables.
	BuiltinImportant
	// NegatedByRule marks paths whose last matching rule is a negation.
	NegatedByRule
	// InheritedFromAncestor marks descendants of an important directory.
	InheritedFromAncestor
)

var importanceNames = map[Importance]string{
	ImportanceNone:        "none",
	BuiltinImportant:      "builtin",
	NegatedByRule:         "negated",
	InheritedFromAncestor: "inherited",
}

func (i Importance) String() string {
	if name, ok := importanceNames[i]; ok {
		return name
	}
	return fmt.Sprintf("Importance(%d)", int(i))
}

// MarshalText implements encoding.TextMarshaler.
func (i Importance) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// Entry is the classification of one visited path. Paths use forward
// slashes; RelativePath is relative to the walk root.
type Entry struct {
	AbsolutePath string `json:"absolute_path"`
	RelativePath string `json:"relative_path"`
	Name         string `json:"name"`
	IsDir        bool   `json:"is_dir"`

	Ignored        bool       `json:"ignored"`
	IgnoredBy      []string   `json:"ignored_by,omitempty"`
	IncludedBy     []string   `json:"included_by,omitempty"`
	BuiltinIgnored bool       `json:"builtin_ignored,omitempty"`
	Important      Importance `json:"important"`

	// Err is set on a kept directory that could not be listed.
	Err error `json:"-"`
}

// Kept reports the final KEEP/IGNORE decision: important entries are always
// kept, otherwise an entry is kept when it is not ignored.
func (e Entry) Kept() bool {
	return e.Important != ImportanceNone || !e.Ignored
}

// Reason describes why the entry was ignored or forced in.
func (e Entry) Reason() string {
	switch {
	case e.Important != ImportanceNone:
		return "important (" + e.Important.String() + ")"
	case !e.Ignored:
		return "kept"
	case len(e.IgnoredBy) > 0:
		return fmt.Sprintf("ignored by %q", e.IgnoredBy[len(e.IgnoredBy)-1])
	default:
		return "ignored (built-in)"
	}
}
