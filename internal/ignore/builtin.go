package ignore

import (
	"path"
	"regexp"

	"github.com/spf13/afero"
)

// Names that are always ignored, whatever the rule files say.
var (
	knownIgnoredDirs = map[string]struct{}{
		".git":         {},
		".github":      {},
		"node_modules": {},
		"mobile_sdk":   {},
		"xutils":       {},
	}
	knownIgnoredFiles = map[string]struct{}{
		"yarn.lock":         {},
		"yarn-error.log":    {},
		"package-lock.json": {},
		"npm-debug.log":     {},
	}
	knownImportantDirs  = map[string]struct{}{}
	knownImportantFiles = map[string]struct{}{
		RuleFileName: {},
	}
)

var (
	tempPattern   = regexp.MustCompile(`^z__.*\.xx(\.|$)`)
	pinnedPattern = regexp.MustCompile(`\.xx(\.|$)`)
	logPattern    = regexp.MustCompile(`.*\.log$`)
)

const (
	vendorDir      = "vendor"
	vendorManifest = "composer.json"
)

// Builtin is the rule-file independent classification of one name.
type Builtin struct {
	Ignored   bool
	Important bool
}

// Classifier applies the built-in tables. The filesystem is only consulted
// for the vendor manifest check.
type Classifier struct {
	fs afero.Fs
}

// NewClassifier returns a Classifier reading from fs.
func NewClassifier(fs afero.Fs) *Classifier {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Classifier{fs: fs}
}

// Classify reports the built-in status of name, a child of dir.
func (c *Classifier) Classify(dir, name string, isDir bool) Builtin {
	return Builtin{
		Ignored:   c.ignored(dir, name, isDir),
		Important: important(name, isDir),
	}
}

func (c *Classifier) ignored(dir, name string, isDir bool) bool {
	if isDir {
		if _, ok := knownIgnoredDirs[name]; ok {
			return true
		}
		// vendor is only a dependency folder next to a composer manifest
		if name == vendorDir {
			info, err := c.fs.Stat(path.Join(dir, vendorManifest))
			return err == nil && info.Mode().IsRegular()
		}
		return false
	}

	if _, ok := knownIgnoredFiles[name]; ok {
		return true
	}
	return tempPattern.MatchString(name) || logPattern.MatchString(name)
}

func important(name string, isDir bool) bool {
	if isDir {
		if _, ok := knownImportantDirs[name]; ok {
			return true
		}
		return pinnedPattern.MatchString(name)
	}

	if _, ok := knownImportantFiles[name]; ok {
		return true
	}
	// temporary files win over pinned ones
	return pinnedPattern.MatchString(name) && !tempPattern.MatchString(name)
}
