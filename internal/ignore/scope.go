package ignore

import (
	"fmt"
	"path"
	"strings"

	"github.com/bethropolis/xparse-ignore/internal/utils"
	gitignore "github.com/denormal/go-gitignore"
	"github.com/spf13/afero"
)

// Builder loads rule files and turns them into RuleScopes.
type Builder struct {
	fs     afero.Fs
	logger utils.Logger
	lint   bool
}

// NewBuilder creates a Builder. Without options it reads from the OS
// filesystem, logs nothing and lints every rule file.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		fs:     afero.NewOsFs(),
		logger: &utils.NoopLogger{},
		lint:   true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build reads dir/.gitignore and returns the scope it defines. relDir is dir
// relative to the walk root. A missing or unreadable rule file yields a scope
// without rules; read problems are recorded as warnings, never returned.
func (b *Builder) Build(dir, relDir string, forced bool) *RuleScope {
	scope := &RuleScope{
		Directory:         dir,
		RelativeDirectory: relDir,
		ForcedImportant:   forced,
	}

	file := path.Join(dir, RuleFileName)
	info, err := b.fs.Stat(file)
	if err != nil || !info.Mode().IsRegular() {
		return scope
	}

	data, err := afero.ReadFile(b.fs, file)
	if err != nil {
		b.warn(scope, "cannot read rule file %q: %v", file, err)
		return scope
	}

	b.compileInto(scope, file, ParseLines(string(data)))
	return scope
}

// BuildLines returns a scope for dir made of the given pattern lines, as if
// they had been read from a rule file.
func (b *Builder) BuildLines(dir, relDir string, lines []string) *RuleScope {
	scope := &RuleScope{
		Directory:         dir,
		RelativeDirectory: relDir,
	}
	b.compileInto(scope, "custom rules", ParseLines(strings.Join(lines, "\n")))
	return scope
}

func (b *Builder) compileInto(scope *RuleScope, source string, lines []string) {
	if b.lint {
		for _, problem := range lintLines(scope.Directory, lines) {
			b.warn(scope, "%s: %s", source, problem)
		}
	}

	scope.Rules = make([]*Rule, 0, len(lines))
	for _, line := range lines {
		rule, err := Compile(scope.RelativeDirectory, line)
		if err != nil {
			b.warn(scope, "%s: dropping rule: %v", source, err)
			continue
		}
		scope.Rules = append(scope.Rules, rule)
	}
	b.logger.Debug("ignore.Build: %s: %d rules", source, len(scope.Rules))
}

func (b *Builder) warn(scope *RuleScope, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	scope.Warnings = append(scope.Warnings, msg)
	b.logger.Warn("%s", msg)
}

// ParseLines splits rule file content into pattern lines. Lines are trimmed,
// blank lines and comments are dropped and duplicates removed while keeping
// the first occurrence in place.
func ParseLines(content string) []string {
	var lines []string
	seen := make(map[string]struct{})
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if _, dup := seen[line]; dup {
			continue
		}
		seen[line] = struct{}{}
		lines = append(lines, line)
	}
	return lines
}

// lintLines runs the gitignore parser over lines and returns one message per
// syntax problem it reports.
func lintLines(base string, lines []string) (problems []string) {
	if len(lines) == 0 {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			problems = append(problems, fmt.Sprintf("gitignore parser panic: %v", r))
		}
	}()

	content := strings.Join(lines, "\n") + "\n"
	gitignore.New(strings.NewReader(content), base, func(e gitignore.Error) bool {
		pos := e.Position()
		if pos.Line >= 1 && pos.Line <= len(lines) {
			problems = append(problems, fmt.Sprintf("line %q: %v", lines[pos.Line-1], e.Underlying()))
		} else {
			problems = append(problems, e.Error())
		}
		return true
	})

	return problems
}
