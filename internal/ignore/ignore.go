// Package ignore compiles gitignore-style exclusion patterns rooted at a
// base directory.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// FileName is the repository ignore file read from the base directory.
const FileName = ".gitignore"

// DefaultPatterns are always in effect, whether or not an ignore file exists.
var DefaultPatterns = []string{
	".git",
	".git/",
}

// Spec is an immutable compiled pattern set rooted at a base directory.
type Spec struct {
	baseDir  string
	matcher  gitignore.IgnoreParser
	patterns []string
}

// Build compiles DefaultPatterns plus the lines of baseDir/.gitignore, if
// the file exists. A missing file is not an error. An unreadable file is
// returned as an error alongside a usable Spec holding only the defaults,
// so callers may log and carry on.
func Build(baseDir string) (*Spec, error) {
	abs, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolve base dir %q: %w", baseDir, err)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}

	lines := append([]string(nil), DefaultPatterns...)
	var readErr error

	path := filepath.Join(abs, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		fileLines := strings.Split(string(data), "\n")
		lines = append(lines, fileLines...)
		slog.Debug("loaded ignore file", "path", path, "lines", len(fileLines))
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("no ignore file", "path", path)
	default:
		readErr = fmt.Errorf("read %s: %w", path, err)
	}

	return &Spec{
		baseDir:  abs,
		matcher:  gitignore.CompileIgnoreLines(lines...),
		patterns: lines,
	}, readErr
}

// Patterns returns the raw pattern lines the spec was compiled from.
func (s *Spec) Patterns() []string {
	return append([]string(nil), s.patterns...)
}

// Matches reports whether path is excluded.
func (s *Spec) Matches(path string) bool {
	return s.matcher.MatchesPath(s.relative(path))
}

// MatchesDir reports whether the directory at path is excluded. Directory
// patterns such as "build/" only match with a trailing separator, so the
// directory is tested both with and without it.
func (s *Spec) MatchesDir(path string) bool {
	rel := s.relative(path)
	if rel == "." {
		return false
	}
	return s.matcher.MatchesPath(rel) || s.matcher.MatchesPath(rel+"/")
}

// relative resolves path to absolute form and expresses it relative to the
// base directory, falling back to the absolute path when it lies outside.
func (s *Spec) relative(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(s.baseDir, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(abs)
	}
	return filepath.ToSlash(rel)
}
