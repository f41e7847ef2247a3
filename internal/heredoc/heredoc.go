// Package heredoc renders files as a bash script that recreates them.
package heredoc

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	// Shebang is the first line of every generated script.
	Shebang = "#!/usr/bin/env bash"

	delimiterPrefix = "EOF_CB_"
	shortAttempts   = 10
	shortBytes      = 4
	longBytes       = 16
)

// ErrLengthMismatch is returned when paths and contents differ in length.
var ErrLengthMismatch = errors.New("paths and contents differ in length")

// Generator produces scripts using Rand for delimiters. The zero value reads
// from crypto/rand.
type Generator struct {
	Rand io.Reader
}

// Generate renders a script with the default Generator.
func Generate(paths, contents []string, appendMode bool) (string, error) {
	return Generator{}.Generate(paths, contents, appendMode)
}

// Delimiter picks a terminator absent from content with the default
// Generator.
func Delimiter(content string) (string, error) {
	return Generator{}.Delimiter(content)
}

// Quote single-quotes s for a POSIX shell.
func Quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Generate renders one heredoc block per path. Each file is truncated, or
// appended to when appendMode is set, and its parent directory is created.
// Running the script reproduces every content followed by a newline.
func (g Generator) Generate(paths, contents []string, appendMode bool) (string, error) {
	if len(paths) != len(contents) {
		return "", fmt.Errorf("%w: %d paths, %d contents", ErrLengthMismatch, len(paths), len(contents))
	}
	redir := ">"
	if appendMode {
		redir = ">>"
	}

	lines := []string{Shebang}
	for i, path := range paths {
		delim, err := g.Delimiter(contents[i])
		if err != nil {
			return "", fmt.Errorf("delimiter for %s: %w", path, err)
		}
		q := Quote(path)
		lines = append(lines,
			fmt.Sprintf(`mkdir -p "$(dirname -- %s)"`, q),
			fmt.Sprintf("cat %s %s << '%s'", redir, q, delim),
			contents[i],
			delim,
			"",
		)
	}
	return strings.Join(lines, "\n"), nil
}

// Delimiter returns EOF_CB_ followed by 8 upper-case hex digits that do not
// occur anywhere in content. After 10 collisions it widens to 32 digits.
func (g Generator) Delimiter(content string) (string, error) {
	for range shortAttempts {
		d, err := g.token(shortBytes)
		if err != nil {
			return "", err
		}
		if !strings.Contains(content, d) {
			return d, nil
		}
	}
	return g.token(longBytes)
}

func (g Generator) token(n int) (string, error) {
	r := g.Rand
	if r == nil {
		r = rand.Reader
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return delimiterPrefix + strings.ToUpper(hex.EncodeToString(buf)), nil
}
