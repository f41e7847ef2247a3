// Package stats reports size, text and token statistics for files.
package stats

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"go.klb.dev/copybuffer/internal/classify"
)

const fallbackMIME = "application/octet-stream"

// FileStats describes one file. Text fields are only set when Text is
// non-nil.
type FileStats struct {
	Size         int64
	MIMEType     string
	Binary       bool
	Extension    string
	LastModified time.Time

	Text *TextStats
	// TextErr is set when the file is not binary but could not be read.
	TextErr error
	// Tokens is the token count, or -1 when not computed.
	Tokens int
}

// TextStats are counts over the decoded content.
type TextStats struct {
	Lines         int
	Words         int
	Chars         int
	CharsNoSpaces int
	AvgLineLength float64
	AvgWordLength float64

	content string
}

// Collect stats path. A file is binary when its MIME type is known and not
// text/*; otherwise its content is read and counted.
func Collect(path string) (FileStats, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileStats{}, fmt.Errorf("stat %s: %w", path, err)
	}

	mt := classify.MIMEType(path)
	st := FileStats{
		Size:         info.Size(),
		MIMEType:     mt,
		Binary:       mt != "" && !strings.HasPrefix(mt, "text/"),
		Extension:    filepath.Ext(path),
		LastModified: info.ModTime(),
		Tokens:       -1,
	}
	if st.MIMEType == "" {
		st.MIMEType = fallbackMIME
	}
	if st.Binary {
		return st, nil
	}

	data, err := os.ReadFile(path)
	switch {
	case err != nil:
		st.TextErr = err
	case !utf8.Valid(data):
		st.TextErr = fmt.Errorf("%s is not valid UTF-8", path)
	default:
		st.Text = Count(string(data))
	}
	return st, nil
}

// Count computes text statistics for content.
func Count(content string) *TextStats {
	lines := splitLines(content)
	words := strings.Fields(content)

	ts := &TextStats{
		Lines:   len(lines),
		Words:   len(words),
		Chars:   utf8.RuneCountInString(content),
		content: content,
	}
	ts.CharsNoSpaces = utf8.RuneCountInString(strings.NewReplacer(" ", "", "\n", "", "\r", "").Replace(content))
	if len(lines) > 0 {
		ts.AvgLineLength = float64(ts.Chars) / float64(len(lines))
	}
	if len(words) > 0 {
		n := 0
		for _, w := range words {
			n += utf8.RuneCountInString(w)
		}
		ts.AvgWordLength = float64(n) / float64(len(words))
	}
	return ts
}

// splitLines splits on \n, \r\n and \r. A trailing terminator does not
// start a new line.
func splitLines(s string) []string {
	var lines []string
	for len(s) > 0 {
		i := strings.IndexAny(s, "\r\n")
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i])
		if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
			i++
		}
		s = s[i+1:]
	}
	return lines
}

// HumanSize renders n bytes as "N bytes" below 1 KiB and "X.XX KB" above.
func HumanSize(n int64) string {
	if n >= 1024 {
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	}
	return fmt.Sprintf("%d bytes", n)
}
