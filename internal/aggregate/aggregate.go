// Package aggregate combines text items into one clipboard payload.
package aggregate

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// Options controls how items are decorated.
type Options struct {
	// Header prefixes each item with "=== File: <path> ===".
	Header bool
	// Attachment wraps each item in a chat-style attachment block.
	Attachment bool
	// Paths names the items; decoration needs a path at the same index.
	Paths []string
	// DebugOut, when set, receives the running combination after every item
	// and the final payload after a successful copy.
	DebugOut io.Writer
}

// TextWriter receives the combined text.
type TextWriter interface {
	WriteText(ctx context.Context, text string) error
}

// Format combines contents into a single string. Every item is followed by
// a newline.
func Format(contents []string, opts Options) string {
	var b strings.Builder
	for i, c := range contents {
		if i < len(opts.Paths) {
			path := opts.Paths[i]
			if opts.Header {
				c = "=== File: " + path + " ===\n" + c
			}
			if opts.Attachment {
				c = fmt.Sprintf("[Attached file: %s\nContent:\n```\n%s\n```\n]", path, c)
			}
		}
		b.WriteString(c)
		b.WriteByte('\n')
		if opts.DebugOut != nil {
			fmt.Fprintf(opts.DebugOut, "Debug: Combined contents so far:\n%s\n", b.String())
		}
	}
	return b.String()
}

// Copy formats contents and writes the result through w. The boolean is
// false when the write failed, in which case the error says why.
func Copy(ctx context.Context, w TextWriter, contents []string, opts Options) (string, bool, error) {
	text := Format(contents, opts)
	if err := w.WriteText(ctx, text); err != nil {
		return "", false, fmt.Errorf("copy %d item(s): %w", len(contents), err)
	}
	if opts.DebugOut != nil {
		fmt.Fprintf(opts.DebugOut, "Debug: Final combined contents copied to clipboard:\n%s\n", text)
	}
	return text, true, nil
}
