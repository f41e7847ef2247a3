package copier

import (
	"errors"
	"fmt"
)

// Kind classifies a Problem.
type Kind int

const (
	MissingInput Kind = iota
	UnreadableFile
	MissingClipboardCapability
	ClipboardWriteFailure
	UsageConflict
)

func (k Kind) String() string {
	switch k {
	case MissingInput:
		return "missing input"
	case UnreadableFile:
		return "unreadable file"
	case MissingClipboardCapability:
		return "missing clipboard capability"
	case ClipboardWriteFailure:
		return "clipboard write failure"
	case UsageConflict:
		return "usage conflict"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ErrUsageConflict is reported when --paste or --append is given without
// file arguments.
var ErrUsageConflict = errors.New("--paste/--append require file paths to determine output destinations")

// Problem is one per-item failure. None of them abort the run.
type Problem struct {
	Kind Kind
	Path string
	Err  error
}

func (p Problem) Error() string {
	if p.Path == "" {
		return fmt.Sprintf("%s: %v", p.Kind, p.Err)
	}
	return fmt.Sprintf("%s: %s: %v", p.Kind, p.Path, p.Err)
}

func (p Problem) Unwrap() error { return p.Err }

// Report is the outcome of one Run.
type Report struct {
	Problems []Problem

	// TextCopied is set when aggregated text (stdin or files) was written.
	TextCopied bool
	// ScriptCopied is set when a heredoc script was written.
	ScriptCopied bool
	// Images lists the display paths of images written, in order.
	Images []string
	// Payload is the last text written to the clipboard.
	Payload string
}

// Has reports whether any problem of kind k was recorded.
func (r *Report) Has(k Kind) bool {
	for _, p := range r.Problems {
		if p.Kind == k {
			return true
		}
	}
	return false
}

func (r *Report) add(k Kind, path string, err error) {
	r.Problems = append(r.Problems, Problem{Kind: k, Path: path, Err: err})
}
