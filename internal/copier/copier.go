// Package copier runs one cb invocation: it reads stdin or discovers files,
// writes text, images or a heredoc script to the clipboard, and optionally
// prints file statistics.
package copier

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"go.klb.dev/copybuffer/internal/aggregate"
	"go.klb.dev/copybuffer/internal/classify"
	"go.klb.dev/copybuffer/internal/clip"
	"go.klb.dev/copybuffer/internal/discover"
	"go.klb.dev/copybuffer/internal/heredoc"
	"go.klb.dev/copybuffer/internal/imaging"
	"go.klb.dev/copybuffer/internal/stats"
)

// Options mirrors the command-line flags.
type Options struct {
	Files []string

	IncludeHeader bool
	Attachment    bool
	Paste         bool
	Append        bool

	IncludeDirectory bool
	Recursive        bool
	AllowImages      bool
	ForceImage       bool

	Verbose bool
	Debug   bool
	Tokens  bool

	BaseDir string
}

func (o Options) script() bool { return o.Paste || o.Append }

// Deps are the effects Run needs. Clipboard and Out are required.
type Deps struct {
	Clipboard clip.Writer
	// Missing lists clipboard prerequisites that are absent. When non-empty
	// no clipboard write is attempted.
	Missing []string
	Hint    string

	Stdin io.Reader
	Out   io.Writer

	// Counter counts tokens for --tokens; one is loaded on demand when nil.
	Counter *stats.Counter
	// Heredoc renders scripts; the zero value uses crypto/rand.
	Heredoc heredoc.Generator
}

type runner struct {
	opts Options
	deps Deps
	rep  Report
}

// Run executes one invocation. Per-item failures are printed and recorded
// in the Report; they never stop the remaining items.
func Run(ctx context.Context, opts Options, deps Deps) Report {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	r := &runner{opts: opts, deps: deps}

	if len(opts.Files) == 0 && opts.script() {
		r.printf("Error: %s.\n", ErrUsageConflict)
		r.rep.add(UsageConflict, "", ErrUsageConflict)
		return r.rep
	}

	canWrite := r.checkCapability()

	if len(opts.Files) == 0 {
		if canWrite {
			r.copyStdin(ctx)
		}
		return r.rep
	}

	res, err := discover.Discover(opts.Files, discover.Options{
		IncludeDirectory: opts.IncludeDirectory,
		Recursive:        opts.Recursive,
		AllowImages:      opts.AllowImages,
		ForceImage:       opts.ForceImage,
		BaseDir:          opts.BaseDir,
	})
	if err != nil {
		r.printf("Error: %v\n", err)
		r.rep.add(UnreadableFile, opts.BaseDir, err)
		return r.rep
	}
	r.reportDiscovery(res)

	if canWrite {
		r.copyImages(ctx, res.Images)
		r.copyFiles(ctx, res.Text)
	}
	if opts.Tokens {
		r.printStats(res.Entries())
	}
	return r.rep
}

func (r *runner) printf(format string, args ...any) {
	fmt.Fprintf(r.deps.Out, format, args...)
}

// debugOut is Out under --debug and nil otherwise.
func (r *runner) debugOut() io.Writer {
	if r.opts.Debug {
		return r.deps.Out
	}
	return nil
}

func (r *runner) debugf(format string, args ...any) {
	if r.opts.Debug {
		r.printf(format, args...)
	}
}

func (r *runner) checkCapability() bool {
	if len(r.deps.Missing) == 0 {
		return true
	}
	r.printf("Missing dependencies:\n")
	for _, dep := range r.deps.Missing {
		r.printf("- %s\n", dep)
	}
	if r.deps.Hint != "" {
		r.printf("Hint: %s\n", r.deps.Hint)
	}
	r.rep.add(MissingClipboardCapability, "",
		fmt.Errorf("%w: %s", clip.ErrNoCapability, strings.Join(r.deps.Missing, ", ")))
	return false
}

func (r *runner) copyStdin(ctx context.Context) {
	data, err := io.ReadAll(r.deps.Stdin)
	if err != nil {
		r.printf("Error copying from STDIN: %v\n", err)
		r.rep.add(UnreadableFile, "-", err)
		return
	}
	content := strings.TrimSpace(string(data))
	slog.Debug("read from stdin", "bytes", len(content))
	r.debugf("Debug: Read from STDIN: %s\n", content)

	text, ok, err := aggregate.Copy(ctx, r.deps.Clipboard, []string{content}, aggregate.Options{
		Header:     r.opts.IncludeHeader,
		Attachment: r.opts.Attachment,
		DebugOut:   r.debugOut(),
	})
	if !ok {
		r.writeFailed("-", err)
		return
	}
	r.rep.TextCopied = true
	r.rep.Payload = text
	r.printf("STDIN copied to the clipboard successfully!\n")
	if r.opts.Verbose {
		r.printf("Copied contents:\n%s\n", text)
	}
}

func (r *runner) reportDiscovery(res discover.Result) {
	for _, m := range res.Missing {
		r.printf("Error: File '%s' not found\n", m)
		r.rep.add(MissingInput, m, discover.ErrMissingInput)
	}
	for _, err := range res.DirErrors {
		r.printf("Error: %v\n", err)
		var pe *fs.PathError
		path := ""
		if errors.As(err, &pe) {
			path = pe.Path
		}
		r.rep.add(UnreadableFile, path, err)
	}
	for _, p := range res.Ignored {
		slog.Debug("skipped ignored file", "path", p)
		r.printf("Skipping '%s': excluded by ignore rules\n", p)
	}
}

// copyImages writes images one after another; each write replaces the
// previous clipboard content.
func (r *runner) copyImages(ctx context.Context, images []discover.Entry) {
	for _, e := range images {
		if ctx.Err() != nil {
			return
		}
		data, err := imaging.ToClipboardImage(e.AbsPath)
		if err != nil {
			r.printf("Error: Unable to open image '%s': %v\n", e.DisplayPath, err)
			r.rep.add(UnreadableFile, e.DisplayPath, err)
			continue
		}
		if err := r.deps.Clipboard.WriteImage(ctx, data, imaging.MIMEType); err != nil {
			r.writeFailed(e.DisplayPath, err)
			continue
		}
		r.rep.Images = append(r.rep.Images, e.DisplayPath)
		r.printf("Image '%s' copied to clipboard successfully!\n", e.DisplayPath)
	}
}

func (r *runner) copyFiles(ctx context.Context, entries []discover.Entry) {
	var paths, contents []string
	for _, e := range entries {
		data, err := os.ReadFile(e.AbsPath)
		if err == nil && !utf8.Valid(data) {
			err = errors.New("content is not valid UTF-8")
		}
		if err != nil {
			r.printf("Error reading %s: %v\n", e.DisplayPath, err)
			r.rep.add(UnreadableFile, e.DisplayPath, err)
			continue
		}
		slog.Debug("read file", "path", e.DisplayPath, "bytes", len(data))
		r.debugf("Debug: MIME type for %s: %s\n", e.DisplayPath, classify.MIMEType(e.AbsPath))
		r.debugf("Debug: Read file %s\n", e.DisplayPath)
		paths = append(paths, e.DisplayPath)
		contents = append(contents, strings.TrimSpace(string(data)))
	}
	if len(contents) == 0 || ctx.Err() != nil {
		return
	}

	if r.opts.script() {
		r.copyScript(ctx, paths, contents)
		return
	}

	text, ok, err := aggregate.Copy(ctx, r.deps.Clipboard, contents, aggregate.Options{
		Header:     r.opts.IncludeHeader,
		Attachment: r.opts.Attachment,
		Paths:      paths,
		DebugOut:   r.debugOut(),
	})
	if !ok {
		r.writeFailed("", err)
		return
	}
	r.rep.TextCopied = true
	r.rep.Payload = text
	r.printf("Files copied to clipboard successfully!\n")
	if r.opts.Verbose {
		r.printf("Copied contents:\n%s\n", text)
	}
}

func (r *runner) copyScript(ctx context.Context, paths, contents []string) {
	script, err := r.deps.Heredoc.Generate(paths, contents, r.opts.Append)
	if err != nil {
		r.printf("Error: %v\n", err)
		r.rep.add(ClipboardWriteFailure, "", err)
		return
	}
	if err := r.deps.Clipboard.WriteText(ctx, script); err != nil {
		r.writeFailed("", err)
		return
	}
	r.rep.ScriptCopied = true
	r.rep.Payload = script
	if r.opts.Verbose {
		r.printf("Copied heredoc script:\n%s\n", script)
	}
	r.printf("Heredoc script copied to clipboard successfully!\n")
}

func (r *runner) writeFailed(path string, err error) {
	kind := ClipboardWriteFailure
	if errors.Is(err, clip.ErrNoCapability) {
		kind = MissingClipboardCapability
	}
	if path != "" {
		r.printf("Error copying %s to clipboard: %v\n", path, err)
	} else {
		r.printf("Error copying to clipboard: %v\n", err)
	}
	r.rep.add(kind, path, err)
}

func (r *runner) printStats(entries []discover.Entry) {
	counter := r.deps.Counter
	if counter == nil {
		c, err := stats.NewCounter()
		if err != nil {
			slog.Warn("token counting unavailable", "err", err)
		} else {
			counter = c
		}
	}

	for _, e := range entries {
		st, err := stats.Collect(e.AbsPath)
		if err != nil {
			r.printf("Error processing %s: %v\n", e.DisplayPath, err)
			r.rep.add(UnreadableFile, e.DisplayPath, err)
			continue
		}
		if counter != nil {
			counter.CountFile(&st)
		}
		r.printf("%s\n", stats.Format(e.DisplayPath, st))
	}
}
