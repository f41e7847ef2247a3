// Package discover expands command-line path arguments into the ordered set
// of text and image files to copy.
package discover

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.klb.dev/copybuffer/internal/classify"
	"go.klb.dev/copybuffer/internal/ignore"
)

// ErrMissingInput marks an argument that names nothing on disk.
var ErrMissingInput = errors.New("no such file or directory")

// Options controls how arguments are expanded.
type Options struct {
	// IncludeDirectory requests directory expansion. Without Recursive it
	// makes expansion shallow; when it is unset, directories are expanded
	// recursively.
	IncludeDirectory bool
	Recursive        bool
	// AllowImages keeps images found inside directories. Files named
	// directly are kept whatever their kind.
	AllowImages bool
	// ForceImage classifies every file as an image.
	ForceImage bool
	// BaseDir anchors relative arguments, display paths and the ignore
	// file. Defaults to the working directory.
	BaseDir string
}

// Entry is one file slated for the clipboard.
type Entry struct {
	AbsPath     string
	DisplayPath string
	Kind        classify.Kind
}

// Result holds the outcome of one Discover call. Text and Images are
// independent ordered sequences.
type Result struct {
	Text    []Entry
	Images  []Entry
	Missing []string
	// DirErrors collects traversal and stat failures; none of them stop
	// discovery.
	DirErrors []error
	// Ignored lists direct arguments dropped by the ignore spec.
	Ignored []string
}

// Entries returns text entries followed by image entries.
func (r Result) Entries() []Entry {
	out := make([]Entry, 0, len(r.Text)+len(r.Images))
	out = append(out, r.Text...)
	return append(out, r.Images...)
}

type discoverer struct {
	opts    Options
	baseDir string
	spec    *ignore.Spec
	seen    map[string]struct{}
	res     Result
}

// Discover walks inputs in order. It only fails when the base directory
// cannot be resolved; per-input problems are recorded in the Result.
func Discover(inputs []string, opts Options) (Result, error) {
	baseDir := opts.BaseDir
	if baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return Result{}, fmt.Errorf("working directory: %w", err)
		}
		baseDir = wd
	}
	baseDir, err := canonical(baseDir)
	if err != nil {
		return Result{}, fmt.Errorf("resolve base dir: %w", err)
	}

	spec, err := ignore.Build(baseDir)
	if spec == nil {
		return Result{}, err
	}
	if err != nil {
		slog.Warn("ignore file unreadable, using defaults", "err", err)
	}

	d := &discoverer{
		opts:    opts,
		baseDir: baseDir,
		spec:    spec,
		seen:    make(map[string]struct{}),
	}
	for _, in := range inputs {
		d.visit(in)
	}
	slog.Debug("discovery finished",
		"text", len(d.res.Text),
		"images", len(d.res.Images),
		"missing", len(d.res.Missing),
		"errors", len(d.res.DirErrors))
	return d.res, nil
}

func (d *discoverer) recursive() bool {
	return d.opts.Recursive || !d.opts.IncludeDirectory
}

func (d *discoverer) visit(input string) {
	candidate := input
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(d.baseDir, candidate)
	}
	candidate = filepath.Clean(candidate)

	info, err := os.Stat(candidate)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("input missing", "path", input)
			d.res.Missing = append(d.res.Missing, input)
			return
		}
		d.res.DirErrors = append(d.res.DirErrors, err)
		return
	}

	if info.IsDir() {
		d.expand(input, candidate)
		return
	}

	if d.spec.Matches(resolveOr(candidate)) {
		slog.Debug("input ignored", "path", input)
		d.res.Ignored = append(d.res.Ignored, input)
		return
	}
	d.add(Entry{
		AbsPath:     resolveOr(candidate),
		DisplayPath: d.display(input, candidate),
		Kind:        classify.Classify(candidate, d.opts.ForceImage),
	})
}

// display is relative to the base directory when the candidate lies inside
// it, otherwise the argument as typed.
func (d *discoverer) display(input, candidate string) string {
	rel, err := filepath.Rel(d.baseDir, candidate)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return input
	}
	return rel
}

func (d *discoverer) expand(arg, dir string) {
	root, err := canonical(dir)
	if err != nil {
		d.res.DirErrors = append(d.res.DirErrors, err)
		return
	}

	var found []Entry
	collect := func(path string) {
		if d.spec.Matches(path) {
			return
		}
		info, err := os.Stat(path)
		if err != nil {
			d.res.DirErrors = append(d.res.DirErrors, err)
			return
		}
		if !info.Mode().IsRegular() {
			return
		}
		kind := classify.Classify(path, d.opts.ForceImage)
		if kind == classify.Image && !d.opts.AllowImages {
			return
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		found = append(found, Entry{
			AbsPath:     resolveOr(path),
			DisplayPath: filepath.Join(arg, rel),
			Kind:        kind,
		})
	}

	if d.recursive() {
		err = filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				slog.Debug("walk error", "path", path, "err", walkErr)
				d.res.DirErrors = append(d.res.DirErrors, walkErr)
				if entry != nil && entry.IsDir() && path != root {
					return filepath.SkipDir
				}
				return nil
			}
			if path == root {
				return nil
			}
			if entry.IsDir() {
				if d.spec.MatchesDir(path) {
					return filepath.SkipDir
				}
				return nil
			}
			collect(path)
			return nil
		})
		if err != nil {
			d.res.DirErrors = append(d.res.DirErrors, err)
		}
	} else {
		entries, err := os.ReadDir(root)
		if err != nil {
			d.res.DirErrors = append(d.res.DirErrors, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			collect(filepath.Join(root, entry.Name()))
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		return found[i].DisplayPath < found[j].DisplayPath
	})
	for _, e := range found {
		d.add(e)
	}
}

func (d *discoverer) add(e Entry) {
	if _, dup := d.seen[e.AbsPath]; dup {
		slog.Debug("duplicate skipped", "path", e.DisplayPath)
		return
	}
	d.seen[e.AbsPath] = struct{}{}
	if e.Kind == classify.Image {
		d.res.Images = append(d.res.Images, e)
		return
	}
	d.res.Text = append(d.res.Text, e)
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return resolveOr(abs), nil
}

// resolveOr follows symlinks, returning path unchanged when that fails.
func resolveOr(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		return resolved
	}
	return path
}
