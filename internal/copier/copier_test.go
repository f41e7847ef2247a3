package copier

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.klb.dev/copybuffer/internal/clip"
	"go.klb.dev/copybuffer/internal/stats"
)

type imageWrite struct {
	data []byte
	mime string
}

type fakeClipboard struct {
	texts  []string
	images []imageWrite
	err    error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	if f.err != nil {
		return f.err
	}
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeClipboard) WriteImage(_ context.Context, data []byte, mime string) error {
	if f.err != nil {
		return f.err
	}
	f.images = append(f.images, imageWrite{data: data, mime: mime})
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	writeFile(t, path, buf.String())
}

func run(t *testing.T, opts Options, cb *fakeClipboard, stdin string) (Report, string) {
	t.Helper()
	var out bytes.Buffer
	rep := Run(context.Background(), opts, Deps{
		Clipboard: cb,
		Stdin:     strings.NewReader(stdin),
		Out:       &out,
	})
	return rep, out.String()
}

func TestStdinIsTrimmedAndCopied(t *testing.T) {
	cb := &fakeClipboard{}
	rep, out := run(t, Options{Verbose: true}, cb, "  hello there \n\n")

	assert.Equal(t, []string{"hello there\n"}, cb.texts)
	assert.True(t, rep.TextCopied)
	assert.Empty(t, rep.Problems)
	assert.Contains(t, out, "STDIN copied to the clipboard successfully!")
	assert.Contains(t, out, "Copied contents:\nhello there\n")
}

func TestPasteWithoutFilesIsUsageConflict(t *testing.T) {
	for _, opts := range []Options{{Paste: true}, {Append: true}} {
		cb := &fakeClipboard{}
		rep, out := run(t, opts, cb, "ignored")

		assert.True(t, rep.Has(UsageConflict))
		require.Len(t, rep.Problems, 1)
		assert.ErrorIs(t, rep.Problems[0], ErrUsageConflict)
		assert.Empty(t, cb.texts)
		assert.Equal(t, "Error: --paste/--append require file paths to determine output destinations.\n", out)
	}
}

func TestFilesWithHeaders(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello\n")
	writeFile(t, filepath.Join(dir, "b.txt"), "  world  ")

	cb := &fakeClipboard{}
	rep, out := run(t, Options{Files: []string{"a.txt", "b.txt"}, IncludeHeader: true, BaseDir: dir}, cb, "")

	require.Len(t, cb.texts, 1)
	assert.Equal(t, "=== File: a.txt ===\nhello\n=== File: b.txt ===\nworld\n", cb.texts[0])
	assert.Equal(t, cb.texts[0], rep.Payload)
	assert.Contains(t, out, "Files copied to clipboard successfully!")
}

func TestMissingFileDoesNotAbortSiblings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "kept")

	cb := &fakeClipboard{}
	rep, out := run(t, Options{Files: []string{"gone.txt", "a.txt"}, BaseDir: dir}, cb, "")

	assert.True(t, rep.Has(MissingInput))
	assert.Equal(t, []string{"kept\n"}, cb.texts)
	assert.Contains(t, out, "Error: File 'gone.txt' not found")
}

func TestDirectoryWithImages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "proj", "main.go"), "package main")
	writePNG(t, filepath.Join(dir, "proj", "logo.png"))
	writeFile(t, filepath.Join(dir, "proj", "broken.jpg"), "not a jpeg")

	cb := &fakeClipboard{}
	rep, out := run(t, Options{Files: []string{"proj"}, AllowImages: true, BaseDir: dir}, cb, "")

	require.Len(t, cb.images, 1)
	assert.Equal(t, "image/png", cb.images[0].mime)
	assert.True(t, bytes.HasPrefix(cb.images[0].data, []byte("\x89PNG\r\n\x1a\n")))
	assert.Equal(t, []string{filepath.Join("proj", "logo.png")}, rep.Images)
	assert.True(t, rep.Has(UnreadableFile))
	assert.Contains(t, out, "Image '"+filepath.Join("proj", "logo.png")+"' copied to clipboard successfully!")
	assert.Equal(t, []string{"package main\n"}, cb.texts)
}

func TestImagesSkippedInDirectoriesWhenDisallowed(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "assets", "logo.png"))

	cb := &fakeClipboard{}
	rep, _ := run(t, Options{Files: []string{"assets"}, BaseDir: dir}, cb, "")

	assert.Empty(t, cb.images)
	assert.Empty(t, cb.texts)
	assert.Empty(t, rep.Problems)
}

func TestPasteWritesHeredocScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "a.txt"), "alpha")

	cb := &fakeClipboard{}
	rep, out := run(t, Options{Files: []string{"src/a.txt"}, Append: true, BaseDir: dir}, cb, "")

	require.Len(t, cb.texts, 1)
	script := cb.texts[0]
	assert.True(t, strings.HasPrefix(script, "#!/usr/bin/env bash\n"))
	assert.Contains(t, script, "cat >> '"+filepath.Join("src", "a.txt")+"' << 'EOF_CB_")
	assert.Contains(t, script, "\nalpha\n")
	assert.True(t, rep.ScriptCopied)
	assert.False(t, rep.TextCopied)
	assert.Contains(t, out, "Heredoc script copied to clipboard successfully!")
}

func TestMissingCapabilitySkipsClipboard(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "one two")

	cb := &fakeClipboard{}
	var out bytes.Buffer
	rep := Run(context.Background(), Options{Files: []string{"a.txt"}, Tokens: true, BaseDir: dir}, Deps{
		Clipboard: cb,
		Missing:   []string{"xclip or xsel"},
		Hint:      "install xclip or xsel",
		Out:       &out,
	})

	assert.True(t, rep.Has(MissingClipboardCapability))
	assert.ErrorIs(t, rep.Problems[0], clip.ErrNoCapability)
	assert.Empty(t, cb.texts)
	assert.Contains(t, out.String(), "Missing dependencies:\n- xclip or xsel\n")
	assert.Contains(t, out.String(), "File Statistics for: a.txt")
}

func TestWriteFailureIsReported(t *testing.T) {
	cb := &fakeClipboard{err: clip.ErrWriteFailed}
	rep, out := run(t, Options{}, cb, "text")

	assert.True(t, rep.Has(ClipboardWriteFailure))
	assert.False(t, rep.TextCopied)
	assert.NotContains(t, out, "successfully")
}

func TestNoCapabilityAtWriteTime(t *testing.T) {
	cb := &fakeClipboard{err: clip.ErrNoCapability}
	rep, _ := run(t, Options{}, cb, "text")

	assert.True(t, rep.Has(MissingClipboardCapability))
}

func TestTokensPrintsStats(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "hello world")
	counter, err := stats.NewCounter()
	require.NoError(t, err)

	cb := &fakeClipboard{}
	var out bytes.Buffer
	Run(context.Background(), Options{Files: []string{"a.txt"}, Tokens: true, BaseDir: dir}, Deps{
		Clipboard: cb,
		Out:       &out,
		Counter:   counter,
	})

	assert.Contains(t, out.String(), "File Statistics for: a.txt")
	assert.Contains(t, out.String(), "Token Count: 2")
	assert.Contains(t, out.String(), "Tokens per Word: 1.00")
}

func TestInvalidUTF8IsUnreadable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.txt"), "caf\xe9")

	cb := &fakeClipboard{}
	rep, out := run(t, Options{Files: []string{"bad.txt"}, BaseDir: dir}, cb, "")

	assert.True(t, rep.Has(UnreadableFile))
	assert.Empty(t, cb.texts)
	assert.Contains(t, out, "Error reading bad.txt")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "usage conflict", UsageConflict.String())
	assert.Equal(t, "missing input", MissingInput.String())
}

func TestIgnoredArgumentIsReported(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".gitignore"), "*.log\n")
	writeFile(t, filepath.Join(dir, "debug.log"), "noise")
	cb := &fakeClipboard{}

	rep, out := run(t, Options{Files: []string{"debug.log"}, BaseDir: dir}, cb, "")

	assert.Contains(t, out, "Skipping 'debug.log': excluded by ignore rules\n")
	assert.Empty(t, cb.texts)
	assert.False(t, rep.TextCopied)
}

func TestDebugEchoesToOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha\n")
	cb := &fakeClipboard{}

	_, out := run(t, Options{Files: []string{"a.txt"}, Debug: true, BaseDir: dir}, cb, "")

	assert.Contains(t, out, "Debug: MIME type for a.txt: text/plain")
	assert.Contains(t, out, "Debug: Read file a.txt\n")
	assert.Contains(t, out, "Debug: Combined contents so far:\nalpha\n")
	assert.Contains(t, out, "Debug: Final combined contents copied to clipboard:\nalpha\n")
	assert.Equal(t, []string{"alpha\n"}, cb.texts)
}

func TestDebugStdin(t *testing.T) {
	cb := &fakeClipboard{}
	_, out := run(t, Options{Debug: true}, cb, " piped \n")
	assert.Contains(t, out, "Debug: Read from STDIN: piped\n")

	_, quiet := run(t, Options{}, &fakeClipboard{}, "piped")
	assert.NotContains(t, quiet, "Debug:")
}
