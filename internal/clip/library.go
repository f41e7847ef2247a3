package clip

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"golang.design/x/clipboard"
)

var (
	clipboardWrite = clipboard.Write
	// servesSelection is true where the library owns the selection from a
	// goroutine of this process (X11), so content vanishes when cb exits.
	servesSelection = runtime.GOOS == "linux"
)

// initLibrary is called from Detect rather than in init() so that
// invocations served by a helper never touch the display libraries.
func initLibrary() error {
	if err := clipboard.Init(); err != nil {
		slog.Debug("fallback clipboard library unavailable", "err", err)
		return err
	}
	return nil
}

// libraryWrite writes through golang.design/x/clipboard. Where the process
// itself serves the selection it blocks, like xclip's background server,
// until another client takes ownership or ctx is cancelled.
func libraryWrite(ctx context.Context, mime string, data []byte) error {
	var format clipboard.Format
	switch {
	case strings.HasPrefix(mime, "text/"):
		format = clipboard.FmtText
	case mime == "image/png":
		format = clipboard.FmtImage
	default:
		return fmt.Errorf("%w: unsupported MIME type: %s", ErrWriteFailed, mime)
	}

	done := clipboardWrite(format, data)
	if done == nil {
		return fmt.Errorf("%w: golang.design/x/clipboard could not take the selection", ErrWriteFailed)
	}
	if !servesSelection {
		return nil
	}

	slog.Warn("serving clipboard from this process until another application copies or cb is interrupted")
	select {
	case <-done:
		slog.Debug("clipboard ownership taken over")
	case <-ctx.Done():
		slog.Debug("stopped serving clipboard", "err", ctx.Err())
	}
	return nil
}
