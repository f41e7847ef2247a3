// Package clip writes payloads to the system clipboard.
//
// A Capability describing the session (Wayland, X11, macOS, Windows) and the
// helpers present is computed once per invocation and handed to a Selector,
// which picks the write mechanism:
//
//	Wayland  wl-copy --type <mime>
//	X11      xclip -selection clipboard -t <mime>, or xsel --clipboard --input
//	macOS    pbcopy
//	Windows  CF_DIB via user32 for images, atotto/clipboard for text
//
// Text on Linux goes through atotto/clipboard first, which drives the same
// helpers. When nothing fits, golang.design/x/clipboard and OSC 52 are the
// last resorts.
package clip

import (
	"context"
	"errors"
)

var (
	// ErrNoCapability means no clipboard mechanism fits the session.
	ErrNoCapability = errors.New("no clipboard mechanism available")
	// ErrWriteFailed means a mechanism was found but the write failed.
	ErrWriteFailed = errors.New("clipboard write failed")
)

// Writer is the narrow interface the rest of the program writes through.
type Writer interface {
	WriteText(ctx context.Context, text string) error
	WriteImage(ctx context.Context, data []byte, mime string) error
}

var _ Writer = (*Selector)(nil)
