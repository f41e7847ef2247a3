package clip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"go.klb.dev/copybuffer/internal/imaging"
)

// Selector dispatches payloads to the mechanism matching a Capability.
type Selector struct {
	cap      Capability
	runner   Runner
	text     func(string) error
	library  func(ctx context.Context, mime string, data []byte) error
	dib      func([]byte) error
	terminal io.Writer
	getenv   func(string) string
}

// Option customises a Selector.
type Option func(*Selector)

// WithRunner replaces the helper process runner.
func WithRunner(r Runner) Option { return func(s *Selector) { s.runner = r } }

// WithTextLibrary replaces the atotto/clipboard text writer.
func WithTextLibrary(fn func(string) error) Option { return func(s *Selector) { s.text = fn } }

// WithFallbackLibrary replaces the golang.design/x/clipboard writer.
func WithFallbackLibrary(fn func(ctx context.Context, mime string, data []byte) error) Option {
	return func(s *Selector) { s.library = fn }
}

// WithDIBWriter replaces the Windows CF_DIB writer.
func WithDIBWriter(fn func([]byte) error) Option { return func(s *Selector) { s.dib = fn } }

// WithTerminal sets where OSC 52 sequences go and how TMUX/STY are read.
func WithTerminal(w io.Writer, getenv func(string) string) Option {
	return func(s *Selector) {
		s.terminal = w
		s.getenv = getenv
	}
}

// NewSelector returns a Selector for c using the real mechanisms unless
// overridden by opts.
func NewSelector(c Capability, opts ...Option) *Selector {
	s := &Selector{
		cap:      c,
		runner:   ExecRunner{},
		text:     clipboard.WriteAll,
		library:  libraryWrite,
		dib:      setDIB,
		terminal: defaultTerminal(),
		getenv:   os.Getenv,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Write dispatches p by its concrete type.
func (s *Selector) Write(ctx context.Context, p Payload) error {
	switch p := p.(type) {
	case TextPayload:
		return s.WriteText(ctx, p.Text)
	case ImagePayload:
		return s.WriteImage(ctx, p.Data, p.Type)
	default:
		return fmt.Errorf("%w: unknown payload %T", ErrWriteFailed, p)
	}
}

// WriteText places text on the clipboard.
func (s *Selector) WriteText(ctx context.Context, text string) (err error) {
	defer s.recoverInto(&err)
	p := TextPayload{Text: text}

	switch s.cap.Session {
	case SessionWindows:
		return s.viaTextLibrary(p)
	case SessionMacOS:
		if s.cap.Pbcopy {
			return s.viaHelper(ctx, p, "pbcopy")
		}
	default:
		if s.cap.TextLibrary {
			return s.viaTextLibrary(p)
		}
		if name, args, ok := s.helperFor(p); ok {
			return s.viaHelper(ctx, p, name, args...)
		}
	}
	return s.lastResort(ctx, p)
}

// WriteImage places encoded image data on the clipboard. An empty mime is
// taken as image/png.
func (s *Selector) WriteImage(ctx context.Context, data []byte, mime string) (err error) {
	defer s.recoverInto(&err)
	if mime == "" {
		mime = imaging.MIMEType
	}
	p := ImagePayload{Data: data, Type: mime}

	switch s.cap.Session {
	case SessionWindows:
		return s.viaDIB(p)
	case SessionMacOS:
		if s.cap.Pbcopy {
			return s.viaHelper(ctx, p, "pbcopy")
		}
	default:
		if name, args, ok := s.helperFor(p); ok {
			return s.viaHelper(ctx, p, name, args...)
		}
	}
	return s.lastResort(ctx, p)
}

// helperFor picks the Linux helper and its arguments for p. A Wayland
// session without wl-copy still reaches X helpers through XWayland.
func (s *Selector) helperFor(p Payload) (string, []string, bool) {
	_, isText := p.(TextPayload)
	x := s.cap.Session == SessionX11 || s.cap.Session == SessionWayland
	switch {
	case s.cap.Session == SessionWayland && s.cap.WlCopy:
		return "wl-copy", []string{"--type", p.MIME()}, true
	case x && s.cap.Xclip:
		target := p.MIME()
		if isText {
			target = "UTF8_STRING"
		}
		return "xclip", []string{"-selection", "clipboard", "-t", target}, true
	case x && s.cap.Xsel:
		if isText {
			return "xsel", []string{"--clipboard", "--input"}, true
		}
		return "xsel", []string{"--clipboard", "--input", "--mime-type", p.MIME()}, true
	}
	return "", nil, false
}

func (s *Selector) viaHelper(ctx context.Context, p Payload, name string, args ...string) error {
	if err := s.runner.Run(ctx, p.Bytes(), name, args...); err != nil {
		return fmt.Errorf("%w (session %s, helper %s): %w", ErrWriteFailed, s.cap.Session, name, err)
	}
	logPayload("clipboard written", name, s.cap.Session, p)
	return nil
}

func (s *Selector) viaTextLibrary(p TextPayload) error {
	if err := s.text(p.Text); err != nil {
		return fmt.Errorf("%w (session %s): %s: %w", ErrWriteFailed, s.cap.Session, s.cap.Hint(), err)
	}
	logPayload("clipboard written", "atotto/clipboard", s.cap.Session, p)
	return nil
}

func (s *Selector) viaDIB(p ImagePayload) error {
	img, err := imaging.Decode(p.Data)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	dib, err := imaging.EncodeDIB(img)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	if err := s.dib(dib); err != nil {
		return fmt.Errorf("%w (session %s): %w", ErrWriteFailed, s.cap.Session, err)
	}
	logPayload("clipboard written", "CF_DIB", s.cap.Session, ImagePayload{Data: dib, Type: "image/bmp"})
	return nil
}

func (s *Selector) lastResort(ctx context.Context, p Payload) error {
	if s.cap.FallbackLibrary {
		if err := s.library(ctx, p.MIME(), p.Bytes()); err != nil {
			if !errors.Is(err, ErrWriteFailed) {
				err = fmt.Errorf("%w: %w", ErrWriteFailed, err)
			}
			return fmt.Errorf("session %s, golang.design/x/clipboard: %w", s.cap.Session, err)
		}
		logPayload("clipboard written", "golang.design/x/clipboard", s.cap.Session, p)
		return nil
	}
	if t, ok := p.(TextPayload); ok && s.cap.Terminal {
		if err := writeOSC52(s.terminal, s.getenv, t.Text); err != nil {
			return fmt.Errorf("%w (session %s): %w", ErrWriteFailed, s.cap.Session, err)
		}
		logPayload("clipboard written", "osc52", s.cap.Session, p)
		return nil
	}

	missing := s.cap.Missing()
	if len(missing) == 0 {
		return fmt.Errorf("%w (session %s): %s", ErrNoCapability, s.cap.Session, s.cap.Hint())
	}
	return fmt.Errorf("%w (session %s): missing %s", ErrNoCapability, s.cap.Session, strings.Join(missing, ", "))
}

// recoverInto turns a panic from a platform library into ErrWriteFailed so
// no write can take the process down.
func (s *Selector) recoverInto(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w (session %s): %v", ErrWriteFailed, s.cap.Session, r)
	}
}
