package clip

import (
	"context"
	"log/slog"
	"unicode/utf8"
)

const previewLen = 120

// logPayload logs a clipboard write at INFO (mechanism, session, type) and at
// DEBUG a text preview up to 120 chars, or the byte size for images.
func logPayload(event, mechanism string, session Session, p Payload) {
	slog.Info(event, "mechanism", mechanism, "session", string(session), "type", p.MIME())

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	switch p := p.(type) {
	case TextPayload:
		slog.Debug("clipboard payload", "mime", p.MIME(), "preview", truncate(p.Text, previewLen))
	default:
		slog.Debug("clipboard payload", "mime", p.MIME(), "size_bytes", len(p.Bytes()))
	}
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for j := range s {
		if i == n {
			return s[:j] + "…"
		}
		i++
	}
	return s
}
