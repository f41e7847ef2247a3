// Package logging configures the global slog logger for the cb binary.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/pwntr/tinter"
)

// Format selects the log output format.
type Format string

const (
	FormatAuto Format = "auto"
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a string to a Format, returning FormatAuto for unknown values.
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "tint", "human":
		return FormatText
	case "json":
		return FormatJSON
	default:
		return FormatAuto
	}
}

// ParseLevel converts a string to a slog.Level. Empty or unknown input
// yields fallback.
func ParseLevel(s string, fallback slog.Level) slog.Level {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return fallback
	}
	return l
}

// IsTTY reports whether w is a terminal.
func IsTTY(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// NewHandler builds the handler Setup installs. Exposed so tests can log
// into a buffer.
func NewHandler(w io.Writer, format Format, level slog.Level) slog.Handler {
	useTint := format == FormatText || (format == FormatAuto && IsTTY(w))
	if useTint {
		return tinter.NewHandler(w, &tinter.Options{
			Level:      level,
			TimeFormat: "15:04:05.000",
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
}

// Setup configures the global slog logger. Call once after flag/viper parsing.
//
// The CLI is quiet by default: per-item problems are reported on stdout by
// the command itself, so the log stream only carries warnings unless
// --debug or --log-level asks for more.
func Setup(format Format, level slog.Level) {
	slog.SetDefault(slog.New(NewHandler(os.Stderr, format, level)))
}
