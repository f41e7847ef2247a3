// Package classify decides whether a path is copied as text or as an image.
package classify

import (
	"mime"
	"path/filepath"
	"strings"
)

// Kind tags a discovered file.
type Kind int

const (
	Text Kind = iota
	Image
)

func (k Kind) String() string {
	switch k {
	case Image:
		return "image"
	default:
		return "text"
	}
}

// extraTypes fills gaps in Go's builtin table so classification does not
// depend on the host's /etc/mime.types.
var extraTypes = map[string]string{
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".ico":  "image/vnd.microsoft.icon",
	".heic": "image/heic",
	".avif": "image/avif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",

	".txt":  "text/plain",
	".md":   "text/markdown",
	".csv":  "text/csv",
	".go":   "text/x-go",
	".py":   "text/x-python",
	".sh":   "text/x-sh",
	".c":    "text/x-c",
	".h":    "text/x-c",
	".yaml": "text/yaml",
	".yml":  "text/yaml",
	".toml": "text/x-toml",
}

func init() {
	for ext, typ := range extraTypes {
		_ = mime.AddExtensionType(ext, typ)
	}
}

// MIMEType infers a content type from the path's extension. It returns ""
// when the extension is absent or unknown.
func MIMEType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	typ := mime.TypeByExtension(ext)
	if typ == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(typ); err == nil {
		return base
	}
	return typ
}

// Classify returns Image for image/* types and Text for everything else,
// including unknown types. forceImage overrides inference.
func Classify(path string, forceImage bool) Kind {
	if forceImage || strings.HasPrefix(MIMEType(path), "image/") {
		return Image
	}
	return Text
}
