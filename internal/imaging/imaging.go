// Package imaging normalises input images to the single raster form handed
// to the clipboard.
//
// Every input is re-encoded as PNG. Animated inputs are flattened to their
// first frame: most applications reading image data from the clipboard
// accept only a single frame.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"

	"golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MIMEType is the canonical clipboard image type.
const MIMEType = "image/png"

// bmpFileHeaderLen is the size of BITMAPFILEHEADER, which CF_DIB omits.
const bmpFileHeaderLen = 14

// ErrUnreadable marks an image that could not be opened or decoded.
var ErrUnreadable = errors.New("unreadable image")

// Load opens and decodes the image at path. It returns the decoded image
// and the name of the format it was stored in.
func Load(path string) (image.Image, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return img, format, nil
}

// Decode decodes in-memory image data of any registered format.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return img, nil
}

// EncodePNG encodes img as PNG.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// ToClipboardImage loads the image at path and returns its PNG encoding.
func ToClipboardImage(path string) ([]byte, error) {
	img, _, err := Load(path)
	if err != nil {
		return nil, err
	}
	return EncodePNG(img)
}

// EncodeDIB returns img as a device-independent bitmap: a 24-bit BMP
// without its file header, the layout CF_DIB expects. Transparency is
// flattened onto white.
func EncodeDIB(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, flatten(img)); err != nil {
		return nil, fmt.Errorf("encode bmp: %w", err)
	}
	data := buf.Bytes()
	if len(data) <= bmpFileHeaderLen {
		return nil, fmt.Errorf("encode bmp: short output (%d bytes)", len(data))
	}
	return data[bmpFileHeaderLen:], nil
}

func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(dst, b, img, b.Min, draw.Over)
	return dst
}
