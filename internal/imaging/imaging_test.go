package imaging

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestToClipboardImageFromJPEG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, solid(1, 1, color.RGBA{R: 255, A: 255}), nil))
	require.NoError(t, f.Close())

	data, err := ToClipboardImage(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngSignature))
}

func TestAnimatedGIFFlattensToFirstFrame(t *testing.T) {
	pal := color.Palette{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}}
	red := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	blue := image.NewPaletted(image.Rect(0, 0, 2, 2), pal)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			red.Set(x, y, color.RGBA{R: 255, A: 255})
			blue.Set(x, y, color.RGBA{B: 255, A: 255})
		}
	}
	path := filepath.Join(t.TempDir(), "anim.gif")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, gif.EncodeAll(f, &gif.GIF{
		Image: []*image.Paletted{red, blue},
		Delay: []int{10, 10},
	}))
	require.NoError(t, f.Close())

	data, err := ToClipboardImage(path)
	require.NoError(t, err)

	out, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	r, g, b, _ := out.At(0, 0).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestLoadFailures(t *testing.T) {
	dir := t.TempDir()

	_, err := ToClipboardImage(filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnreadable))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	fake := filepath.Join(dir, "fake.png")
	require.NoError(t, os.WriteFile(fake, []byte("fake image"), 0o644))
	_, err = ToClipboardImage(fake)
	assert.True(t, errors.Is(err, ErrUnreadable))
}

func TestEncodeDIBStripsFileHeader(t *testing.T) {
	dib, err := EncodeDIB(solid(3, 2, color.NRGBA{G: 255, A: 128}))
	require.NoError(t, err)

	// BITMAPINFOHEADER comes first: its size, then width and height.
	require.GreaterOrEqual(t, len(dib), 40)
	assert.NotEqual(t, "BM", string(dib[:2]))
	assert.Equal(t, uint32(40), binary.LittleEndian.Uint32(dib[0:4]))
	assert.Equal(t, int32(3), int32(binary.LittleEndian.Uint32(dib[4:8])))
	assert.Equal(t, int32(2), int32(binary.LittleEndian.Uint32(dib[8:12])))
	assert.Equal(t, uint16(24), binary.LittleEndian.Uint16(dib[14:16]))
}

func TestDecodeRoundTrip(t *testing.T) {
	data, err := EncodePNG(solid(4, 4, color.White))
	require.NoError(t, err)

	img, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), img.Bounds())

	_, err = Decode([]byte("nope"))
	assert.True(t, errors.Is(err, ErrUnreadable))
}
