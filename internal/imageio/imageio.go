// Package imageio bridges image files and the flat pixel buffers the stego
// codec works on. Images of any decodable format are collapsed to 3-channel
// RGB on load; saving is restricted to lossless formats because lossy
// re-compression destroys the embedded LSBs.
package imageio

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/image/bmp"

	"github.com/slam/stegocrypt/internal/stego"
)

const channels = 3

var losslessExtensions = []string{"png", "bmp"}

// Load decodes the image at path into an RGB pixel buffer.
func Load(path string) (*stego.PixelBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image (%s): %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image (%s): %w", path, err)
	}
	return FromImage(img), nil
}

// Save encodes buf to path losslessly; the format follows the file
// extension. Lossy and unknown extensions are refused.
func Save(path string, buf *stego.PixelBuffer) error {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if !lo.Contains(losslessExtensions, ext) {
		return fmt.Errorf("refusing to save %q: format %q is lossy or unknown and would destroy the hidden data (use one of %v)", path, ext, losslessExtensions)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file (%s): %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	switch ext {
	case "png":
		err = png.Encode(w, ToImage(buf))
	case "bmp":
		err = bmp.Encode(w, ToImage(buf))
	}
	if err != nil {
		return fmt.Errorf("failed to encode file (%s): %w", path, err)
	}
	return w.Flush()
}

// FromImage flattens img into a 3-channel RGB buffer in row-major,
// channel-minor order, dropping any alpha channel.
func FromImage(img image.Image) *stego.PixelBuffer {
	bounds := img.Bounds()
	buf := stego.NewPixelBuffer(bounds.Dx(), bounds.Dy(), channels)

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			buf.Pix[i] = uint8(r >> 8)
			buf.Pix[i+1] = uint8(g >> 8)
			buf.Pix[i+2] = uint8(b >> 8)
			i += channels
		}
	}
	return buf
}

// ToImage expands buf back into an opaque RGBA image.
func ToImage(buf *stego.PixelBuffer) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, buf.Width, buf.Height))

	i := 0
	for y := 0; y < buf.Height; y++ {
		for x := 0; x < buf.Width; x++ {
			img.SetRGBA(x, y, color.RGBA{R: buf.Pix[i], G: buf.Pix[i+1], B: buf.Pix[i+2], A: 0xFF})
			i += channels
		}
	}
	return img
}
