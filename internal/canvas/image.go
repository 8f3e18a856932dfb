package canvas

import (
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/moltplace/moltplace/internal/palette"
)

// MaxImageScale caps the scale factor on the rasterized image
// endpoint.
const MaxImageScale = 16

// Render builds a full-resolution raster of the canvas. Every cell is
// initialized to the background color before the stored pixels are
// painted in, since the store only holds non-default cells. Pixels
// outside the canvas are skipped.
func Render(size Size, pixels []Pixel) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
	bg := palette.RGB(palette.Background)
	for y := 0; y < size.Height; y++ {
		for x := 0; x < size.Width; x++ {
			img.SetRGBA(x, y, bg)
		}
	}
	for _, p := range pixels {
		if !size.Contains(p.X, p.Y) {
			continue
		}
		img.SetRGBA(p.X, p.Y, palette.RGB(p.Color))
	}
	return img
}

// RenderScaled renders the canvas and scales it by an integer factor
// using nearest-neighbor sampling, which keeps pixel-art edges crisp.
// Scale 1 returns the raster unscaled.
func RenderScaled(size Size, pixels []Pixel, scale int) (image.Image, error) {
	if scale < 1 || scale > MaxImageScale {
		return nil, fmt.Errorf("canvas: scale %d out of range [1,%d]", scale, MaxImageScale)
	}
	img := Render(size, pixels)
	if scale == 1 {
		return img, nil
	}
	return resize.Resize(uint(size.Width*scale), uint(size.Height*scale), img, resize.NearestNeighbor), nil
}

// EncodePNG writes an image as a PNG with the default compression
// level.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("canvas: encode png: %w", err)
	}
	return nil
}
