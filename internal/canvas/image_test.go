package canvas

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	size := Size{Width: 100, Height: 100}
	who := "a1"
	img := Render(size, []Pixel{
		{X: 10, Y: 20, Color: "#E50000", MoltID: &who},
		{X: 0, Y: 0, Color: "#0000EA"},
	})

	bounds := img.Bounds()
	assert.Equal(t, 100, bounds.Dx())
	assert.Equal(t, 100, bounds.Dy())

	assert.Equal(t, color.RGBA{R: 229, G: 0, B: 0, A: 255}, img.RGBAAt(10, 20))
	assert.Equal(t, color.RGBA{R: 0, G: 0, B: 234, A: 255}, img.RGBAAt(0, 0))

	// Everything else stays background white.
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, white, img.RGBAAt(50, 50))
	assert.Equal(t, white, img.RGBAAt(99, 99))
	assert.Equal(t, white, img.RGBAAt(11, 20))
}

func TestRender_SkipsOutOfBoundsPixels(t *testing.T) {
	img := Render(Size{Width: 10, Height: 10}, []Pixel{
		{X: 50, Y: 50, Color: "#E50000"},
		{X: -1, Y: 0, Color: "#E50000"},
	})
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 10, img.Bounds().Dy())
}

func TestRenderScaled(t *testing.T) {
	size := Size{Width: 10, Height: 10}
	pixels := []Pixel{{X: 3, Y: 4, Color: "#02BE01"}}

	img, err := RenderScaled(size, pixels, 4)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())

	// Nearest-neighbor keeps the block a solid color.
	r, g, b, _ := img.At(13, 17).RGBA()
	assert.Equal(t, uint32(0x02), r>>8)
	assert.Equal(t, uint32(0xBE), g>>8)
	assert.Equal(t, uint32(0x01), b>>8)
}

func TestRenderScaled_ScaleOne(t *testing.T) {
	img, err := RenderScaled(Size{Width: 10, Height: 10}, nil, 1)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
}

func TestRenderScaled_RejectsBadScale(t *testing.T) {
	_, err := RenderScaled(Size{Width: 10, Height: 10}, nil, 0)
	assert.Error(t, err)
	_, err = RenderScaled(Size{Width: 10, Height: 10}, nil, MaxImageScale+1)
	assert.Error(t, err)
}

func TestEncodePNG_RoundTrip(t *testing.T) {
	size := Size{Width: 5, Height: 5}
	img := Render(size, []Pixel{{X: 2, Y: 2, Color: "#820080"}})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, img))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 5, decoded.Bounds().Dx())

	r, g, b, _ := decoded.At(2, 2).RGBA()
	assert.Equal(t, uint32(0x82), r>>8)
	assert.Equal(t, uint32(0x00), g>>8)
	assert.Equal(t, uint32(0x80), b>>8)
}
