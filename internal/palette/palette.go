// Package palette defines the fixed 16-color canvas palette and the
// color↔index bijection shared by every encoder, decoder, and renderer.
// Index 0 is the background color; a coordinate absent from the pixel
// store is implicitly background-colored.
package palette

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Colors is the fixed palette, ordered. Index 0 (white) is the
// background. Entries are uppercase "#RRGGBB".
var Colors = [16]string{
	"#FFFFFF", // white (background)
	"#E4E4E4", // light gray
	"#888888", // gray
	"#222222", // dark gray
	"#FFA7D1", // pink
	"#E50000", // red
	"#E59500", // orange
	"#A06A42", // brown
	"#E5D900", // yellow
	"#94E044", // light green
	"#02BE01", // green
	"#00D3DD", // cyan
	"#0083C7", // light blue
	"#0000EA", // blue
	"#CF6EE4", // purple
	"#820080", // dark purple
}

// Background is the default canvas color, equal to Colors[0].
const Background = "#FFFFFF"

// index maps normalized color strings to palette indices.
var index = func() map[string]int {
	m := make(map[string]int, len(Colors))
	for i, c := range Colors {
		m[c] = i
	}
	return m
}()

// Normalize uppercases a "#RRGGBB" color string. It does not validate
// membership; use IndexOf for that.
func Normalize(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}

// IndexOf returns the palette index of a color, case-insensitively.
// The second result is false if the color is not in the palette.
func IndexOf(c string) (int, bool) {
	i, ok := index[Normalize(c)]
	return i, ok
}

// At returns the color at a palette index, or an error if the index is
// out of range.
func At(i int) (string, error) {
	if i < 0 || i >= len(Colors) {
		return "", fmt.Errorf("palette: index %d out of range", i)
	}
	return Colors[i], nil
}

// RGB parses a "#RRGGBB" color into an opaque color.RGBA. Colors that
// fail to parse fall back to the background color, matching renderer
// behavior for unknown stored values.
func RGB(c string) color.RGBA {
	s := strings.TrimPrefix(Normalize(c), "#")
	if len(s) != 6 {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}
}
