package canvas

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/moltplace/moltplace/internal/palette"
)

// Cell is one record of the compact text format: a coordinate pair and
// a palette index. Coordinates are tile-local for tile responses and
// absolute for whole-canvas responses.
type Cell struct {
	X     int
	Y     int
	Index int
}

// EncodeCompact renders cells as the compact wire format: records
// "x,y,index;" concatenated with no surrounding delimiter. An empty
// cell list encodes as the empty string.
func EncodeCompact(cells []Cell) string {
	var b strings.Builder
	for _, c := range cells {
		b.WriteString(strconv.Itoa(c.X))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Y))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(c.Index))
		b.WriteByte(';')
	}
	return b.String()
}

// DecodeCompact parses a compact-format string back into cells. A
// trailing semicolon after the final record is required, matching the
// encoder; the empty string decodes to no cells.
func DecodeCompact(s string) ([]Cell, error) {
	var cells []Cell
	for len(s) > 0 {
		rec, rest, ok := strings.Cut(s, ";")
		if !ok {
			return nil, fmt.Errorf("canvas: compact record %q missing terminator", s)
		}
		s = rest

		parts := strings.Split(rec, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("canvas: malformed compact record %q", rec)
		}
		x, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("canvas: compact record %q: %w", rec, err)
		}
		y, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil, fmt.Errorf("canvas: compact record %q: %w", rec, err)
		}
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return nil, fmt.Errorf("canvas: compact record %q: %w", rec, err)
		}
		if _, err := palette.At(idx); err != nil {
			return nil, fmt.Errorf("canvas: compact record %q: %w", rec, err)
		}
		cells = append(cells, Cell{X: x, Y: y, Index: idx})
	}
	return cells, nil
}

// CompactCells converts stored pixels to compact cells, translating
// coordinates by (-originX, -originY). Colors outside the palette map
// to index 0.
func CompactCells(pixels []Pixel, originX, originY int) []Cell {
	cells := make([]Cell, len(pixels))
	for i, p := range pixels {
		idx, ok := palette.IndexOf(p.Color)
		if !ok {
			idx = 0
		}
		cells[i] = Cell{X: p.X - originX, Y: p.Y - originY, Index: idx}
	}
	return cells
}
