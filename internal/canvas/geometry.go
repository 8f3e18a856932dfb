package canvas

import "fmt"

// Size holds the canvas dimensions.
type Size struct {
	Width  int
	Height int
}

// Contains reports whether (x, y) is a valid canvas coordinate.
func (s Size) Contains(x, y int) bool {
	return x >= 0 && x < s.Width && y >= 0 && y < s.Height
}

// Rect is an axis-aligned rectangle in canvas coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// MaxRegionEdge caps the width and height of a region query. Oversize
// requests are clamped, not rejected.
const MaxRegionEdge = 100

// ClampRegion resolves a requested region against the canvas. The
// origin must be inside the canvas; width and height are clamped to
// MaxRegionEdge and the rectangle is clipped to the canvas bounds.
func ClampRegion(size Size, x, y, w, h int) (Rect, error) {
	if x < 0 || y < 0 || x >= size.Width || y >= size.Height {
		return Rect{}, fmt.Errorf("canvas: region origin (%d,%d) out of bounds for %dx%d canvas",
			x, y, size.Width, size.Height)
	}
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	if w > MaxRegionEdge {
		w = MaxRegionEdge
	}
	if h > MaxRegionEdge {
		h = MaxRegionEdge
	}
	if x+w > size.Width {
		w = size.Width - x
	}
	if y+h > size.Height {
		h = size.Height - y
	}
	return Rect{X: x, Y: y, Width: w, Height: h}, nil
}

// Grid describes the static tile partition of a canvas. Tile grid
// dimensions are derived from the canvas size, so a 100x100 canvas
// with 100-cell tiles has a single tile and a 1000x1000 canvas has a
// 10x10 grid.
type Grid struct {
	Canvas   Size
	TileSize int
}

// TilesX returns the number of tile columns.
func (g Grid) TilesX() int {
	return (g.Canvas.Width + g.TileSize - 1) / g.TileSize
}

// TilesY returns the number of tile rows.
func (g Grid) TilesY() int {
	return (g.Canvas.Height + g.TileSize - 1) / g.TileSize
}

// TileBounds returns the canvas rectangle covered by tile (tx, ty).
// Edge tiles are clipped to the canvas.
func (g Grid) TileBounds(tx, ty int) (Rect, error) {
	if tx < 0 || tx >= g.TilesX() || ty < 0 || ty >= g.TilesY() {
		return Rect{}, fmt.Errorf("canvas: tile (%d,%d) out of range for %dx%d grid",
			tx, ty, g.TilesX(), g.TilesY())
	}
	r := Rect{
		X:      tx * g.TileSize,
		Y:      ty * g.TileSize,
		Width:  g.TileSize,
		Height: g.TileSize,
	}
	if r.X+r.Width > g.Canvas.Width {
		r.Width = g.Canvas.Width - r.X
	}
	if r.Y+r.Height > g.Canvas.Height {
		r.Height = g.Canvas.Height - r.Y
	}
	return r, nil
}
