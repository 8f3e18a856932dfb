package server

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/moltplace/moltplace/internal/canvas"
)

// handleCanvas returns the full sparse dump: every non-background
// pixel, plus canvas-wide stats.
// GET /api/canvas
func (s *Server) handleCanvas(c echo.Context) error {
	ctx := c.Request().Context()

	pixels, err := s.pixels.NonBackground(ctx)
	if err != nil {
		return internalError(c, "fetching canvas", err)
	}
	total, err := s.pixels.CountNonBackground(ctx)
	if err != nil {
		return internalError(c, "counting pixels", err)
	}
	uniqueAgents, err := s.pixels.UniqueAgents(ctx)
	if err != nil {
		return internalError(c, "counting agents", err)
	}

	setCacheHeader(c)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"canvas": map[string]any{
			"width":  s.size.Width,
			"height": s.size.Height,
			"pixels": pixels,
		},
		"stats": map[string]any{
			"totalPixels":  total,
			"uniqueAgents": uniqueAgents,
		},
	})
}

// handleRegion returns the non-background pixels inside a clamped
// rectangle, for viewport lazy loading.
// GET /api/canvas/region?x=0&y=0&w=50&h=50
func (s *Server) handleRegion(c echo.Context) error {
	x := intParam(c, "x", 0)
	y := intParam(c, "y", 0)
	w := intParam(c, "w", 50)
	h := intParam(c, "h", 50)

	rect, err := canvas.ClampRegion(s.size, x, y, w, h)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
	}

	pixels, err := s.pixels.Region(c.Request().Context(), rect)
	if err != nil {
		return internalError(c, "fetching region", err)
	}

	setCacheHeader(c)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"region": map[string]any{
			"x":      rect.X,
			"y":      rect.Y,
			"width":  rect.Width,
			"height": rect.Height,
			"pixels": pixels,
		},
		"canvas": map[string]any{
			"width":  s.size.Width,
			"height": s.size.Height,
		},
	})
}

// handleCompact returns the whole canvas in the compact text format:
// "x,y,colorIndex;" records, absolute coordinates.
// GET /api/canvas/compact
func (s *Server) handleCompact(c echo.Context) error {
	pixels, err := s.pixels.AllRows(c.Request().Context())
	if err != nil {
		return internalError(c, "fetching canvas", err)
	}

	setCacheHeader(c)
	compact := canvas.EncodeCompact(canvas.CompactCells(pixels, 0, 0))
	return c.String(http.StatusOK, compact)
}

// handleTile returns one tile in the compact text format with
// tile-local coordinates.
// GET /api/tiles/:tileX/:tileY
func (s *Server) handleTile(c echo.Context) error {
	tx, errX := strconv.Atoi(c.Param("tileX"))
	ty, errY := strconv.Atoi(c.Param("tileY"))
	if errX != nil || errY != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid tile coordinates",
		})
	}

	bounds, err := s.grid.TileBounds(tx, ty)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid tile coordinates",
		})
	}

	pixels, err := s.pixels.Tile(c.Request().Context(), bounds)
	if err != nil {
		return internalError(c, "fetching tile", err)
	}

	setCacheHeader(c)
	compact := canvas.EncodeCompact(canvas.CompactCells(pixels, bounds.X, bounds.Y))
	return c.String(http.StatusOK, compact)
}

// handleImage returns the canvas as a PNG raster, optionally scaled by
// an integer factor with nearest-neighbor sampling.
// GET /api/canvas/image?scale=4
func (s *Server) handleImage(c echo.Context) error {
	scale := intParam(c, "scale", 1)
	if scale < 1 || scale > canvas.MaxImageScale {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "scale must be between 1 and " + strconv.Itoa(canvas.MaxImageScale),
		})
	}

	pixels, err := s.pixels.AllRows(c.Request().Context())
	if err != nil {
		return internalError(c, "fetching canvas", err)
	}

	img, err := canvas.RenderScaled(s.size, pixels, scale)
	if err != nil {
		return internalError(c, "rendering canvas", err)
	}

	var buf bytes.Buffer
	if err := canvas.EncodePNG(&buf, img); err != nil {
		return internalError(c, "encoding canvas image", err)
	}

	setCacheHeader(c)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// intParam parses an integer query parameter, returning def when the
// parameter is absent or malformed.
func intParam(c echo.Context, name string, def int) int {
	v := c.QueryParam(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
