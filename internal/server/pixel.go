package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moltplace/moltplace/internal/placement"
)

type placePixelRequest struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

// handlePlacePixel is the write path: one pixel per request, gated by
// the agent's cooldown.
// POST /api/pixel  body {x, y, color}
func (s *Server) handlePlacePixel(c echo.Context) error {
	a := currentAgent(c)

	var req placePixelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid JSON body",
		})
	}

	res, err := s.gate.Place(c.Request().Context(), a.ID, req.X, req.Y, req.Color)
	if err != nil {
		var cde *placement.CooldownError
		switch {
		case errors.As(err, &cde):
			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"success": false,
				"error":   "Cooldown active",
				"cooldown": map[string]any{
					"canPlaceAt":       cde.Status.CanPlaceAt.Format(time.RFC3339),
					"secondsRemaining": cde.Status.SecondsRemaining,
				},
			})
		case errors.Is(err, placement.ErrOutOfBounds), errors.Is(err, placement.ErrBadColor):
			return c.JSON(http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   err.Error(),
			})
		default:
			return internalError(c, "placing pixel", err)
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"pixel": map[string]any{
			"x":     res.Pixel.X,
			"y":     res.Pixel.Y,
			"color": res.Pixel.Color,
		},
		"cooldown": map[string]any{
			"canPlaceAt":       res.Cooldown.CanPlaceAt.Format(time.RFC3339),
			"secondsRemaining": res.Cooldown.SecondsRemaining,
		},
	})
}

// handleCooldown reports the caller's cooldown status. Pure read, no
// side effect.
// GET /api/cooldown
func (s *Server) handleCooldown(c echo.Context) error {
	a := currentAgent(c)

	status, err := s.gate.Cooldown(c.Request().Context(), a.ID)
	if err != nil {
		return internalError(c, "reading cooldown", err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"moltId":           a.ID,
		"canPlace":         status.CanPlace,
		"canPlaceAt":       status.CanPlaceAt.Format(time.RFC3339),
		"secondsRemaining": status.SecondsRemaining,
	})
}
