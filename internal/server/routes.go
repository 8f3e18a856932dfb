package server

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// registerRoutes sets up all HTTP routes.
func (s *Server) registerRoutes() {
	// --- Public endpoints (no auth) ---
	s.echo.GET("/api/health", s.handleHealth)
	s.echo.POST("/api/register", s.handleRegister)
	s.echo.GET("/api/canvas", s.handleCanvas)
	s.echo.GET("/api/canvas/region", s.handleRegion)
	s.echo.GET("/api/canvas/compact", s.handleCompact)
	s.echo.GET("/api/canvas/image", s.handleImage)
	s.echo.GET("/api/tiles/:tileX/:tileY", s.handleTile)
	s.echo.GET("/api/stats", s.handleStats)
	s.echo.GET("/ws/place", s.handleFirehose)

	// --- Agent API (API key required) ---
	agent := s.echo.Group("", s.requireAgent)
	agent.POST("/api/pixel", s.handlePlacePixel)
	agent.GET("/api/cooldown", s.handleCooldown)
}

// handleHealth returns basic server health information. Used by
// monitoring to verify the canvas is alive.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"version": "0.1.0",
	})
}

// setCacheHeader advertises a short cache lifetime on canvas reads:
// the canvas changes frequently but not instantaneously.
func setCacheHeader(c echo.Context) {
	c.Response().Header().Set("Cache-Control", "public, max-age=5")
}

// internalError logs err and returns the opaque 500 response. Callers
// should treat it as transient and retry with backoff.
func internalError(c echo.Context, what string, err error) error {
	log.Printf("Error %s: %v", what, err)
	return c.JSON(http.StatusInternalServerError, map[string]any{
		"success": false,
		"error":   "Internal server error",
	})
}
