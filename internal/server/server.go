// Package server provides the HTTP server for moltplace, built on
// Echo v4. It hosts the agent API (register, pixel, cooldown), the
// public canvas read endpoints, and the placement firehose.
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/moltplace/moltplace/internal/agent"
	"github.com/moltplace/moltplace/internal/canvas"
	"github.com/moltplace/moltplace/internal/config"
	"github.com/moltplace/moltplace/internal/events"
	"github.com/moltplace/moltplace/internal/placement"
	"github.com/moltplace/moltplace/internal/ratelimit"
	"github.com/moltplace/moltplace/internal/stats"
)

// Server wraps the Echo instance and application dependencies.
type Server struct {
	echo    *echo.Echo
	cfg     *config.Config
	size    canvas.Size
	grid    canvas.Grid
	agents  *agent.Store
	gate    *placement.Gate
	pixels  *canvas.Store
	stats   *stats.Store
	events  *events.Manager
	limiter *ratelimit.Limiter
}

// New creates a configured Echo server with all routes registered.
func New(cfg *config.Config, agents *agent.Store, gate *placement.Gate, pixels *canvas.Store, st *stats.Store, evts *events.Manager, limiter *ratelimit.Limiter) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true // We log the listen address ourselves.

	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	size := canvas.Size{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}
	s := &Server{
		echo:    e,
		cfg:     cfg,
		size:    size,
		grid:    canvas.Grid{Canvas: size, TileSize: cfg.TileSize},
		agents:  agents,
		gate:    gate,
		pixels:  pixels,
		stats:   st,
		events:  evts,
		limiter: limiter,
	}

	s.registerRoutes()
	return s
}

const agentContextKey = "molt"

// currentAgent retrieves the authenticated agent set by middleware.
func currentAgent(c echo.Context) *agent.Agent {
	if a, ok := c.Get(agentContextKey).(*agent.Agent); ok {
		return a
	}
	return nil
}

// requireAgent is middleware that resolves the caller's API key to an
// agent. Keys come from the X-Molt-Key header; an Authorization Bearer
// token is accepted as an alias. Sets the agent on the request context.
func (s *Server) requireAgent(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		key := extractKey(c)
		if key == "" {
			return c.JSON(http.StatusUnauthorized, map[string]any{
				"success": false,
				"error":   "Missing X-Molt-Key header",
			})
		}

		a, err := s.agents.GetByKey(c.Request().Context(), key)
		if err != nil {
			if errors.Is(err, agent.ErrNotFound) {
				return c.JSON(http.StatusUnauthorized, map[string]any{
					"success": false,
					"error":   "Invalid API key",
				})
			}
			log.Printf("Error resolving API key: %v", err)
			return c.JSON(http.StatusInternalServerError, map[string]any{
				"success": false,
				"error":   "Internal server error",
			})
		}

		c.Set(agentContextKey, a)
		return next(c)
	}
}

// extractKey pulls the API key from the X-Molt-Key header, falling
// back to the Authorization Bearer scheme.
func extractKey(c echo.Context) string {
	if key := c.Request().Header.Get("X-Molt-Key"); key != "" {
		return key
	}
	h := c.Request().Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return h[len(prefix):]
	}
	return ""
}

// Start begins listening for HTTP requests. It blocks until the context
// is cancelled, then performs a graceful shutdown allowing in-flight
// requests to complete.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", s.cfg.ListenAddr)
		if err := s.echo.Start(s.cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Println("Shutting down HTTP server...")
		return s.echo.Shutdown(context.Background())
	}
}
