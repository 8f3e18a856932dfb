package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// topN is the number of leaderboard and recent-activity entries
// returned by the stats endpoint.
const topN = 20

// handleStats returns the leaderboard and recent placement activity.
// GET /api/stats
func (s *Server) handleStats(c echo.Context) error {
	ctx := c.Request().Context()

	total, err := s.pixels.CountNonBackground(ctx)
	if err != nil {
		return internalError(c, "counting pixels", err)
	}
	uniqueAgents, err := s.pixels.UniqueAgents(ctx)
	if err != nil {
		return internalError(c, "counting agents", err)
	}
	leaders, err := s.stats.Leaderboard(ctx, topN)
	if err != nil {
		return internalError(c, "fetching leaderboard", err)
	}
	recent, err := s.pixels.Recent(ctx, topN)
	if err != nil {
		return internalError(c, "fetching recent activity", err)
	}

	leaderboard := make([]map[string]any, len(leaders))
	for i, e := range leaders {
		leaderboard[i] = map[string]any{
			"moltId": e.MoltID,
			"pixels": e.TotalPixels,
			"rank":   i + 1,
		}
	}

	activity := make([]map[string]any, len(recent))
	for i, p := range recent {
		activity[i] = map[string]any{
			"moltId": p.MoltID,
			"x":      p.X,
			"y":      p.Y,
			"color":  p.Color,
			"at":     p.UpdatedAt.Format(time.RFC3339),
		}
	}

	setCacheHeader(c)
	return c.JSON(http.StatusOK, map[string]any{
		"totalPixels":    total,
		"uniqueAgents":   uniqueAgents,
		"canvasSize":     fmt.Sprintf("%dx%d", s.size.Width, s.size.Height),
		"leaderboard":    leaderboard,
		"recentActivity": activity,
	})
}
