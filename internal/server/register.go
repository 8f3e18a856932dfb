package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/moltplace/moltplace/internal/agent"
)

type registerRequest struct {
	MoltID string `json:"moltId"`
	Name   string `json:"name"`
}

// handleRegister creates a new agent and returns its API key.
// Registration is idempotent: an already-registered handle gets its
// existing key back. Attempts are rate limited per client IP.
func (s *Server) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	limit, err := s.limiter.Check(ctx, c.RealIP(), time.Now().UTC())
	if err != nil {
		return internalError(c, "checking registration rate limit", err)
	}
	if !limit.Allowed {
		retryAfter := int(limit.RetryAfter / time.Second)
		c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
		return c.JSON(http.StatusTooManyRequests, map[string]any{
			"success":    false,
			"error":      "Too many registration attempts. Try again in 1 hour.",
			"retryAfter": retryAfter,
		})
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid JSON body",
		})
	}

	req.MoltID = strings.TrimSpace(req.MoltID)
	if req.MoltID == "" {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "moltId is required",
		})
	}
	if !agent.ValidHandle(req.MoltID) {
		return c.JSON(http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "moltId must be 3-50 characters, alphanumeric with dashes/underscores only",
		})
	}
	if req.Name == "" {
		req.Name = req.MoltID
	}

	// Idempotent re-registration: hand back the existing key.
	existing, err := s.agents.Get(ctx, req.MoltID)
	if err == nil {
		return c.JSON(http.StatusOK, map[string]any{
			"success": true,
			"moltId":  existing.ID,
			"apiKey":  existing.APIKey,
			"message": "Already registered",
		})
	}
	if !errors.Is(err, agent.ErrNotFound) {
		return internalError(c, "looking up agent", err)
	}

	a, err := s.agents.Register(ctx, req.MoltID, req.Name)
	if err != nil {
		return internalError(c, "registering agent", err)
	}

	log.Printf("Agent registered: %s", a.ID)
	return c.JSON(http.StatusOK, map[string]any{
		"success": true,
		"moltId":  a.ID,
		"apiKey":  a.APIKey,
		"message": "Registered successfully",
		"rateLimit": map[string]any{
			"remaining": limit.Remaining,
		},
	})
}
