package server

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// upgrader accepts any origin: the firehose is public read-only data,
// same as the polling endpoints.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// handleFirehose streams placement events over a WebSocket as JSON
// text messages. An optional cursor query parameter replays events
// after that sequence number before live delivery begins.
// GET /ws/place?cursor=1234
func (s *Server) handleFirehose(c echo.Context) error {
	var since *int64
	if cur := c.QueryParam("cursor"); cur != "" {
		n, err := strconv.ParseInt(cur, 10, 64)
		if err != nil || n < 0 {
			return c.JSON(http.StatusBadRequest, map[string]any{
				"success": false,
				"error":   "cursor must be a non-negative integer",
			})
		}
		since = &n
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		return nil
	}
	defer conn.Close()

	ctx, cancelCtx := context.WithCancel(c.Request().Context())
	defer cancelCtx()

	sub, err := s.events.Subscribe(ctx, since)
	if err != nil {
		return nil
	}
	defer sub.Cancel()

	// Read pump: we expect no client messages, but reading is how we
	// notice the peer closing the connection.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancelCtx()
				return
			}
		}
	}()

	for {
		select {
		case frame := <-sub.Frames:
			if err := conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				return nil
			}
		case <-sub.Dropped:
			// Dropped as a slow consumer (or server shutdown); the
			// client should reconnect with its last seen cursor.
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}
