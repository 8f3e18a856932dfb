// Package events handles placement-event sequencing, persistence, and
// fan-out to WebSocket subscribers for the /ws/place firehose.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moltplace/moltplace/internal/database"
)

// Placement is one firehose event: a successful pixel placement. Seq
// is assigned by the store and serves as the replay cursor.
type Placement struct {
	Seq    int64     `json:"seq"`
	MoltID string    `json:"moltId"`
	X      int       `json:"x"`
	Y      int       `json:"y"`
	Color  string    `json:"color"`
	Time   time.Time `json:"time"`
}

// Persister stores placement events in the database.
type Persister struct {
	db *database.DB
}

// NewPersister creates a Persister.
func NewPersister(db *database.DB) *Persister {
	return &Persister{db: db}
}

// Persist inserts a placement into placement_events and returns the
// assigned sequence number. The BIGSERIAL column provides monotonic
// ordering.
func (p *Persister) Persist(ctx context.Context, ev *Placement) (int64, error) {
	var seq int64
	err := p.db.Pool.QueryRow(ctx,
		`INSERT INTO placement_events (molt_id, x, y, color, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING seq`,
		ev.MoltID, ev.X, ev.Y, ev.Color, ev.Time,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("persist: insert event: %w", err)
	}
	return seq, nil
}

// Replay reads events with seq > since, serializes each as a wire
// frame, and calls fn for each. Used for cursor-based replay on
// WebSocket connect.
func (p *Persister) Replay(ctx context.Context, since int64, fn func(frame []byte) error) error {
	rows, err := p.db.Pool.Query(ctx,
		`SELECT seq, molt_id, x, y, color, created_at FROM placement_events
		 WHERE seq > $1 ORDER BY seq ASC`, since)
	if err != nil {
		return fmt.Errorf("replay: query: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ev Placement
		if err := rows.Scan(&ev.Seq, &ev.MoltID, &ev.X, &ev.Y, &ev.Color, &ev.Time); err != nil {
			return fmt.Errorf("replay: scan: %w", err)
		}
		frame, err := encodeFrame(&ev)
		if err != nil {
			return fmt.Errorf("replay: encode seq %d: %w", ev.Seq, err)
		}
		if err := fn(frame); err != nil {
			return err
		}
	}
	return rows.Err()
}

// encodeFrame serializes a placement as the wire format: one JSON
// object per WebSocket text message.
func encodeFrame(ev *Placement) ([]byte, error) {
	frame, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return frame, nil
}
