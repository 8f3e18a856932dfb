// Package stats maintains per-agent aggregate counters and serves the
// leaderboard. Counters are updated in the same transaction as each
// placement, so the leaderboard can never drift from the pixel table.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moltplace/moltplace/internal/database"
)

// Entry is one agent's aggregate counters.
type Entry struct {
	MoltID       string     `json:"moltId"`
	TotalPixels  int64      `json:"totalPixels"`
	FirstPixelAt *time.Time `json:"firstPixelAt"`
	LastPixelAt  *time.Time `json:"lastPixelAt"`
}

// Store provides aggregate-stat operations backed by PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates a stats Store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// RecordPlacementTx increments an agent's pixel counter inside an open
// transaction, setting first_pixel_at on the agent's first placement.
func (s *Store) RecordPlacementTx(ctx context.Context, tx pgx.Tx, moltID string, now time.Time) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO agent_stats (molt_id, total_pixels, first_pixel_at, last_pixel_at)
		 VALUES ($1, 1, $2, $2)
		 ON CONFLICT (molt_id) DO UPDATE
		 SET total_pixels = agent_stats.total_pixels + 1,
		     first_pixel_at = COALESCE(agent_stats.first_pixel_at, EXCLUDED.first_pixel_at),
		     last_pixel_at = EXCLUDED.last_pixel_at`,
		moltID, now)
	if err != nil {
		return fmt.Errorf("stats: record placement for %q: %w", moltID, err)
	}
	return nil
}

// Leaderboard returns the top agents by total pixels placed,
// descending. Ties keep the underlying store order.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT molt_id, total_pixels, first_pixel_at, last_pixel_at
		 FROM agent_stats ORDER BY total_pixels DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("stats: leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.MoltID, &e.TotalPixels, &e.FirstPixelAt, &e.LastPixelAt); err != nil {
			return nil, fmt.Errorf("stats: leaderboard scan: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
