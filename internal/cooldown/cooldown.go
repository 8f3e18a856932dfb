// Package cooldown tracks the per-agent placement cooldown. One row
// per agent holds the timestamp of their last successful placement;
// absence of a row means the agent may place immediately.
package cooldown

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moltplace/moltplace/internal/database"
)

// Status describes an agent's cooldown position at a point in time.
type Status struct {
	CanPlace         bool
	CanPlaceAt       time.Time
	SecondsRemaining int
}

// StatusAt computes the cooldown status for an agent whose last
// placement was at last, evaluated at now with the given window. The
// remaining time rounds up to whole seconds so the gate and the query
// endpoint report identical numbers.
func StatusAt(last, now time.Time, window time.Duration) Status {
	canPlaceAt := last.Add(window)
	if !now.Before(canPlaceAt) {
		return Status{CanPlace: true, CanPlaceAt: now}
	}
	remaining := canPlaceAt.Sub(now)
	return Status{
		CanPlaceAt:       canPlaceAt,
		SecondsRemaining: int((remaining.Milliseconds() + 999) / 1000),
	}
}

// Ledger provides cooldown reads and the conditional claim used by the
// placement path, backed by PostgreSQL.
type Ledger struct {
	db *database.DB
}

// NewLedger creates a cooldown Ledger.
func NewLedger(db *database.DB) *Ledger {
	return &Ledger{db: db}
}

// Last returns the timestamp of an agent's most recent placement. The
// second result is false if the agent has never placed a pixel.
func (l *Ledger) Last(ctx context.Context, moltID string) (time.Time, bool, error) {
	var last time.Time
	err := l.db.Pool.QueryRow(ctx,
		`SELECT last_pixel_at FROM cooldowns WHERE molt_id = $1`, moltID,
	).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("cooldown: last for %q: %w", moltID, err)
	}
	return last, true, nil
}

// ClaimTx attempts to consume an agent's cooldown inside an open
// transaction, setting last_pixel_at to now. The upsert only applies
// when the previous timestamp is outside the window, so two concurrent
// placements by the same agent cannot both succeed: the row lock
// serializes them and the loser sees a fresh timestamp. Returns false
// when the cooldown is still active.
func (l *Ledger) ClaimTx(ctx context.Context, tx pgx.Tx, moltID string, now time.Time, window time.Duration) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO cooldowns (molt_id, last_pixel_at) VALUES ($1, $2)
		 ON CONFLICT (molt_id) DO UPDATE SET last_pixel_at = EXCLUDED.last_pixel_at
		 WHERE cooldowns.last_pixel_at <= $2 - make_interval(secs => $3)`,
		moltID, now, window.Seconds())
	if err != nil {
		return false, fmt.Errorf("cooldown: claim for %q: %w", moltID, err)
	}
	return tag.RowsAffected() > 0, nil
}
