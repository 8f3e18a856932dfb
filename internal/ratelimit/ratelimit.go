// Package ratelimit provides store-backed registration rate limiting
// keyed by client IP. Keeping the counters in PostgreSQL rather than
// an in-process map means limits survive restarts and apply across
// instances.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/moltplace/moltplace/internal/database"
)

// Registration limits: attempts per IP per window.
const (
	MaxPerWindow = 5
	Window       = time.Hour
)

// Result reports the outcome of a rate-limit check.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter enforces the per-IP registration limit.
type Limiter struct {
	db *database.DB
}

// NewLimiter creates a Limiter.
func NewLimiter(db *database.DB) *Limiter {
	return &Limiter{db: db}
}

// Check records one attempt for ip and reports whether it is allowed.
// The counter and its window reset are maintained in a single atomic
// upsert, so concurrent attempts from the same address cannot
// over-count or race the window reset.
func (l *Limiter) Check(ctx context.Context, ip string, now time.Time) (Result, error) {
	resetAt := now.Add(Window)

	var count int
	var storedReset time.Time
	err := l.db.Pool.QueryRow(ctx,
		`INSERT INTO register_limits (ip, count, reset_at) VALUES ($1, 1, $2)
		 ON CONFLICT (ip) DO UPDATE SET
		   count = CASE WHEN register_limits.reset_at <= $3
		                THEN 1 ELSE register_limits.count + 1 END,
		   reset_at = CASE WHEN register_limits.reset_at <= $3
		                   THEN $2 ELSE register_limits.reset_at END
		 RETURNING count, reset_at`,
		ip, resetAt, now,
	).Scan(&count, &storedReset)
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: check %q: %w", ip, err)
	}

	if count > MaxPerWindow {
		return Result{RetryAfter: storedReset.Sub(now)}, nil
	}
	return Result{Allowed: true, Remaining: MaxPerWindow - count}, nil
}
