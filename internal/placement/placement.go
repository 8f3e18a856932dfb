// Package placement implements the pixel placement gate: request
// validation, cooldown enforcement, and the transactional commit that
// keeps the pixel table, cooldown ledger, and aggregate stats
// consistent. It is the only writer to the canvas.
package placement

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moltplace/moltplace/internal/canvas"
	"github.com/moltplace/moltplace/internal/cooldown"
	"github.com/moltplace/moltplace/internal/database"
	"github.com/moltplace/moltplace/internal/events"
	"github.com/moltplace/moltplace/internal/palette"
	"github.com/moltplace/moltplace/internal/stats"
)

// Validation failures, detected before any mutation.
var (
	ErrOutOfBounds = errors.New("placement: coordinates out of bounds")
	ErrBadColor    = errors.New("placement: color not in palette")
)

// CooldownError reports a placement rejected because the agent's
// cooldown window has not elapsed. It is a normal protocol outcome,
// not a failure; the status lets the caller schedule a retry.
type CooldownError struct {
	Status cooldown.Status
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("placement: cooldown active, %ds remaining", e.Status.SecondsRemaining)
}

// Result is a successful placement: the committed pixel and the new
// cooldown expiry so the caller can self-schedule its next attempt.
type Result struct {
	Pixel    canvas.Pixel
	Cooldown cooldown.Status
}

// The gate's dependencies, narrowed to what it calls so the commit and
// reject paths can be exercised against fakes.
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type pixelWriter interface {
	UpsertTx(ctx context.Context, tx pgx.Tx, p canvas.Pixel) error
}

type cooldownLedger interface {
	Last(ctx context.Context, moltID string) (time.Time, bool, error)
	ClaimTx(ctx context.Context, tx pgx.Tx, moltID string, now time.Time, window time.Duration) (bool, error)
}

type statsRecorder interface {
	RecordPlacementTx(ctx context.Context, tx pgx.Tx, moltID string, now time.Time) error
}

type placementEmitter interface {
	Emit(ctx context.Context, ev *events.Placement) error
}

// Gate validates and commits pixel placements.
type Gate struct {
	size   canvas.Size
	window time.Duration

	pool   txBeginner
	pixels pixelWriter
	ledger cooldownLedger
	stats  statsRecorder
	events placementEmitter
}

// NewGate creates a placement Gate.
func NewGate(size canvas.Size, window time.Duration, db *database.DB, pixels *canvas.Store, ledger *cooldown.Ledger, st *stats.Store, evts *events.Manager) *Gate {
	return &Gate{
		size:   size,
		window: window,
		pool:   db.Pool,
		pixels: pixels,
		ledger: ledger,
		stats:  st,
		events: evts,
	}
}

// Place validates a placement request and, if the agent's cooldown has
// elapsed, commits the pixel, the cooldown timestamp, and the stats
// increment in one transaction. The cooldown claim is a conditional
// upsert, so two concurrent placements by the same agent cannot both
// succeed.
func (g *Gate) Place(ctx context.Context, moltID string, x, y int, color string) (*Result, error) {
	if !g.size.Contains(x, y) {
		return nil, fmt.Errorf("%w: (%d,%d) outside %dx%d canvas",
			ErrOutOfBounds, x, y, g.size.Width, g.size.Height)
	}
	if _, ok := palette.IndexOf(color); !ok {
		return nil, fmt.Errorf("%w: %q, must be one of %s",
			ErrBadColor, color, strings.Join(palette.Colors[:], ", "))
	}
	color = palette.Normalize(color)

	now := time.Now().UTC()

	tx, err := g.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("placement: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	claimed, err := g.ledger.ClaimTx(ctx, tx, moltID, now, g.window)
	if err != nil {
		return nil, err
	}
	if !claimed {
		// Nothing was written; report the remaining wait.
		last, ok, err := g.ledger.Last(ctx, moltID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// The row vanished between claim and read; treat as a
			// transient store error and let the caller retry.
			return nil, fmt.Errorf("placement: cooldown row missing for %q", moltID)
		}
		return nil, &CooldownError{Status: cooldown.StatusAt(last, now, g.window)}
	}

	pixel := canvas.Pixel{X: x, Y: y, Color: color, MoltID: &moltID, UpdatedAt: now}
	if err := g.pixels.UpsertTx(ctx, tx, pixel); err != nil {
		return nil, err
	}
	if err := g.stats.RecordPlacementTx(ctx, tx, moltID, now); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("placement: commit: %w", err)
	}

	// Firehose emission is best-effort: the placement has committed and
	// polling readers will observe it regardless.
	if err := g.events.Emit(ctx, &events.Placement{
		MoltID: moltID, X: x, Y: y, Color: color, Time: now,
	}); err != nil {
		log.Printf("Warning: emit placement event: %v", err)
	}

	return &Result{
		Pixel: pixel,
		Cooldown: cooldown.Status{
			CanPlaceAt:       now.Add(g.window),
			SecondsRemaining: int(g.window / time.Second),
		},
	}, nil
}

// Cooldown reports an agent's current cooldown status. Pure read; an
// agent with no ledger row may place immediately. The arithmetic is
// shared with the gate so the two endpoints can never disagree.
func (g *Gate) Cooldown(ctx context.Context, moltID string) (cooldown.Status, error) {
	now := time.Now().UTC()
	last, ok, err := g.ledger.Last(ctx, moltID)
	if err != nil {
		return cooldown.Status{}, err
	}
	if !ok {
		return cooldown.Status{CanPlace: true, CanPlaceAt: now}, nil
	}
	return cooldown.StatusAt(last, now, g.window), nil
}
