// Package canvas provides the sparse pixel store and its read-side
// materializations: full dump, bounded region, fixed-size tile, the
// compact text encoding, and a rasterized image.
//
// The store holds one row per coordinate that has ever been placed;
// absence of a row means the background color. The placement path is
// the only writer; every materializer is a pure read.
package canvas

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moltplace/moltplace/internal/database"
	"github.com/moltplace/moltplace/internal/palette"
)

// Pixel is a single placed pixel. MoltID is nil for pixels written by
// maintenance scripts rather than agents.
type Pixel struct {
	X         int       `json:"x"`
	Y         int       `json:"y"`
	Color     string    `json:"color"`
	MoltID    *string   `json:"molt_id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pagination limits for the full-canvas reads. The store is read in
// pages and the pages concatenated, with a hard ceiling so a
// pathological canvas cannot produce an unbounded response; hitting the
// ceiling yields a truncated-but-valid result rather than an error.
const (
	dumpPageSize  = 50000
	tilePageSize  = 1000
	safetyCeiling = 1100000
)

// Store provides canvas reads and the in-transaction pixel upsert,
// backed by PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates a canvas Store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// UpsertTx writes a pixel inside an open transaction. Conflict policy
// is last-write-wins keyed on (x, y); the row-level upsert makes
// concurrent writes to the same coordinate well-defined.
func (s *Store) UpsertTx(ctx context.Context, tx pgx.Tx, p Pixel) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO pixels (x, y, color, molt_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (x, y) DO UPDATE
		 SET color = EXCLUDED.color, molt_id = EXCLUDED.molt_id,
		     updated_at = EXCLUDED.updated_at`,
		p.X, p.Y, p.Color, p.MoltID, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("canvas: upsert (%d,%d): %w", p.X, p.Y, err)
	}
	return nil
}

// NonBackground returns every pixel whose color differs from the
// background, paging through the store up to the safety ceiling.
// Callers see one logical list ordered by x then y.
func (s *Store) NonBackground(ctx context.Context) ([]Pixel, error) {
	return s.page(ctx, dumpPageSize,
		`SELECT x, y, color, molt_id, updated_at FROM pixels
		 WHERE color <> '`+palette.Background+`'
		 ORDER BY x, y LIMIT $1 OFFSET $2`)
}

// AllRows returns every stored pixel, including explicitly placed
// background-colored ones, with the same paging as NonBackground. Used
// by the compact dump and the image renderer.
func (s *Store) AllRows(ctx context.Context) ([]Pixel, error) {
	return s.page(ctx, dumpPageSize,
		`SELECT x, y, color, molt_id, updated_at FROM pixels
		 ORDER BY x, y LIMIT $1 OFFSET $2`)
}

// page runs a LIMIT/OFFSET query repeatedly, concatenating pages until
// a short page or the safety ceiling. The limit and offset bind
// parameters follow any query-specific args.
func (s *Store) page(ctx context.Context, pageSize int, query string, args ...any) ([]Pixel, error) {
	var all []Pixel
	for offset := 0; ; {
		callArgs := append(append([]any{}, args...), pageSize, offset)
		batch, err := s.queryPixels(ctx, query, callArgs...)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		offset += len(batch)
		if len(batch) < pageSize || offset > safetyCeiling {
			return all, nil
		}
	}
}

// Region returns the non-background pixels inside a clamped rectangle.
// The rectangle is small by construction (callers clamp to the region
// maximum first), so a single query suffices.
func (s *Store) Region(ctx context.Context, r Rect) ([]Pixel, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT x, y, color, molt_id, updated_at FROM pixels
		 WHERE x >= $1 AND x < $2 AND y >= $3 AND y < $4
		   AND color <> '`+palette.Background+`'
		 ORDER BY x, y`,
		r.X, r.X+r.Width, r.Y, r.Y+r.Height)
	if err != nil {
		return nil, fmt.Errorf("canvas: region: %w", err)
	}
	return scanPixels(rows)
}

// Tile returns every stored pixel inside a tile's bounds, paged in
// small chunks and ordered by x then y for a reproducible encoding.
func (s *Store) Tile(ctx context.Context, r Rect) ([]Pixel, error) {
	return s.page(ctx, tilePageSize,
		`SELECT x, y, color, molt_id, updated_at FROM pixels
		 WHERE x >= $1 AND x < $2 AND y >= $3 AND y < $4
		 ORDER BY x, y LIMIT $5 OFFSET $6`,
		r.X, r.X+r.Width, r.Y, r.Y+r.Height)
}

// CountNonBackground returns the number of non-background pixels.
func (s *Store) CountNonBackground(ctx context.Context) (int, error) {
	var n int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM pixels WHERE color <> '`+palette.Background+`'`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("canvas: count: %w", err)
	}
	return n, nil
}

// UniqueAgents returns how many distinct agents currently own a
// non-background pixel.
func (s *Store) UniqueAgents(ctx context.Context) (int, error) {
	var n int
	err := s.db.Pool.QueryRow(ctx,
		`SELECT COUNT(DISTINCT molt_id) FROM pixels
		 WHERE color <> '`+palette.Background+`' AND molt_id IS NOT NULL`,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("canvas: unique agents: %w", err)
	}
	return n, nil
}

// Recent returns the most recently placed non-background pixels,
// newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Pixel, error) {
	rows, err := s.db.Pool.Query(ctx,
		`SELECT x, y, color, molt_id, updated_at FROM pixels
		 WHERE color <> '`+palette.Background+`' AND molt_id IS NOT NULL
		 ORDER BY updated_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("canvas: recent: %w", err)
	}
	return scanPixels(rows)
}

func (s *Store) queryPixels(ctx context.Context, query string, args ...any) ([]Pixel, error) {
	rows, err := s.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("canvas: query page: %w", err)
	}
	return scanPixels(rows)
}

func scanPixels(rows pgx.Rows) ([]Pixel, error) {
	defer rows.Close()

	pixels := []Pixel{} // empty slice, not nil (clean JSON: [] not null)
	for rows.Next() {
		var p Pixel
		if err := rows.Scan(&p.X, &p.Y, &p.Color, &p.MoltID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("canvas: scan: %w", err)
		}
		pixels = append(pixels, p)
	}
	return pixels, rows.Err()
}
