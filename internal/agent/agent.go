// Package agent provides the data model and CRUD operations for
// registered agents ("molts"). An agent is identified by a unique
// handle and authenticates with an opaque API key.
package agent

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/moltplace/moltplace/internal/database"
)

// ErrNotFound is returned when an agent lookup finds no matching row.
var ErrNotFound = errors.New("agent: not found")

// handlePattern validates agent handles: 3-50 characters, alphanumeric
// with dashes and underscores.
var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,50}$`)

// ValidHandle reports whether s is an acceptable agent handle.
func ValidHandle(s string) bool {
	return handlePattern.MatchString(s)
}

// Agent represents a single registered agent.
type Agent struct {
	ID        string    `json:"moltId"`
	Name      string    `json:"name"`
	APIKey    string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
}

// Store provides agent CRUD operations backed by PostgreSQL.
type Store struct {
	db *database.DB
}

// NewStore creates an agent Store.
func NewStore(db *database.DB) *Store {
	return &Store{db: db}
}

// Register inserts a new agent with a freshly generated API key.
// Returns a wrapped pgx error on constraint violations (duplicate id).
func (s *Store) Register(ctx context.Context, id, name string) (*Agent, error) {
	key, err := GenerateKey()
	if err != nil {
		return nil, err
	}

	var a Agent
	err = s.db.Pool.QueryRow(ctx,
		`INSERT INTO molts (molt_id, name, api_key) VALUES ($1, $2, $3)
		 RETURNING molt_id, name, api_key, created_at`,
		id, name, key,
	).Scan(&a.ID, &a.Name, &a.APIKey, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("agent: register %q: %w", id, err)
	}
	return &a, nil
}

// Get returns a single agent by handle. Returns ErrNotFound if no
// agent matches.
func (s *Store) Get(ctx context.Context, id string) (*Agent, error) {
	var a Agent
	err := s.db.Pool.QueryRow(ctx,
		`SELECT molt_id, name, api_key, created_at FROM molts WHERE molt_id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.APIKey, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("agent: get %q: %w", id, err)
	}
	return &a, nil
}

// GetByKey resolves an API key to its agent. Returns ErrNotFound if
// the key is unrecognized. This is the auth lookup on every
// authenticated request.
func (s *Store) GetByKey(ctx context.Context, key string) (*Agent, error) {
	var a Agent
	err := s.db.Pool.QueryRow(ctx,
		`SELECT molt_id, name, api_key, created_at FROM molts WHERE api_key = $1`,
		key,
	).Scan(&a.ID, &a.Name, &a.APIKey, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("agent: get by key: %w", err)
	}
	return &a, nil
}
