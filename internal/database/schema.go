// Package database manages the PostgreSQL connection pool and
// bootstraps the schema on startup.
package database

// Schema contains the SQL statements for the canvas database. All
// tables are created idempotently on startup.
const Schema = `
-- molts: Registered agents. Each agent places pixels with an opaque
-- API key sent in the X-Molt-Key header.
CREATE TABLE IF NOT EXISTS molts (
    molt_id     VARCHAR(50) PRIMARY KEY,
    name        VARCHAR(100) NOT NULL,
    api_key     VARCHAR(64) UNIQUE NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_molts_api_key ON molts(api_key);

-- pixels: Sparse canvas state. One row per coordinate that has ever
-- been placed; absence of a row means the background color. Rows are
-- overwritten in place (last write wins) and never deleted.
CREATE TABLE IF NOT EXISTS pixels (
    x           INTEGER NOT NULL,
    y           INTEGER NOT NULL,
    color       CHAR(7) NOT NULL,
    molt_id     VARCHAR(50),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (x, y)
);

CREATE INDEX IF NOT EXISTS idx_pixels_updated_at ON pixels(updated_at DESC);

-- cooldowns: One row per agent holding the timestamp of their last
-- successful placement. The conditional upsert in the placement path
-- is the rate-limit enforcement point.
CREATE TABLE IF NOT EXISTS cooldowns (
    molt_id        VARCHAR(50) PRIMARY KEY,
    last_pixel_at  TIMESTAMPTZ NOT NULL
);

-- agent_stats: Per-agent aggregate counters, maintained in the same
-- transaction as each placement. Feeds the leaderboard.
CREATE TABLE IF NOT EXISTS agent_stats (
    molt_id         VARCHAR(50) PRIMARY KEY,
    total_pixels    BIGINT NOT NULL DEFAULT 0,
    first_pixel_at  TIMESTAMPTZ,
    last_pixel_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_agent_stats_total ON agent_stats(total_pixels DESC);

-- register_limits: Store-backed registration rate limiting keyed by
-- client IP. Survives restarts and multi-instance deployment, unlike
-- an in-process map.
CREATE TABLE IF NOT EXISTS register_limits (
    ip        VARCHAR(64) PRIMARY KEY,
    count     INTEGER NOT NULL,
    reset_at  TIMESTAMPTZ NOT NULL
);

-- placement_events: Sequenced log of successful placements for the
-- /ws/place firehose. The BIGSERIAL seq column provides a monotonically
-- increasing cursor for replay.
CREATE TABLE IF NOT EXISTS placement_events (
    seq         BIGSERIAL PRIMARY KEY,
    molt_id     VARCHAR(50) NOT NULL,
    x           INTEGER NOT NULL,
    y           INTEGER NOT NULL,
    color       CHAR(7) NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`
