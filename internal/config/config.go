// Package config handles loading and validating the application
// configuration from a config.json file.
//
// The configuration file is expected to be a JSON object with database
// connection details, the HTTP listen address, and the canvas settings
// (dimensions, tile size, cooldown window).
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Config holds all application configuration loaded from config.json.
// The file is read once at startup; changes require a restart.
type Config struct {
	// DBConn is the PostgreSQL host:port (e.g., "infra-postgres:5432").
	DBConn string `json:"dbConn"`

	// DBName is the PostgreSQL database name.
	DBName string `json:"dbName"`

	// DBUser is the PostgreSQL username.
	DBUser string `json:"dbUser"`

	// DBPass is the PostgreSQL password.
	DBPass string `json:"dbPass"`

	// ListenAddr is the HTTP listen address (default ":3000").
	ListenAddr string `json:"listenAddr"`

	// CanvasWidth and CanvasHeight are the canvas dimensions in pixels
	// (default 100×100).
	CanvasWidth  int `json:"canvasWidth"`
	CanvasHeight int `json:"canvasHeight"`

	// TileSize is the edge length of a canvas tile in pixels (default
	// 100). The tile grid dimensions are derived from the canvas size.
	TileSize int `json:"tileSize"`

	// CooldownSeconds is the minimum wait between successful pixel
	// placements by one agent (default 300).
	CooldownSeconds int `json:"cooldownSeconds"`
}

// Load reads and parses configuration from the given file path.
// It returns an error if the file cannot be read, parsed, or is missing
// required fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":3000"
	}
	if cfg.CanvasWidth == 0 {
		cfg.CanvasWidth = 100
	}
	if cfg.CanvasHeight == 0 {
		cfg.CanvasHeight = 100
	}
	if cfg.TileSize == 0 {
		cfg.TileSize = 100
	}
	if cfg.CooldownSeconds == 0 {
		cfg.CooldownSeconds = 300
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks that all required fields are present and the canvas
// settings are sane.
func (c *Config) validate() error {
	switch {
	case c.DBConn == "":
		return fmt.Errorf("config: dbConn is required")
	case c.DBName == "":
		return fmt.Errorf("config: dbName is required")
	case c.DBUser == "":
		return fmt.Errorf("config: dbUser is required")
	case c.DBPass == "":
		return fmt.Errorf("config: dbPass is required")
	case c.CanvasWidth < 1 || c.CanvasHeight < 1:
		return fmt.Errorf("config: canvas dimensions must be positive")
	case c.TileSize < 1:
		return fmt.Errorf("config: tileSize must be positive")
	case c.CooldownSeconds < 1:
		return fmt.Errorf("config: cooldownSeconds must be positive")
	}
	return nil
}

// ConnString builds a PostgreSQL connection URI from the config fields.
// The password is URL-encoded to handle special characters safely.
func (c *Config) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=disable",
		url.QueryEscape(c.DBUser),
		url.QueryEscape(c.DBPass),
		c.DBConn,
		url.QueryEscape(c.DBName),
	)
}
