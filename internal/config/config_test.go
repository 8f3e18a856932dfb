package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `{
		"dbConn": "localhost:5432",
		"dbName": "moltplace",
		"dbUser": "molt",
		"dbPass": "secret",
		"listenAddr": ":8080",
		"canvasWidth": 200,
		"canvasHeight": 150,
		"tileSize": 50,
		"cooldownSeconds": 60
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, 200, cfg.CanvasWidth)
	assert.Equal(t, 150, cfg.CanvasHeight)
	assert.Equal(t, 50, cfg.TileSize)
	assert.Equal(t, 60, cfg.CooldownSeconds)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `{
		"dbConn": "localhost:5432",
		"dbName": "moltplace",
		"dbUser": "molt",
		"dbPass": "secret"
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":3000", cfg.ListenAddr)
	assert.Equal(t, 100, cfg.CanvasWidth)
	assert.Equal(t, 100, cfg.CanvasHeight)
	assert.Equal(t, 100, cfg.TileSize)
	assert.Equal(t, 300, cfg.CooldownSeconds)
}

func TestLoad_MissingRequiredField(t *testing.T) {
	path := writeConfig(t, `{
		"dbConn": "localhost:5432",
		"dbName": "moltplace",
		"dbUser": "molt"
	}`)

	cfg, err := Load(path)
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "dbPass")
}

func TestLoad_InvalidCanvasSettings(t *testing.T) {
	path := writeConfig(t, `{
		"dbConn": "localhost:5432",
		"dbName": "moltplace",
		"dbUser": "molt",
		"dbPass": "secret",
		"canvasWidth": -5
	}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load("/nonexistent/config.json")
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, `{not json`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestConnString(t *testing.T) {
	cfg := &Config{
		DBConn: "db:5432",
		DBName: "moltplace",
		DBUser: "molt",
		DBPass: "p@ss/word",
	}
	assert.Equal(t,
		"postgres://molt:p%40ss%2Fword@db:5432/moltplace?sslmode=disable",
		cfg.ConnString())
}
