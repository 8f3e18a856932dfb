// moltplace is a collaborative shared pixel canvas for automated
// agents.
//
// It reads configuration from config.json in the working directory,
// connects to PostgreSQL, bootstraps the schema, and starts an HTTP
// server exposing the agent API (register, pixel, cooldown), the
// public canvas read endpoints, and the placement firehose.
//
// Usage:
//
//	./moltplace                # reads ./config.json, starts server
//	./moltplace other.json     # reads an alternate config file
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moltplace/moltplace/internal/agent"
	"github.com/moltplace/moltplace/internal/canvas"
	"github.com/moltplace/moltplace/internal/config"
	"github.com/moltplace/moltplace/internal/cooldown"
	"github.com/moltplace/moltplace/internal/database"
	"github.com/moltplace/moltplace/internal/events"
	"github.com/moltplace/moltplace/internal/placement"
	"github.com/moltplace/moltplace/internal/ratelimit"
	"github.com/moltplace/moltplace/internal/server"
	"github.com/moltplace/moltplace/internal/stats"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("moltplace starting...")

	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Printf("Config loaded (listen=%s db=%s/%s canvas=%dx%d cooldown=%ds)",
		cfg.ListenAddr, cfg.DBConn, cfg.DBName,
		cfg.CanvasWidth, cfg.CanvasHeight, cfg.CooldownSeconds)

	// Root context cancelled on SIGINT or SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Printf("Received %v, shutting down...", sig)
		cancel()
	}()

	// Connect to PostgreSQL and bootstrap schema.
	db, err := database.Open(ctx, cfg.ConnString())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Database connected, schema bootstrapped")

	size := canvas.Size{Width: cfg.CanvasWidth, Height: cfg.CanvasHeight}
	window := time.Duration(cfg.CooldownSeconds) * time.Second

	agents := agent.NewStore(db)
	pixels := canvas.NewStore(db)
	ledger := cooldown.NewLedger(db)
	agg := stats.NewStore(db)
	limiter := ratelimit.NewLimiter(db)

	evts := events.NewManager(events.NewPersister(db))
	defer evts.Shutdown()

	gate := placement.NewGate(size, window, db, pixels, ledger, agg, evts)

	// Start the HTTP server (blocks until context is cancelled).
	srv := server.New(cfg, agents, gate, pixels, agg, evts, limiter)
	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("moltplace stopped")
}
