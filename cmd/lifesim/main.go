// Command lifesim runs the autonomous life simulation.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/talgya/living-world/internal/advisory"
	"github.com/talgya/living-world/internal/api"
	"github.com/talgya/living-world/internal/engine"
	"github.com/talgya/living-world/internal/persistence"
)

// Config collects the runtime knobs, all set through environment
// variables.
type Config struct {
	Seed          int64         `json:"seed"`
	InitialAgents int           `json:"initial_agents"`
	APIPort       int           `json:"api_port"`
	DBPath        string        `json:"db_path"`
	SaveEvery     time.Duration `json:"save_every"`
	AdvisorURL    string        `json:"advisor_url"`
}

func loadConfig() Config {
	cfg := Config{
		Seed:          int64(envInt("LIFESIM_SEED", 42)),
		InitialAgents: envInt("LIFESIM_AGENTS", 8),
		APIPort:       envInt("LIFESIM_PORT", 8080),
		DBPath:        os.Getenv("LIFESIM_DB"),
		SaveEvery:     time.Duration(envInt("LIFESIM_SAVE_SECONDS", 60)) * time.Second,
		AdvisorURL:    os.Getenv("LIFESIM_ADVISOR_URL"),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "data/lifesim.db"
	}
	return cfg
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := loadConfig()

	os.MkdirAll("data", 0755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database opened", "path", cfg.DBPath)

	var advisor advisory.Advisor
	if c := advisory.NewClient(cfg.AdvisorURL); c != nil {
		advisor = c
		slog.Info("advisory service enabled", "url", cfg.AdvisorURL)
	} else {
		slog.Warn("LIFESIM_ADVISOR_URL not set, agents will run on instinct")
	}

	world := engine.NewWorld(cfg.Seed, cfg.InitialAgents, advisor)

	if db.HasSnapshot() {
		slog.Info("found saved world, loading")
		// Discard the freshly spawned founders; the snapshot replaces them.
		world = engine.NewWorld(cfg.Seed, 0, advisor)
		if err := db.Load(world); err != nil {
			slog.Error("failed to load world", "error", err)
			os.Exit(1)
		}
	} else {
		if err := db.Save(world); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	eng := engine.New(world, engine.DefaultConfig())

	apiServer := &api.Server{Eng: eng, DB: db, Port: cfg.APIPort}
	apiServer.Start()

	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	go func() {
		ticker := time.NewTicker(cfg.SaveEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				eng.View(func(w *engine.World) {
					if err := db.Save(w); err != nil {
						slog.Error("periodic save failed", "error", err)
					}
				})
			}
		}
	}()

	fmt.Printf("\nThe world is alive: %d souls at tick %d.\n", len(world.Alive()), world.Tick)
	fmt.Printf("API: http://localhost:%d/api/v1/status\n", cfg.APIPort)
	fmt.Println("Starting simulation... (Ctrl+C to stop)")

	eng.Run(ctx)

	slog.Info("final save")
	eng.View(func(w *engine.World) {
		if err := db.Save(w); err != nil {
			slog.Error("final save failed", "error", err)
		}
	})
}
