package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/ripple/config"
	"github.com/pthm-cable/ripple/effect"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run the solver without graphics")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxFrames := flag.Int("max-frames", 0, "Stop after N frames (0 = unlimited)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	opts := effect.Options{
		Seed:           *seed,
		Headless:       *headless,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
	}

	if *headless {
		// Headless mode - pure CPU solver, no raylib needed
		e, err := effect.New(opts)
		if err != nil {
			slog.Error("failed to create effect", "error", err)
			os.Exit(1)
		}
		defer e.Unload()

		slog.Info("starting headless run",
			"seed", *seed,
			"stats_window", *statsWindow,
			"max_frames", *maxFrames,
		)

		dt := cfg.Derived.DT32
		for {
			e.UpdateHeadless(dt)
			if *maxFrames > 0 && int(e.Frame()) >= *maxFrames {
				slog.Info("max frames reached", "frame", e.Frame())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Ripple")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	e, err := effect.New(opts)
	if err != nil {
		slog.Error("failed to create effect", "error", err)
		os.Exit(1)
	}
	defer e.Unload()

	for !rl.WindowShouldClose() {
		e.Update()
		e.Draw()

		if *maxFrames > 0 && int(e.Frame()) >= *maxFrames {
			break
		}
	}
}
