package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wriggle/config"
	"github.com/pthm-cable/wriggle/ecosystem"
	"github.com/pthm-cable/wriggle/renderer"
	"github.com/pthm-cable/wriggle/telemetry"
)

const panelWidth = 280

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	preset := flag.String("preset", "", "Named preset to load at start")
	headless := flag.Bool("headless", false, "Run without graphics")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxMoves := flag.Int64("max-moves", 0, "Stop after N moves (0 = unlimited)")

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

	if *preset != "" {
		sim, err := config.LoadPreset(cfg.Presets.Dir, *preset)
		if err != nil {
			slog.Error("failed to load preset", "name", *preset, "error", err)
			os.Exit(1)
		}
		cfg.Simulation = sim
	}

	// Set up seed
	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Use config stats window if not overridden by CLI
	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}
	sampler := telemetry.NewMovesSampler(time.Duration(statsWindowSec * float64(time.Second)))

	w := ecosystem.NewWorld(cfg, ecosystem.Options{
		Seed:    rngSeed,
		Sampler: sampler,
	})
	defer w.Close()

	if *headless {
		runHeadless(w, cfg, sampler, *outputDir, *maxMoves, rngSeed)
		return
	}
	runWindowed(w, cfg, *maxMoves)
}

// runHeadless drives steps synchronously as fast as possible, writing
// one CSV record per stats window.
func runHeadless(w *ecosystem.World, cfg *config.Config, sampler *telemetry.MovesSampler, outputDir string, maxMoves, rngSeed int64) {
	out, err := telemetry.NewOutputManager(outputDir)
	if err != nil {
		slog.Error("failed to create output manager", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config snapshot", "error", err)
	}

	slog.Info("starting headless simulation",
		"seed", rngSeed,
		"max_moves", maxMoves,
		"output_dir", out.Dir(),
	)

	sim := w.Params()
	for {
		w.Step(sim.IterationCount, sim.EnergyGainRate)

		if sampler.Observe(w.MoveCounter(), time.Now()) {
			stats := w.WindowStats()
			if err := out.WriteWindow(stats); err != nil {
				slog.Error("failed to write telemetry window", "error", err)
			}
			slog.Info("window",
				"move_counter", stats.MoveCounter,
				"moves_per_sec", int64(stats.MovesPerSecond),
				"organisms", stats.OrganismCount,
				"shelters", stats.ShelterCount,
				"divisions", stats.Divisions,
				"deaths", stats.Deaths,
			)
		}

		if maxMoves > 0 && w.MoveCounter() >= maxMoves {
			slog.Info("max moves reached", "move_counter", w.MoveCounter())
			return
		}
	}
}

// runWindowed renders snapshots while the coordinator's own loop steps
// in the background.
func runWindowed(w *ecosystem.World, cfg *config.Config, maxMoves int64) {
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wriggle")
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	view := renderer.NewView(cfg, panelWidth)
	panel := renderer.NewPanel(float32(cfg.Screen.Width-panelWidth)+10, panelWidth-20, cfg)

	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyO) {
			w.AddOrganism()
		}
		if rl.IsKeyPressed(rl.KeyH) {
			w.AddShelter()
		}
		view.HandleInput()

		rl.BeginDrawing()
		rl.ClearBackground(rl.Color{R: 16, G: 18, B: 24, A: 255})
		view.Draw(w.Latest(), w.Running())
		action := panel.Draw(w.Running())
		rl.EndDrawing()

		if action.ToggleRun {
			if w.Running() {
				w.StopMoving()
			} else {
				w.StartMoving()
			}
		}
		if action.ApplyReset {
			w.Reset(panel.Sim())
		}

		if maxMoves > 0 && w.MoveCounter() >= maxMoves {
			break
		}
	}
	w.StopMoving()
}
