package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/cytosoup/config"
	"github.com/pthm-cable/cytosoup/observer"
	"github.com/pthm-cable/cytosoup/sim"
	"github.com/pthm-cable/cytosoup/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per loop iteration (speed multiplier)")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	listen := flag.String("listen", "", "Address for the WebSocket observer (empty = disabled)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")
	logPerf := flag.Bool("log-perf", false, "Output phase timings via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	// Structured JSON logging to stdout
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	s, err := sim.New(sim.Options{Seed: rngSeed, StatsWindowSec: *statsWindow})
	if err != nil {
		slog.Error("failed to create simulation", "error", err)
		os.Exit(1)
	}
	defer s.Close()

	if err := s.SeedCell(); err != nil {
		slog.Error("failed to seed cell", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Warn("config snapshot failed", "error", err)
	}

	var bcast *observer.Broadcaster
	if *listen != "" {
		bcast = observer.NewBroadcaster()
		defer bcast.Close()
		observer.Serve(*listen, bcast)
		slog.Info("observer listening", "addr", *listen)
	}

	slog.Info("starting simulation",
		"seed", rngSeed,
		"particles", s.Count(),
		"capacity", cfg.Store.Capacity,
		"max_ticks", *maxTicks,
		"steps_per_update", *stepsPerUpdate,
		"run_dir", out.Dir(),
	)

	growthRate := float32(cfg.Capsule.GrowthRate) * cfg.Derived.DT32
	divisionLength := float32(cfg.Capsule.DivisionLength)

	for {
		for i := 0; i < *stepsPerUpdate; i++ {
			s.Step()

			// External growth driver: the capsule elongates each tick and
			// the cell divides once it reaches the configured length.
			s.SetBoundaryLength(s.BoundaryLength() + growthRate)
			if divisionLength > 0 && s.BoundaryLength() >= divisionLength {
				slog.Info("division", "tick", s.Tick(), "particles", s.Count())
				s.Divide()
			}
		}

		if s.StatsDue() {
			stats := s.FlushWindowStats()
			if err := out.WriteTelemetry(stats); err != nil {
				slog.Warn("telemetry write failed", "error", err)
			}
			perf := s.Perf().Stats()
			if err := out.WritePerf(perf, stats.WindowEndTick); err != nil {
				slog.Warn("perf write failed", "error", err)
			}
			if *logStats {
				slog.Info("window",
					"tick", stats.WindowEndTick,
					"proteins", stats.Proteins,
					"mrna", stats.MRNA,
					"transcripts", stats.Transcripts,
					"translations", stats.Translations,
					"energy", stats.EnergyLevel,
					"capsule_length", stats.CapsuleLength,
				)
			}
			if *logPerf {
				slog.Info("perf",
					"avg_tick", perf.AvgTickDuration.Round(time.Microsecond).String(),
					"ticks_per_sec", perf.TicksPerSecond,
				)
			}
			if bcast != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				if err := bcast.Broadcast(ctx, s.Snapshot(true)); err != nil {
					slog.Warn("broadcast failed", "error", err)
				}
				cancel()
			}
		}

		if *maxTicks > 0 && s.Tick() >= *maxTicks {
			slog.Info("max ticks reached", "tick", s.Tick())
			return
		}
	}
}
