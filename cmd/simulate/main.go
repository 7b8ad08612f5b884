// Package main runs batches of encounter simulations from YAML content and
// reports how often each camp wins.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/encounter/internal/config"
	"github.com/cory-johannsen/encounter/internal/game/bestiary"
	"github.com/cory-johannsen/encounter/internal/game/dice"
	"github.com/cory-johannsen/encounter/internal/game/encounter"
	"github.com/cory-johannsen/encounter/internal/game/ruleset"
	"github.com/cory-johannsen/encounter/internal/game/weapon"
	"github.com/cory-johannsen/encounter/internal/observability"
	"github.com/cory-johannsen/encounter/internal/storage/postgres"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	rosterPath := flag.String("roster", "", "path to the encounter roster YAML file")
	runs := flag.Int("runs", 0, "number of encounters to simulate (0 = simulation.runs)")
	seed := flag.Uint64("seed", 0, "dice seed (0 = simulation.seed)")
	flag.Parse()

	if *rosterPath == "" {
		fmt.Fprintln(os.Stderr, "usage: simulate -roster <file> [-config <file>] [-runs N] [-seed S]")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *runs > 0 {
		cfg.Simulation.Runs = *runs
	}
	if *seed != 0 {
		cfg.Simulation.Seed = *seed
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	defs, err := weapon.LoadDefs(cfg.Content.WeaponsDir)
	if err != nil {
		logger.Fatal("loading weapons", zap.Error(err))
	}
	weapons, err := weapon.NewRegistryFrom(defs)
	if err != nil {
		logger.Fatal("registering weapons", zap.Error(err))
	}

	templates, err := bestiary.LoadTemplates(cfg.Content.CreaturesDir)
	if err != nil {
		logger.Fatal("loading creature templates", zap.Error(err))
	}
	beasts, err := bestiary.New(templates, weapons)
	if err != nil {
		logger.Fatal("building bestiary", zap.Error(err))
	}
	logger.Info("content loaded",
		zap.Int("weapons", len(defs)),
		zap.Int("creatures", beasts.Len()),
		zap.Duration("elapsed", time.Since(start)),
	)

	roster, err := encounter.LoadRoster(*rosterPath)
	if err != nil {
		logger.Fatal("loading roster", zap.Error(err))
	}

	src := dice.NewCryptoSource()
	if cfg.Simulation.Seed != 0 {
		src = dice.NewSeededSource(cfg.Simulation.Seed)
	}
	roller := dice.NewLoggedRoller(src, logger)

	opts := encounter.Options{MaxRounds: cfg.Simulation.MaxRounds, Logger: logger}
	batch, err := encounter.Simulate(ctx, roster.Name, cfg.Simulation.Runs, func(int) (*encounter.Encounter, error) {
		return encounter.FromRoster(roster, beasts, roller, opts)
	})
	if err != nil {
		logger.Fatal("simulating", zap.Error(err))
	}
	logger.Info("simulation complete",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("runs", batch.Runs),
		zap.Duration("elapsed", time.Since(start)),
	)

	printSummary(os.Stdout, batch)

	if !cfg.Database.Enabled {
		return
	}
	pool, err := postgres.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Fatal("connecting to database", zap.Error(err))
	}
	defer pool.Close()

	if err := postgres.NewResultRepository(pool.DB()).SaveBatch(ctx, batch); err != nil {
		logger.Fatal("saving batch", zap.Error(err))
	}
	logger.Info("batch saved", zap.String("batch_id", batch.ID.String()))
}

func printSummary(w io.Writer, b encounter.Batch) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "roster\t%s\n", b.Roster)
	fmt.Fprintf(tw, "batch\t%s\n", b.ID)
	fmt.Fprintf(tw, "runs\t%d\n", b.Runs)
	for _, camp := range []ruleset.Camp{ruleset.CampRed, ruleset.CampBlue} {
		fmt.Fprintf(tw, "%s wins\t%d\t(%.1f%%)\n", camp, b.Wins[camp], 100*b.WinRate(camp))
	}
	fmt.Fprintf(tw, "draws\t%d\n", b.Draws)
	fmt.Fprintf(tw, "mean rounds\t%.2f\n", b.MeanRounds())
	_ = tw.Flush()
}
