package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/zgscript/internal/ai"
	"github.com/udisondev/zgscript/internal/config"
	"github.com/udisondev/zgscript/internal/db"
	"github.com/udisondev/zgscript/internal/game/raid"
	"github.com/udisondev/zgscript/internal/game/zulgurub"
	"github.com/udisondev/zgscript/internal/model"
	"github.com/udisondev/zgscript/internal/sim"
)

func newRunCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one fight",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFight(cmd.Context(), cmd, v)
		},
	}

	f := cmd.Flags()
	f.Int("players", 0, "number of players (default from config)")
	f.Int32("dps", 0, "damage per second of each player (default from config)")
	f.Duration("duration", 0, "fight time limit (default from config)")
	f.Duration("step", 0, "simulation tick (default from config)")
	f.Uint64("seed", 0, "random seed (default from config)")
	f.String("dsn", "", "PostgreSQL DSN for encounter progress; in-memory when empty")
	f.Bool("realtime", false, "tick on the wall clock instead of as fast as possible")
	f.Bool("watch", false, "reload encounter tuning when the config file changes")

	for _, name := range []string{"players", "dps", "duration", "step", "seed", "dsn", "realtime", "watch"} {
		_ = v.BindPFlag(name, f.Lookup(name))
	}
	return cmd
}

// loadSimulator reads the config file and applies flag and environment overrides.
func loadSimulator(v *viper.Viper) (config.Simulator, error) {
	cfg, err := config.LoadSimulator(v.GetString("config"))
	if err != nil {
		return cfg, fmt.Errorf("loading simulator config: %w", err)
	}

	if v.IsSet("log-level") {
		cfg.LogLevel = v.GetString("log-level")
	}
	if v.IsSet("players") {
		cfg.Players = v.GetInt("players")
	}
	if v.IsSet("dps") {
		cfg.PlayerDPS = v.GetInt32("dps")
	}
	if v.IsSet("duration") {
		cfg.Duration = v.GetDuration("duration")
	}
	if v.IsSet("step") {
		cfg.TickInterval = v.GetDuration("step")
	}
	if v.IsSet("seed") {
		cfg.Seed = v.GetUint64("seed")
	}
	if v.IsSet("realtime") {
		cfg.Realtime = v.GetBool("realtime")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("simulator config: %w", err)
	}
	return cfg, nil
}

func runFight(ctx context.Context, cmd *cobra.Command, v *viper.Viper) error {
	simCfg, err := loadSimulator(v)
	if err != nil {
		return err
	}

	logLevel := parseLogLevel(simCfg.LogLevel)
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))
	ai.EnableDebugLogging(logLevel == slog.LevelDebug)

	cfgPath := v.GetString("config")
	if v.GetBool("watch") && cfgPath == "" {
		return errors.New("--watch needs --config")
	}
	encCfg, err := config.LoadEncounter(cfgPath)
	if err != nil {
		return fmt.Errorf("loading encounter config: %w", err)
	}
	var tuning atomic.Pointer[config.Encounter]
	tuning.Store(&encCfg)

	store, closeStore, err := openStore(ctx, v, simCfg)
	if err != nil {
		return err
	}
	defer closeStore()

	progress := raid.NewEncounterManager(store)
	if err := progress.Init(ctx); err != nil {
		return fmt.Errorf("loading encounter progress: %w", err)
	}

	world, err := sim.New(simCfg, func() config.Encounter { return *tuning.Load() }, func(name string, s model.EncounterState) {
		progress.Record(name, s)
	})
	if err != nil {
		return fmt.Errorf("creating world: %w", err)
	}

	slog.Info("encountersim starting",
		"players", simCfg.Players,
		"dps", simCfg.PlayerDPS,
		"duration", simCfg.Duration,
		"step", simCfg.TickInterval,
		"realtime", simCfg.Realtime)

	g, gctx := errgroup.WithContext(ctx)
	loops, stopLoops := context.WithCancel(gctx)
	defer stopLoops()

	var res sim.Result
	g.Go(func() error {
		defer stopLoops()
		var err error
		if simCfg.Realtime {
			res, err = world.RunRealtime(gctx)
		} else {
			res, err = world.Run(gctx)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("simulation: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		err := progress.RunSaveLoop(loops, simCfg.SaveInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("encounter save loop: %w", err)
		}
		return nil
	})

	if v.GetBool("watch") {
		g.Go(func() error {
			slog.Info("watching encounter tuning", "path", cfgPath)
			return config.Watch(loops, cfgPath, func(e config.Encounter) {
				tuning.Store(&e)
			})
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	row, _ := progress.Progress(zulgurub.EncounterJeklik)
	return printSummary(cmd.OutOrStdout(), res, row, encCfg)
}

// openStore picks PostgreSQL when a DSN is configured, else process memory.
func openStore(ctx context.Context, v *viper.Viper, cfg config.Simulator) (raid.EncounterStore, func(), error) {
	dsn := v.GetString("dsn")
	if dsn == "" && cfg.Persist {
		dsn = cfg.Database.DSN()
	}
	if dsn == "" {
		return raid.NewMemoryStore(), func() {}, nil
	}

	database, err := db.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	slog.Info("database connected")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.RunMigrations(connectCtx, dsn); err != nil {
		database.Close()
		return nil, nil, fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database migrations applied")

	return &encounterStoreAdapter{repo: db.NewEncounterRepository(database.Pool())}, database.Close, nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
