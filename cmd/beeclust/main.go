// Command beeclust runs a BeeClust simulation without a window. It can
// resume from and save to a SQLite snapshot and stream frames over websocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"beeclust/internal/app"
	"beeclust/internal/mapgen"
	"beeclust/internal/persistence"
	"beeclust/internal/runner"
	"beeclust/internal/sims/beeclust"
	"beeclust/internal/stream"
)

func main() {
	cfg := app.NewConfig()
	cfg.TPS = 0
	cfg.Bind(flag.CommandLine)
	steps := flag.Int("steps", 1000, "ticks to simulate (0 runs until interrupted)")
	dbPath := flag.String("db", "", "SQLite file for snapshots (disabled when empty)")
	resume := flag.Bool("resume", false, "continue from the snapshot in -db when one exists")
	addr := flag.String("addr", "", "listen address for the frame stream, e.g. :8080")
	logEvery := flag.Int("log-every", 100, "log statistics every N ticks (0 disables)")
	saveEvery := flag.Int("save-every", 0, "save a snapshot every N ticks (0 saves only at the end)")
	dump := flag.Bool("print", false, "print the final grid as ASCII")
	level := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*level)); err != nil {
		fmt.Fprintf(os.Stderr, "invalid -log-level %q\n", *level)
		os.Exit(2)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	if err := run(cfg, options{
		steps:     *steps,
		dbPath:    *dbPath,
		resume:    *resume,
		addr:      *addr,
		logEvery:  *logEvery,
		saveEvery: *saveEvery,
		dump:      *dump,
	}, logger); err != nil {
		slog.Error("run failed", "error", err)
		os.Exit(1)
	}
}

type options struct {
	steps     int
	dbPath    string
	resume    bool
	addr      string
	logEvery  int
	saveEvery int
	dump      bool
}

func run(cfg *app.Config, opts options, logger *slog.Logger) error {
	var db *persistence.DB
	if opts.dbPath != "" {
		var err error
		db, err = persistence.Open(opts.dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		slog.Info("database opened", "path", opts.dbPath)
	}

	sim, runID, err := load(cfg, db, opts.resume, logger)
	if err != nil {
		return err
	}
	stats := sim.Stats()
	slog.Info("simulation ready",
		"run", runID,
		"size", fmt.Sprintf("%dx%d", sim.Size().W, sim.Size().H),
		"agents", stats.Agents,
		"tick", stats.Tick,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	var srv *stream.Server
	if opts.addr != "" {
		srv = stream.NewServer(logger)
		httpSrv := &http.Server{Addr: opts.addr, Handler: srv.Handler(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			slog.Info("stream listening", "addr", opts.addr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("stream server failed", "error", err)
			}
		}()
		defer func() {
			srv.Close()
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			httpSrv.Shutdown(shutdownCtx)
		}()
	}

	sum, err := runner.Run(ctx, sim, runner.Options{
		RunID:     runID,
		Steps:     opts.steps,
		TPS:       cfg.TPS,
		LogEvery:  opts.logEvery,
		SaveEvery: opts.saveEvery,
		DB:        db,
		Stream:    srv,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(sum)
	if opts.dump {
		fmt.Print(mapgen.FormatASCII(sim.Grid()))
	}
	return nil
}

// load resumes from the stored snapshot when asked and available, otherwise
// builds a fresh simulation from the map flags.
func load(cfg *app.Config, db *persistence.DB, resume bool, logger *slog.Logger) (*beeclust.Simulation, string, error) {
	if resume && db != nil {
		sim, snap, err := db.Restore(beeclust.WithLogger(logger))
		switch {
		case err == nil:
			slog.Info("resuming saved run", "run", snap.RunID, "tick", snap.Tick, "saved_at", snap.SavedAt)
			return sim, snap.RunID, nil
		case errors.Is(err, persistence.ErrNoSnapshot):
			slog.Info("no saved run found, starting fresh")
		default:
			return nil, "", err
		}
	}

	simCfg, err := cfg.SimConfig()
	if err != nil {
		return nil, "", err
	}
	rows, err := cfg.LoadGrid()
	if err != nil {
		return nil, "", err
	}
	sim, err := beeclust.New(rows, simCfg, beeclust.WithLogger(logger))
	if err != nil {
		return nil, "", err
	}
	return sim, uuid.NewString(), nil
}
