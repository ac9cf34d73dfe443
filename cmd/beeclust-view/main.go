//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log/slog"
	"os"

	"beeclust/internal/app"
	"beeclust/internal/sims/beeclust"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	simCfg, err := cfg.SimConfig()
	if err != nil {
		logger.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	rows, err := cfg.LoadGrid()
	if err != nil {
		logger.Error("load map", "err", err)
		os.Exit(1)
	}
	sim, err := beeclust.New(rows, simCfg, beeclust.WithLogger(logger))
	if err != nil {
		logger.Error("create simulation", "err", err)
		os.Exit(1)
	}

	game := app.New(sim, cfg.Scale, cfg.HUDWidth)
	w, h := game.ScreenSize()

	ebiten.SetWindowTitle("beeclust")
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowSize(w, h)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Error("viewer stopped", "err", err)
		os.Exit(1)
	}
}
