// Package mapgen builds BeeClust grids from layered simplex noise or from
// ASCII art.
package mapgen

import (
	"beeclust/internal/core"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenConfig holds map generation parameters.
type GenConfig struct {
	Width  int
	Height int
	Seed   int64
	// WallLevel is the normalized noise threshold above which a cell becomes
	// a wall. Values >= 1 disable interior walls.
	WallLevel float64
	// Border surrounds the map with walls.
	Border bool

	Heaters int
	Coolers int
	Bees    int
}

// DefaultGenConfig returns a medium arena with a single heater and cooler.
func DefaultGenConfig() GenConfig {
	return GenConfig{
		Width:     48,
		Height:    32,
		Seed:      1337,
		WallLevel: 0.7,
		Border:    true,
		Heaters:   1,
		Coolers:   1,
		Bees:      40,
	}
}

// Generate creates a grid from cfg. The same config always yields the same
// grid. Heaters, coolers and bees are placed on distinct free floor cells in
// that order; placement stops early when the floor runs out.
func Generate(cfg GenConfig) [][]int {
	if cfg.Width <= 0 {
		cfg.Width = 1
	}
	if cfg.Height <= 0 {
		cfg.Height = 1
	}
	g := core.NewGrid(cfg.Width, cfg.Height)
	noise := opensimplex.NewNormalized(cfg.Seed)

	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			border := x == 0 || y == 0 || x == g.W-1 || y == g.H-1
			if cfg.Border && border {
				g.Set(x, y, core.CellWall)
				continue
			}
			if octaveNoise(noise, float64(x), float64(y), 3, 0.12, 0.5) > cfg.WallLevel {
				g.Set(x, y, core.CellWall)
			}
		}
	}

	var free []int
	for idx, c := range g.Cells() {
		if c == core.CellEmpty {
			free = append(free, idx)
		}
	}
	rng := core.NewRNG(cfg.Seed + 1)
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })

	cells := g.Cells()
	place := func(n int, pick func() core.Cell) {
		for ; n > 0 && len(free) > 0; n-- {
			cells[free[0]] = pick()
			free = free[1:]
		}
	}
	place(cfg.Heaters, func() core.Cell { return core.CellHeater })
	place(cfg.Coolers, func() core.Cell { return core.CellCooler })
	place(cfg.Bees, func() core.Cell { return core.CellBeeUp + core.Cell(rng.IntN(4)) })

	return g.Rows()
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
