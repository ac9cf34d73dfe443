package ui

import (
	"image/color"

	"beeclust/internal/core"
	"beeclust/internal/sims/beeclust"
)

// Sim is the simulation surface drawn by the viewer.
type Sim interface {
	core.Sim
	Palette() []color.RGBA
	Params() beeclust.Params
	HeatValues() []float64
	Clusters() [][]beeclust.Position
	Parameters() core.ParameterSnapshot
	ResetMemory()
}

var _ Sim = (*beeclust.Simulation)(nil)

// LargestClusterMask returns one intensity per cell: 1 for members of the
// largest cluster, 0.35 for members of other clusters and 0 elsewhere.
func LargestClusterMask(sim Sim) []float32 {
	size := sim.Size()
	mask := make([]float32, size.W*size.H)
	clusters := sim.Clusters()
	lead := -1
	for i, c := range clusters {
		if lead < 0 || len(c) > len(clusters[lead]) {
			lead = i
		}
	}
	for i, c := range clusters {
		v := float32(0.35)
		if i == lead {
			v = 1
		}
		for _, p := range c {
			mask[p.Row*size.W+p.Col] = v
		}
	}
	return mask
}
