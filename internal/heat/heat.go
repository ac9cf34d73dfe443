// Package heat derives a static temperature field from grid terrain.
//
// Every non-special cell is warmed by its nearest heater and cooled by its
// nearest cooler, with influence falling off as 1/d where d is the 8-connected
// step distance found by breadth-first search. Walls are reachable during the
// search but never expanded, so heat does not leak through them. A grid with
// no heater (or no cooler) contributes nothing for the missing source and the
// affected cells settle at the environment temperature.
package heat

import (
	"math"

	"beeclust/internal/core"
)

// Params holds the thermal parameters of the field.
type Params struct {
	Heater float64
	Cooler float64
	Env    float64
	K      float64
}

// Field is a per-cell temperature array bound to a grid. It reads terrain
// from the grid on every Recompute; agent cells are treated as floor.
type Field struct {
	grid   *core.Grid
	params Params
	temps  []float64

	hasHeater bool
	hasCooler bool

	s *searcher
}

// offsets8 lists the eight neighbor deltas as (dx, dy).
var offsets8 = [8][2]int{{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}}

// New computes the field for grid.
func New(grid *core.Grid, p Params) *Field {
	f := &Field{grid: grid, params: p}
	f.Recompute()
	return f
}

// Params returns the thermal parameters.
func (f *Field) Params() Params { return f.params }

// Recompute rebuilds the field from the grid's current terrain and returns
// the backing slice. Callers must not modify it.
func (f *Field) Recompute() []float64 {
	g := f.grid
	total := g.W * g.H
	if len(f.temps) != total {
		f.temps = make([]float64, total)
	}
	if f.s == nil || len(f.s.seen) != total {
		f.s = newSearcher(total)
	}

	f.hasHeater, f.hasCooler = false, false
	for _, c := range g.Cells() {
		switch c {
		case core.CellHeater:
			f.hasHeater = true
		case core.CellCooler:
			f.hasCooler = true
		}
	}

	for idx, c := range g.Cells() {
		switch c {
		case core.CellHeater:
			f.temps[idx] = f.params.Heater
		case core.CellCooler:
			f.temps[idx] = f.params.Cooler
		case core.CellWall:
			f.temps[idx] = math.NaN()
		default:
			x, y := g.Coordinate(idx)
			dh, dc := f.s.nearest(g, x, y, f.hasHeater, f.hasCooler)
			f.temps[idx] = f.params.temperature(dh, dc)
		}
	}
	return f.temps
}

// At returns the temperature at column x, row y.
func (f *Field) At(x, y int) float64 { return f.temps[f.grid.Index(x, y)] }

// Values returns a copy of the field in row-major order.
func (f *Field) Values() []float64 { return append([]float64(nil), f.temps...) }

// Rows returns a copy of the field as a [][]float64.
func (f *Field) Rows() [][]float64 {
	g := f.grid
	rows := make([][]float64, g.H)
	for y := 0; y < g.H; y++ {
		rows[y] = append([]float64(nil), f.temps[y*g.W:(y+1)*g.W]...)
	}
	return rows
}

// HasHeater reports whether the last computation found a heater.
func (f *Field) HasHeater() bool { return f.hasHeater }

// HasCooler reports whether the last computation found a cooler.
func (f *Field) HasCooler() bool { return f.hasCooler }

// Degenerate reports whether the grid had neither heater nor cooler.
func (f *Field) Degenerate() bool { return !f.hasHeater && !f.hasCooler }

// Compute is a one-shot helper returning the field values for grid.
func Compute(grid *core.Grid, p Params) []float64 {
	return New(grid, p).temps
}

// Distances runs the search from column x, row y and returns the step
// distance to the nearest heater and cooler, or -1 when none is reachable.
func Distances(grid *core.Grid, x, y int) (heater, cooler int) {
	s := newSearcher(grid.W * grid.H)
	return s.nearest(grid, x, y, true, true)
}

// temperature applies the 1/d falloff. Negative distances mean the source
// does not exist or is unreachable and contribute nothing.
func (p Params) temperature(dHeater, dCooler int) float64 {
	heating, cooling := 0.0, 0.0
	if dHeater > 0 {
		heating = math.Max(0, (p.Heater-p.Env)/float64(dHeater))
	}
	if dCooler > 0 {
		cooling = math.Max(0, (p.Env-p.Cooler)/float64(dCooler))
	}
	return p.Env + p.K*(heating-cooling)
}

// searcher keeps BFS scratch space between calls. seen holds the generation
// stamp of the last search that reached a cell.
type searcher struct {
	seen  []uint32
	gen   uint32
	queue []int
	depth []int
}

func newSearcher(total int) *searcher {
	return &searcher{
		seen:  make([]uint32, total),
		queue: make([]int, 0, total),
		depth: make([]int, total),
	}
}

// nearest performs one breadth-first search from (x0, y0). wantHeater and
// wantCooler allow early exit once every existing source kind is found.
func (s *searcher) nearest(g *core.Grid, x0, y0 int, wantHeater, wantCooler bool) (int, int) {
	s.gen++
	if s.gen == 0 {
		for i := range s.seen {
			s.seen[i] = 0
		}
		s.gen = 1
	}
	dHeater, dCooler := -1, -1
	start := g.Index(x0, y0)
	s.queue = append(s.queue[:0], start)
	s.seen[start] = s.gen
	s.depth[start] = 0

	for qi := 0; qi < len(s.queue); qi++ {
		u := s.queue[qi]
		d := s.depth[u]
		switch g.Cells()[u] {
		case core.CellHeater:
			if dHeater < 0 {
				dHeater = d
			}
		case core.CellCooler:
			if dCooler < 0 {
				dCooler = d
			}
		case core.CellWall:
			if u != start {
				continue
			}
		}
		if (dHeater >= 0 || !wantHeater) && (dCooler >= 0 || !wantCooler) {
			break
		}
		ux, uy := g.Coordinate(u)
		for _, off := range offsets8 {
			vx, vy := ux+off[0], uy+off[1]
			if !g.InBounds(vx, vy) {
				continue
			}
			v := g.Index(vx, vy)
			if s.seen[v] == s.gen {
				continue
			}
			s.seen[v] = s.gen
			s.depth[v] = d + 1
			s.queue = append(s.queue, v)
		}
	}
	return dHeater, dCooler
}
