// Package beeclust implements the BeeClust swarm model: anonymous agents on a
// grid wander, bump into walls and each other, and rest for longer the closer
// the local temperature is to their ideal. Resting agents aggregate into
// clusters around comfortable spots of a static heat field.
//
// The grid is the only state. Each cell holds terrain, an agent facing one of
// four directions, or a resting agent whose negative value counts the ticks
// left before it picks a new direction.
package beeclust

import (
	"fmt"
	"log/slog"

	"beeclust/internal/core"
	"beeclust/internal/heat"
)

// Position addresses a grid square by row and column.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Rand is the randomness consumed by Step. *core.RNG and *rand.Rand from
// math/rand/v2 both satisfy it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// Option customizes a Simulation at construction.
type Option func(*Simulation)

// WithRand replaces the seeded default random source.
func WithRand(r Rand) Option {
	return func(s *Simulation) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTick starts the tick counter at tick, used when resuming a saved grid.
func WithTick(tick uint64) Option {
	return func(s *Simulation) { s.tick = tick }
}

// Stats summarizes the current state.
type Stats struct {
	Tick           uint64  `json:"tick"`
	Agents         int     `json:"agents"`
	Clusters       int     `json:"clusters"`
	LargestCluster int     `json:"largest_cluster"`
	Score          float64 `json:"score"`
	Moved          int     `json:"moved"`
}

// Simulation owns a grid of agents and terrain and advances it one tick at a
// time. It is not safe for concurrent use.
type Simulation struct {
	cfg  Config
	grid *core.Grid
	heat *heat.Field

	rng    Rand
	logger *slog.Logger

	tick      uint64
	lastMoved int
	display   []uint8
}

// New validates rows and cfg and builds the heat field from the initial
// terrain. rows is copied; later changes to it do not affect the simulation.
func New(rows [][]int, cfg Config, opts ...Option) (*Simulation, error) {
	grid, err := core.GridFromRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDimension, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Simulation{
		cfg:     cfg,
		grid:    grid,
		display: make([]uint8, grid.W*grid.H),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = core.NewRNG(cfg.Seed)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}

	s.heat = heat.New(grid, cfg.heatParams())
	s.logHeatField()
	s.logger.Debug("simulation ready",
		"rows", grid.H,
		"cols", grid.W,
		"agents", len(s.AgentPositions()),
		"seed", cfg.Seed,
	)
	return s, nil
}

func (c Config) heatParams() heat.Params {
	return heat.Params{
		Heater: c.Params.THeater,
		Cooler: c.Params.TCooler,
		Env:    c.Params.TEnv,
		K:      c.Params.KTemp,
	}
}

func (s *Simulation) logHeatField() {
	switch {
	case s.heat.Degenerate():
		s.logger.Warn("grid has no heater and no cooler, heat field is flat", "t_env", s.cfg.Params.TEnv)
	case !s.heat.HasHeater():
		s.logger.Warn("grid has no heater")
	case !s.heat.HasCooler():
		s.logger.Warn("grid has no cooler")
	}
}

// Name returns the simulation identifier.
func (s *Simulation) Name() string { return "beeclust" }

// Size reports the grid dimensions.
func (s *Simulation) Size() core.Size { return core.Size{W: s.grid.W, H: s.grid.H} }

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() Config { return s.cfg }

// Params returns the model parameters.
func (s *Simulation) Params() Params { return s.cfg.Params }

// Tick returns the number of completed steps.
func (s *Simulation) Tick() uint64 { return s.tick }

// Grid returns a copy of the current grid.
func (s *Simulation) Grid() [][]int { return s.grid.Rows() }

// HeatField returns a copy of the heat field. Wall cells hold NaN.
func (s *Simulation) HeatField() [][]float64 { return s.heat.Rows() }

// HeatValues returns a row-major copy of the heat field.
func (s *Simulation) HeatValues() []float64 { return s.heat.Values() }

// HeatAt returns the heat field value at p.
func (s *Simulation) HeatAt(p Position) float64 { return s.heat.At(p.Col, p.Row) }

// RecomputeHeatField rebuilds the heat field from the current terrain and
// returns a row-major copy of it.
func (s *Simulation) RecomputeHeatField() []float64 {
	s.heat.Recompute()
	s.logHeatField()
	return s.heat.Values()
}

// AgentPositions lists every agent, facing or resting, in row-major order.
func (s *Simulation) AgentPositions() []Position {
	var out []Position
	for idx, c := range s.grid.Cells() {
		if c.IsAgent() {
			out = append(out, s.position(idx))
		}
	}
	return out
}

// Clusters partitions the agents into 4-connected groups. Groups are
// discovered in row-major order of their first member and filled
// breadth-first.
func (s *Simulation) Clusters() [][]Position {
	g := s.grid
	cells := g.Cells()
	seen := make([]bool, len(cells))
	var clusters [][]Position

	for i0, c := range cells {
		if !c.IsAgent() || seen[i0] {
			continue
		}
		queue := []int{i0}
		seen[i0] = true
		var cluster []Position
		for qi := 0; qi < len(queue); qi++ {
			u := queue[qi]
			cluster = append(cluster, s.position(u))
			ux, uy := g.Coordinate(u)
			for _, d := range offsets4 {
				vx, vy := ux+d[0], uy+d[1]
				if !g.InBounds(vx, vy) {
					continue
				}
				v := g.Index(vx, vy)
				if seen[v] || !cells[v].IsAgent() {
					continue
				}
				seen[v] = true
				queue = append(queue, v)
			}
		}
		clusters = append(clusters, cluster)
	}
	return clusters
}

// Score returns the mean heat field value over all agents, or 0 when the
// grid holds none.
func (s *Simulation) Score() float64 {
	agents := s.AgentPositions()
	if len(agents) == 0 {
		return 0.0
	}
	sum := 0.0
	for _, p := range agents {
		sum += s.HeatAt(p)
	}
	return sum / float64(len(agents))
}

// ResetMemory puts every agent into the resting state that re-picks its
// direction on the next tick.
func (s *Simulation) ResetMemory() {
	cells := s.grid.Cells()
	for i, c := range cells {
		if c.IsAgent() {
			cells[i] = core.CellWaiting
		}
	}
}

// Stats summarizes the current grid.
func (s *Simulation) Stats() Stats {
	clusters := s.Clusters()
	st := Stats{
		Tick:     s.tick,
		Clusters: len(clusters),
		Score:    s.Score(),
		Moved:    s.lastMoved,
	}
	for _, c := range clusters {
		st.Agents += len(c)
		if len(c) > st.LargestCluster {
			st.LargestCluster = len(c)
		}
	}
	return st
}

func (s *Simulation) position(idx int) Position {
	x, y := s.grid.Coordinate(idx)
	return Position{Row: y, Col: x}
}

func (s *Simulation) inBounds(p Position) bool { return s.grid.InBounds(p.Col, p.Row) }

func (s *Simulation) cell(p Position) core.Cell { return s.grid.At(p.Col, p.Row) }

func (s *Simulation) set(p Position, c core.Cell) { s.grid.Set(p.Col, p.Row, c) }
