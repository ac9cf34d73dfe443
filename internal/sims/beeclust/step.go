package beeclust

import (
	"math"

	"beeclust/internal/core"
)

// facings lists the agent directions in clockwise order.
var facings = [4]core.Cell{core.CellBeeUp, core.CellBeeRight, core.CellBeeDown, core.CellBeeLeft}

// offsets4 lists orthogonal neighbor deltas as (dx, dy).
var offsets4 = [4][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}}

// heading returns the (row, col) delta of a facing cell.
func heading(c core.Cell) (int, int) {
	switch c {
	case core.CellBeeUp:
		return -1, 0
	case core.CellBeeRight:
		return 0, 1
	case core.CellBeeDown:
		return 1, 0
	case core.CellBeeLeft:
		return 0, -1
	}
	return 0, 0
}

func opposite(c core.Cell) core.Cell {
	switch c {
	case core.CellBeeUp:
		return core.CellBeeDown
	case core.CellBeeDown:
		return core.CellBeeUp
	case core.CellBeeRight:
		return core.CellBeeLeft
	case core.CellBeeLeft:
		return core.CellBeeRight
	}
	return c
}

// Step advances every agent once and returns how many of them moved.
//
// Agents are visited in row-major order of their positions at the start of
// the tick. An agent that moves is never visited again in the same tick, and
// a cell vacated earlier in the tick may be entered by an agent visited later.
func (s *Simulation) Step() int {
	agents := s.AgentPositions()
	moved := 0
	for _, p := range agents {
		if s.advance(p) {
			moved++
		}
	}
	s.tick++
	s.lastMoved = moved
	return moved
}

// advance runs the state machine for the agent at p.
func (s *Simulation) advance(p Position) bool {
	c := s.cell(p)
	switch {
	case c < core.CellWaiting:
		s.set(p, c+1)
		return false
	case c == core.CellWaiting:
		s.set(p, facings[s.rng.IntN(len(facings))])
		return false
	case !c.IsFacing():
		return false
	}

	if s.rng.Float64() < s.cfg.Params.PChangeDir {
		c = s.turn(c)
		s.set(p, c)
	}

	dr, dc := heading(c)
	to := Position{Row: p.Row + dr, Col: p.Col + dc}
	if !s.inBounds(to) || s.cell(to).IsObstacle() {
		if s.rng.Float64() < s.cfg.Params.PWall {
			s.rest(p)
		} else {
			s.set(p, opposite(c))
		}
		return false
	}
	if s.cell(to).IsAgent() {
		if s.rng.Float64() < s.cfg.Params.PMeet {
			s.rest(p)
		}
		return false
	}

	s.set(to, c)
	s.set(p, core.CellEmpty)
	return true
}

// turn picks one of the three facings other than c.
func (s *Simulation) turn(c core.Cell) core.Cell {
	pick := s.rng.IntN(len(facings) - 1)
	for _, f := range facings {
		if f == c {
			continue
		}
		if pick == 0 {
			return f
		}
		pick--
	}
	return c
}

// rest puts the agent at p to sleep for a temperature-dependent number of
// ticks. A zero wait still stores CellWaiting so the agent is never erased.
func (s *Simulation) rest(p Position) {
	n := WaitDuration(s.cfg.Params, s.HeatAt(p))
	if n < 1 {
		n = 1
	}
	s.set(p, core.Cell(-n))
}

// WaitDuration returns the number of ticks an agent rests at local
// temperature t: KStay scaled down by the distance from TIdeal, rounded to
// the nearest tick and never shorter than MinWait.
func WaitDuration(p Params, t float64) int {
	n := int(math.Round(p.KStay / (1 + math.Abs(p.TIdeal-t))))
	if n < p.MinWait {
		n = p.MinWait
	}
	return n
}
