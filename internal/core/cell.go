package core

// Cell is the encoded content of one grid square. Non-negative values are
// terrain or a facing agent; negative values are a resting agent whose
// magnitude is the remaining wait.
type Cell int

const (
	CellEmpty Cell = iota
	CellWall
	CellHeater
	CellCooler
	CellBeeUp
	CellBeeRight
	CellBeeDown
	CellBeeLeft
)

// CellWaiting marks a resting agent that picks a new facing on its next tick.
const CellWaiting Cell = -1

// IsAgent reports whether the cell holds an agent in any state.
func (c Cell) IsAgent() bool { return c.IsFacing() || c.IsWaiting() }

// IsFacing reports whether the cell holds an agent facing a direction.
func (c Cell) IsFacing() bool { return c >= CellBeeUp && c <= CellBeeLeft }

// IsWaiting reports whether the cell holds a resting agent.
func (c Cell) IsWaiting() bool { return c < 0 }

// IsObstacle reports whether agents may never enter the cell.
func (c Cell) IsObstacle() bool {
	return c == CellWall || c == CellHeater || c == CellCooler
}

// String returns a short human readable name.
func (c Cell) String() string {
	switch {
	case c == CellEmpty:
		return "empty"
	case c == CellWall:
		return "wall"
	case c == CellHeater:
		return "heater"
	case c == CellCooler:
		return "cooler"
	case c == CellBeeUp:
		return "bee-up"
	case c == CellBeeRight:
		return "bee-right"
	case c == CellBeeDown:
		return "bee-down"
	case c == CellBeeLeft:
		return "bee-left"
	case c.IsWaiting():
		return "bee-waiting"
	default:
		return "unknown"
	}
}
