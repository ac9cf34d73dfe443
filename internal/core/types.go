package core

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim is the contract the viewer and runners drive. Step returns the number
// of agents that moved during the tick; Cells returns one palette index per
// grid square in row-major order.
type Sim interface {
	Name() string
	Size() Size
	Step() int
	Cells() []uint8
}
