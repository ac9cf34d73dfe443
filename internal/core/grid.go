package core

import "errors"

var (
	// ErrEmptyGrid indicates the input has no rows or no columns.
	ErrEmptyGrid = errors.New("core: grid must have at least one row and one column")
	// ErrNonRectangular indicates rows of differing lengths.
	ErrNonRectangular = errors.New("core: all grid rows must have the same length")
)

// Grid stores a 2D grid of cell values in row-major order. W is the number of
// columns and H the number of rows; (x, y) addresses column x of row y.
type Grid struct {
	W, H int
	data []Cell
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(w, h int) *Grid {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Grid{W: w, H: h, data: make([]Cell, w*h)}
}

// GridFromRows deep-copies a rectangular [][]int into a Grid.
func GridFromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	h, w := len(rows), len(rows[0])
	for _, row := range rows {
		if len(row) != w {
			return nil, ErrNonRectangular
		}
	}
	g := &Grid{W: w, H: h, data: make([]Cell, w*h)}
	for y, row := range rows {
		for x, v := range row {
			g.data[y*w+x] = Cell(v)
		}
	}
	return g, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []Cell { return g.data }

// Index returns the linear slice index for coordinates (x, y).
func (g *Grid) Index(x, y int) int { return y*g.W + x }

// Coordinate converts a linear index back to (x, y).
func (g *Grid) Coordinate(idx int) (x, y int) { return idx % g.W, idx / g.W }

// InBounds reports whether (x, y) lies inside the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.W && y >= 0 && y < g.H
}

// At returns the cell at (x, y). Coordinates must be in bounds.
func (g *Grid) At(x, y int) Cell { return g.data[y*g.W+x] }

// Set stores c at (x, y). Coordinates must be in bounds.
func (g *Grid) Set(x, y int, c Cell) { g.data[y*g.W+x] = c }

// Rows returns a copy of the grid as a [][]int.
func (g *Grid) Rows() [][]int {
	rows := make([][]int, g.H)
	for y := 0; y < g.H; y++ {
		row := make([]int, g.W)
		for x := 0; x < g.W; x++ {
			row[x] = int(g.data[y*g.W+x])
		}
		rows[y] = row
	}
	return rows
}

