package core

import (
	"errors"
	"slices"
	"testing"
)

func TestGridFromRowsCopiesInput(t *testing.T) {
	rows := [][]int{{0, 1, 2}, {4, -3, 7}}
	g, err := GridFromRows(rows)
	if err != nil {
		t.Fatalf("GridFromRows: %v", err)
	}
	if g.W != 3 || g.H != 2 {
		t.Fatalf("unexpected size %dx%d", g.W, g.H)
	}
	rows[0][0] = 9
	if g.At(0, 0) != CellEmpty {
		t.Fatal("grid must not alias its input")
	}
	if g.At(1, 1) != -3 || g.At(2, 1) != CellBeeLeft {
		t.Fatalf("unexpected cells %v", g.Cells())
	}

	out := g.Rows()
	out[1][0] = 0
	if g.At(0, 1) != CellBeeUp {
		t.Fatal("Rows must return a copy")
	}
}

func TestGridFromRowsErrors(t *testing.T) {
	if _, err := GridFromRows(nil); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("nil rows: got %v", err)
	}
	if _, err := GridFromRows([][]int{{}, {}}); !errors.Is(err, ErrEmptyGrid) {
		t.Fatalf("empty rows: got %v", err)
	}
	if _, err := GridFromRows([][]int{{0, 0}, {0, 0, 0}}); !errors.Is(err, ErrNonRectangular) {
		t.Fatalf("ragged rows: got %v", err)
	}
}

func TestGridIndexing(t *testing.T) {
	g := NewGrid(4, 3)
	for idx := range g.Cells() {
		x, y := g.Coordinate(idx)
		if g.Index(x, y) != idx {
			t.Fatalf("index %d round-trips to %d", idx, g.Index(x, y))
		}
	}
	if g.InBounds(4, 0) || g.InBounds(0, 3) || g.InBounds(-1, 0) || !g.InBounds(3, 2) {
		t.Fatal("InBounds mismatch")
	}
	g.Set(3, 2, CellHeater)
	if g.Cells()[11] != CellHeater {
		t.Fatalf("Set wrote to the wrong index: %v", g.Cells())
	}
}

func TestCellPredicates(t *testing.T) {
	for _, c := range []Cell{CellBeeUp, CellBeeRight, CellBeeDown, CellBeeLeft} {
		if !c.IsAgent() || !c.IsFacing() || c.IsWaiting() || c.IsObstacle() {
			t.Fatalf("%v misclassified", c)
		}
	}
	for _, c := range []Cell{CellWaiting, -2, -50} {
		if !c.IsAgent() || c.IsFacing() || !c.IsWaiting() {
			t.Fatalf("%d misclassified", c)
		}
	}
	obstacles := []Cell{CellWall, CellHeater, CellCooler}
	for c := Cell(-3); c <= CellBeeLeft; c++ {
		if got := c.IsObstacle(); got != slices.Contains(obstacles, c) {
			t.Fatalf("IsObstacle(%v) = %v", c, got)
		}
	}
	if CellEmpty.IsAgent() {
		t.Fatal("empty cell is not an agent")
	}
}
