package beeclust

import (
	"image/color"

	"beeclust/internal/core"
)

// Display palette indices written by Cells.
const (
	displayEmpty uint8 = iota
	displayWall
	displayHeater
	displayCooler
	displayBeeUp
	displayBeeRight
	displayBeeDown
	displayBeeLeft
	displayResting
)

var beeclustPalette = []color.RGBA{
	displayEmpty:    {R: 28, G: 26, B: 22, A: 255},
	displayWall:     {R: 120, G: 120, B: 128, A: 255},
	displayHeater:   {R: 230, G: 70, B: 40, A: 255},
	displayCooler:   {R: 60, G: 130, B: 230, A: 255},
	displayBeeUp:    {R: 250, G: 200, B: 40, A: 255},
	displayBeeRight: {R: 250, G: 200, B: 40, A: 255},
	displayBeeDown:  {R: 250, G: 200, B: 40, A: 255},
	displayBeeLeft:  {R: 250, G: 200, B: 40, A: 255},
	displayResting:  {R: 170, G: 120, B: 20, A: 255},
}

// Palette exposes the color palette used for rendering the grid.
func (s *Simulation) Palette() []color.RGBA {
	return beeclustPalette
}

// Cells refreshes and returns the display buffer: one palette index per cell
// in row-major order.
func (s *Simulation) Cells() []uint8 {
	for i, c := range s.grid.Cells() {
		s.display[i] = displayIndex(c)
	}
	return s.display
}

func displayIndex(c core.Cell) uint8 {
	switch {
	case c.IsWaiting():
		return displayResting
	case c >= core.CellEmpty && c <= core.CellBeeLeft:
		return uint8(c)
	default:
		return displayEmpty
	}
}
