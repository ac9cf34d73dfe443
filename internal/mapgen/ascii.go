package mapgen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"beeclust/internal/core"
)

// ErrUnknownSymbol is returned when an ASCII map contains a character with
// no cell mapping.
var ErrUnknownSymbol = errors.New("mapgen: unknown map symbol")

var symbols = map[rune]core.Cell{
	'.': core.CellEmpty,
	'#': core.CellWall,
	'H': core.CellHeater,
	'C': core.CellCooler,
	'^': core.CellBeeUp,
	'>': core.CellBeeRight,
	'v': core.CellBeeDown,
	'<': core.CellBeeLeft,
	'w': core.CellWaiting,
}

// ParseASCII reads a map, one grid row per line. Blank lines are skipped.
func ParseASCII(r io.Reader) ([][]int, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("mapgen: read map: %w", err)
	}
	return ParseASCIILines(lines)
}

// ParseASCIILines converts map lines to a grid.
func ParseASCIILines(lines []string) ([][]int, error) {
	var rows [][]int
	for n, line := range lines {
		line = strings.TrimRight(line, "\r \t")
		if line == "" {
			continue
		}
		row := make([]int, 0, len(line))
		for col, ch := range []rune(line) {
			c, ok := symbols[ch]
			if !ok {
				return nil, fmt.Errorf("%w %q at line %d column %d", ErrUnknownSymbol, ch, n+1, col+1)
			}
			row = append(row, int(c))
		}
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: line %d has %d cells, want %d", core.ErrNonRectangular, n+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyGrid
	}
	return rows, nil
}

// FormatASCII renders rows with the symbols understood by ParseASCII. Every
// resting agent is written as 'w', so countdowns are not preserved.
func FormatASCII(rows [][]int) string {
	var b strings.Builder
	for _, row := range rows {
		for _, v := range row {
			b.WriteRune(symbol(core.Cell(v)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func symbol(c core.Cell) rune {
	if c.IsWaiting() {
		return 'w'
	}
	for r, cell := range symbols {
		if cell == c {
			return r
		}
	}
	return '?'
}
