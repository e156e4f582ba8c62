package maze

import (
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedLayout = errors.New("malformed grid layout")

// Parse builds a grid from the textual form produced by String.
// The layout is taken literally: the border is not forced to be walled.
func Parse(layout string) (*Grid, error) {
	lines := strings.Split(strings.TrimSpace(layout), "\n")
	size := len(lines)
	g, err := New(size)
	if err != nil {
		return nil, err
	}

	for row, line := range lines {
		line = strings.TrimSpace(line)
		if len(line) != size {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformedLayout, row, len(line), size)
		}
		for col, ch := range line {
			pos := CellPosition{Row: row, Col: col}
			g.Cells[row][col].IsWall = false
			switch ch {
			case '#':
				g.Cells[row][col].IsWall = true
			case 'S':
				g.SetEntrance(pos)
			case 'E':
				g.SetExit(pos)
			case '.', '*':
			default:
				return nil, fmt.Errorf("%w: unexpected %q at %d,%d", ErrMalformedLayout, ch, row, col)
			}
		}
	}

	return g, nil
}
