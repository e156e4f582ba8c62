/*
Package maze provides the square grid the traveler moves on.

A Grid is a fixed size matrix of Cell values whose border is walled at creation time.
It tracks at most one entrance and one exit, lets obstacles be placed on free cells and can
be reset or filled with a randomly generated maze. Out of bounds positions are ignored by every
mutation, so callers may forward raw clicks.
*/
package maze

import (
	"errors"
	"strings"
)

const (
	// DefaultSize is the reference grid dimension.
	DefaultSize = 50

	maxGridDimension = 500
)

var (
	// Directions lists the four orthogonal moves in a fixed order: up, down, left, right.
	Directions = [4]CellPosition{
		{Row: -1, Col: 0},
		{Row: 1, Col: 0},
		{Row: 0, Col: -1},
		{Row: 0, Col: 1},
	}

	ErrInvalidDimension = errors.New("invalid grid dimension")
)

// Grid is a square matrix of cells with a walled border.
type Grid struct {
	Size     int      // Number of rows and columns.
	Cells    [][]Cell // Cells indexed by row then column.
	entrance *CellPosition
	exit     *CellPosition
}

// New allocates a size x size grid of open cells and walls its border.
func New(size int) (*Grid, error) {
	if size < 1 || size > maxGridDimension {
		return nil, ErrInvalidDimension
	}

	g := &Grid{Size: size}
	g.Reset()
	return g, nil
}

// Reset restores the grid to the state New leaves it in.
func (g *Grid) Reset() {
	cells := make([][]Cell, g.Size)
	for row := range cells {
		cells[row] = make([]Cell, g.Size)
	}

	last := g.Size - 1
	for i := 0; i < g.Size; i++ {
		cells[0][i].IsWall = true
		cells[last][i].IsWall = true
		cells[i][0].IsWall = true
		cells[i][last].IsWall = true
	}

	g.Cells = cells
	g.entrance = nil
	g.exit = nil
}

// InBound checks if the given row and column are inside the grid.
func (g *Grid) InBound(row, col int) bool {
	return row >= 0 && row < g.Size && col >= 0 && col < g.Size
}

// IsWall returns true if the cell at row, col is a wall.
// Out of bounds positions count as walls.
func (g *Grid) IsWall(row, col int) bool {
	if !g.InBound(row, col) {
		return true
	}
	return g.Cells[row][col].IsWall
}

// CellAt returns the cell at pos and whether pos is inside the grid.
func (g *Grid) CellAt(pos CellPosition) (Cell, bool) {
	if !g.InBound(pos.Row, pos.Col) {
		return Cell{}, false
	}
	return g.Cells[pos.Row][pos.Col], true
}

// Entrance returns the current entrance, if any.
func (g *Grid) Entrance() (CellPosition, bool) {
	if g.entrance == nil {
		return CellPosition{}, false
	}
	return *g.entrance, true
}

// Exit returns the current exit, if any.
func (g *Grid) Exit() (CellPosition, bool) {
	if g.exit == nil {
		return CellPosition{}, false
	}
	return *g.exit, true
}

// SetEntrance moves the entrance to pos and clears any wall there.
func (g *Grid) SetEntrance(pos CellPosition) bool {
	if !g.InBound(pos.Row, pos.Col) {
		return false
	}

	if g.entrance != nil {
		g.Cells[g.entrance.Row][g.entrance.Col].IsEntrance = false
	}
	cell := &g.Cells[pos.Row][pos.Col]
	cell.IsEntrance = true
	cell.IsWall = false
	g.entrance = &pos
	return true
}

// SetExit moves the exit to pos and clears any wall there.
func (g *Grid) SetExit(pos CellPosition) bool {
	if !g.InBound(pos.Row, pos.Col) {
		return false
	}

	if g.exit != nil {
		g.Cells[g.exit.Row][g.exit.Col].IsExit = false
	}
	cell := &g.Cells[pos.Row][pos.Col]
	cell.IsExit = true
	cell.IsWall = false
	g.exit = &pos
	return true
}

// SetWall places an obstacle at pos.
// Entrance and exit cells are left untouched.
func (g *Grid) SetWall(pos CellPosition) bool {
	if !g.InBound(pos.Row, pos.Col) {
		return false
	}

	cell := &g.Cells[pos.Row][pos.Col]
	if cell.IsEntrance || cell.IsExit || cell.IsWall {
		return false
	}
	cell.IsWall = true
	return true
}

// Snapshot returns a deep copy of the grid.
func (g *Grid) Snapshot() *Grid {
	cells := make([][]Cell, g.Size)
	for row := range g.Cells {
		cells[row] = make([]Cell, g.Size)
		copy(cells[row], g.Cells[row])
	}

	snap := &Grid{Size: g.Size, Cells: cells}
	if g.entrance != nil {
		e := *g.entrance
		snap.entrance = &e
	}
	if g.exit != nil {
		x := *g.exit
		snap.exit = &x
	}
	return snap
}

// String provides a textual representation of the grid.
// Walls are '#', the entrance 'S', the exit 'E' and open cells '.'.
func (g *Grid) String() string {
	return g.Render(nil)
}

// Render draws the grid like String and marks the given positions with '*'.
func (g *Grid) Render(path []CellPosition) string {
	onPath := make(map[CellPosition]struct{}, len(path))
	for _, p := range path {
		onPath[p] = struct{}{}
	}

	var output strings.Builder
	output.Grow(g.Size * (g.Size + 1))
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			cell := g.Cells[row][col]
			_, marked := onPath[CellPosition{Row: row, Col: col}]
			switch {
			case cell.IsEntrance:
				output.WriteByte('S')
			case cell.IsExit:
				output.WriteByte('E')
			case cell.IsWall:
				output.WriteByte('#')
			case marked:
				output.WriteByte('*')
			default:
				output.WriteByte('.')
			}
		}
		output.WriteByte('\n')
	}

	return output.String()
}
