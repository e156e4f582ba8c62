package maze

// Cell represents a single square of the grid.
// A cell is never a wall while it is an entrance or an exit.
type Cell struct {
	IsWall     bool `json:"isWall"`     // IsWall marks a cell the traveler may not enter.
	IsEntrance bool `json:"isEntrance"` // IsEntrance marks the start of a journey.
	IsExit     bool `json:"isExit"`     // IsExit marks the destination of a journey.
}

// IsOpen returns true if the traveler may enter the cell.
func (c Cell) IsOpen() bool {
	return !c.IsWall
}

// CellPosition represents the position of a cell in the grid.
type CellPosition struct {
	Row int `json:"row"` // Row index of the cell
	Col int `json:"col"` // Column index of the cell
}

// Add returns the position shifted by the given delta.
func (cp CellPosition) Add(delta CellPosition) CellPosition {
	return CellPosition{Row: cp.Row + delta.Row, Col: cp.Col + delta.Col}
}

// IsAdjacent reports whether other is exactly one step away along a single axis.
func (cp CellPosition) IsAdjacent(other CellPosition) bool {
	dr, dc := abs(cp.Row-other.Row), abs(cp.Col-other.Col)
	return dr+dc == 1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
