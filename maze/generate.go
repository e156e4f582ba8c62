package maze

import (
	"math/rand"
	"time"
)

// Generate fills the grid with a random perfect maze using Wilson's algorithm.
//
// Rooms sit on odd rows and columns inside the border and every other cell starts as a wall.
// Loop-erased random walks carve passages between rooms until all of them are joined, so any
// two rooms are connected by exactly one route. Entrance and exit are cleared.
// A nil rng falls back to a time seeded source.
func (g *Grid) Generate(rng *rand.Rand) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	g.Reset()
	for row := range g.Cells {
		for col := range g.Cells[row] {
			g.Cells[row][col].IsWall = true
		}
	}

	rooms := g.rooms()
	if len(rooms) == 0 {
		return
	}

	visited := make(map[CellPosition]struct{}, len(rooms))
	start := rooms[rng.Intn(len(rooms))]
	visited[start] = struct{}{}
	g.open(start)

	for _, room := range rooms {
		if _, ok := visited[room]; ok {
			continue
		}

		exits := g.randomWalk(rng, room, visited)

		// Retrace the loop-erased walk, carving as we go.
		cell := room
		for {
			if _, ok := visited[cell]; ok {
				break
			}
			next := exits[cell]
			g.open(cell)
			g.open(CellPosition{Row: (cell.Row + next.Row) / 2, Col: (cell.Col + next.Col) / 2})
			visited[cell] = struct{}{}
			cell = next
		}
	}
}

// randomWalk wanders from start until it reaches a visited room.
// The returned map keeps only the last exit taken from each room, which erases loops.
func (g *Grid) randomWalk(rng *rand.Rand, start CellPosition, visited map[CellPosition]struct{}) map[CellPosition]CellPosition {
	exits := make(map[CellPosition]CellPosition)
	cell := start
	for {
		neighbors := g.roomNeighbors(cell)
		next := neighbors[rng.Intn(len(neighbors))]
		exits[cell] = next
		if _, ok := visited[next]; ok {
			return exits
		}
		cell = next
	}
}

// rooms lists the odd coordinate cells strictly inside the border.
func (g *Grid) rooms() []CellPosition {
	var result []CellPosition
	for row := 1; row < g.Size-1; row += 2 {
		for col := 1; col < g.Size-1; col += 2 {
			result = append(result, CellPosition{Row: row, Col: col})
		}
	}
	return result
}

// roomNeighbors finds rooms two steps away in each direction.
func (g *Grid) roomNeighbors(pos CellPosition) []CellPosition {
	var result []CellPosition
	for _, d := range Directions {
		next := CellPosition{Row: pos.Row + 2*d.Row, Col: pos.Col + 2*d.Col}
		if next.Row >= 1 && next.Row < g.Size-1 && next.Col >= 1 && next.Col < g.Size-1 {
			result = append(result, next)
		}
	}
	return result
}

func (g *Grid) open(pos CellPosition) {
	g.Cells[pos.Row][pos.Col].IsWall = false
}
