package maze

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWallsBorder(t *testing.T) {
	for _, size := range []int{1, 2, 3, 5, DefaultSize} {
		g, err := New(size)
		require.NoError(t, err)

		for row := 0; row < size; row++ {
			for col := 0; col < size; col++ {
				border := row == 0 || col == 0 || row == size-1 || col == size-1
				assert.Equal(t, border, g.Cells[row][col].IsWall, "size %d cell %d,%d", size, row, col)
				assert.False(t, g.Cells[row][col].IsEntrance)
				assert.False(t, g.Cells[row][col].IsExit)
			}
		}
	}
}

func TestNewRejectsBadDimension(t *testing.T) {
	_, err := New(0)
	assert.ErrorIs(t, err, ErrInvalidDimension)

	_, err = New(maxGridDimension + 1)
	assert.ErrorIs(t, err, ErrInvalidDimension)
}

func TestSetEntranceMovesFlag(t *testing.T) {
	g, _ := New(5)

	require.True(t, g.SetEntrance(CellPosition{Row: 1, Col: 1}))
	require.True(t, g.SetEntrance(CellPosition{Row: 2, Col: 3}))

	assert.False(t, g.Cells[1][1].IsEntrance)
	assert.True(t, g.Cells[2][3].IsEntrance)
	pos, ok := g.Entrance()
	assert.True(t, ok)
	assert.Equal(t, CellPosition{Row: 2, Col: 3}, pos)
}

func TestSetEntranceAndExitClearWall(t *testing.T) {
	g, _ := New(5)

	require.True(t, g.SetEntrance(CellPosition{Row: 0, Col: 2}))
	require.True(t, g.SetExit(CellPosition{Row: 4, Col: 2}))

	assert.False(t, g.Cells[0][2].IsWall)
	assert.True(t, g.Cells[0][2].IsEntrance)
	assert.False(t, g.Cells[4][2].IsWall)
	assert.True(t, g.Cells[4][2].IsExit)
}

func TestSetExitMovesFlag(t *testing.T) {
	g, _ := New(5)

	g.SetExit(CellPosition{Row: 3, Col: 3})
	g.SetExit(CellPosition{Row: 1, Col: 3})

	assert.False(t, g.Cells[3][3].IsExit)
	pos, ok := g.Exit()
	assert.True(t, ok)
	assert.Equal(t, CellPosition{Row: 1, Col: 3}, pos)
}

func TestSetWallKeepsEndpoints(t *testing.T) {
	g, _ := New(5)
	start := CellPosition{Row: 1, Col: 1}
	end := CellPosition{Row: 3, Col: 3}
	g.SetEntrance(start)
	g.SetExit(end)

	assert.False(t, g.SetWall(start))
	assert.False(t, g.SetWall(end))
	assert.Equal(t, Cell{IsEntrance: true}, g.Cells[1][1])
	assert.Equal(t, Cell{IsExit: true}, g.Cells[3][3])

	assert.True(t, g.SetWall(CellPosition{Row: 2, Col: 2}))
	assert.True(t, g.Cells[2][2].IsWall)
}

func TestOutOfBoundsMutationsAreIgnored(t *testing.T) {
	g, _ := New(5)
	before := g.String()

	for _, pos := range []CellPosition{{Row: -1, Col: 0}, {Row: 0, Col: 5}, {Row: 5, Col: 5}} {
		assert.False(t, g.SetEntrance(pos))
		assert.False(t, g.SetExit(pos))
		assert.False(t, g.SetWall(pos))
	}

	assert.Equal(t, before, g.String())
	_, ok := g.Entrance()
	assert.False(t, ok)
}

func TestResetClearsEverything(t *testing.T) {
	g, _ := New(6)
	g.SetEntrance(CellPosition{Row: 1, Col: 1})
	g.SetExit(CellPosition{Row: 4, Col: 4})
	g.SetWall(CellPosition{Row: 2, Col: 2})

	g.Reset()

	fresh, _ := New(6)
	assert.Equal(t, fresh.String(), g.String())
	_, ok := g.Exit()
	assert.False(t, ok)
}

func TestSnapshotIsIndependent(t *testing.T) {
	g, _ := New(5)
	g.SetEntrance(CellPosition{Row: 1, Col: 1})
	snap := g.Snapshot()

	g.SetWall(CellPosition{Row: 2, Col: 2})
	g.SetEntrance(CellPosition{Row: 3, Col: 3})

	assert.False(t, snap.Cells[2][2].IsWall)
	pos, _ := snap.Entrance()
	assert.Equal(t, CellPosition{Row: 1, Col: 1}, pos)
}

func TestStringAndParse(t *testing.T) {
	layout := "" +
		"#####\n" +
		"#S..#\n" +
		"#.#.#\n" +
		"#..E#\n" +
		"#####\n"

	g, err := Parse(layout)
	require.NoError(t, err)
	assert.Equal(t, layout, g.String())

	start, _ := g.Entrance()
	end, _ := g.Exit()
	assert.Equal(t, CellPosition{Row: 1, Col: 1}, start)
	assert.Equal(t, CellPosition{Row: 3, Col: 3}, end)

	path := []CellPosition{{Row: 1, Col: 2}, {Row: 1, Col: 3}, {Row: 2, Col: 3}}
	assert.Equal(t, "#####\n#S**#\n#.#*#\n#..E#\n#####\n", g.Render(path))
}

func TestParseRejectsMalformedLayout(t *testing.T) {
	_, err := Parse("###\n#.\n###")
	assert.ErrorIs(t, err, ErrMalformedLayout)

	_, err = Parse("###\n#x#\n###")
	assert.ErrorIs(t, err, ErrMalformedLayout)
}

func TestIsAdjacent(t *testing.T) {
	p := CellPosition{Row: 2, Col: 2}
	assert.True(t, p.IsAdjacent(CellPosition{Row: 1, Col: 2}))
	assert.True(t, p.IsAdjacent(CellPosition{Row: 2, Col: 3}))
	assert.False(t, p.IsAdjacent(CellPosition{Row: 3, Col: 3}))
	assert.False(t, p.IsAdjacent(p))
}

func TestGenerateConnectsAllRooms(t *testing.T) {
	for _, size := range []int{3, 7, 10, 21} {
		g, _ := New(size)
		g.SetEntrance(CellPosition{Row: 1, Col: 1})
		g.Generate(rand.New(rand.NewSource(int64(size))))

		_, ok := g.Entrance()
		assert.False(t, ok)

		for i := 0; i < size; i++ {
			assert.True(t, g.Cells[0][i].IsWall)
			assert.True(t, g.Cells[size-1][i].IsWall)
			assert.True(t, g.Cells[i][0].IsWall)
			assert.True(t, g.Cells[i][size-1].IsWall)
		}

		rooms := g.rooms()
		reached := flood(g, rooms[0])
		open := 0
		for row := range g.Cells {
			for col := range g.Cells[row] {
				if !g.Cells[row][col].IsWall {
					open++
				}
			}
		}
		for _, room := range rooms {
			_, ok := reached[room]
			assert.True(t, ok, "size %d room %v unreachable", size, room)
		}
		assert.Equal(t, open, len(reached), "size %d has isolated open cells", size)
	}
}

func TestGeneratePerfectMazeHasNoCycles(t *testing.T) {
	g, _ := New(15)
	g.Generate(rand.New(rand.NewSource(42)))

	// A tree over the open cells has exactly one edge fewer than cells.
	cells, edges := 0, 0
	for row := 0; row < g.Size; row++ {
		for col := 0; col < g.Size; col++ {
			if g.Cells[row][col].IsWall {
				continue
			}
			cells++
			if !g.IsWall(row+1, col) {
				edges++
			}
			if !g.IsWall(row, col+1) {
				edges++
			}
		}
	}
	assert.Equal(t, cells-1, edges)
}

func flood(g *Grid, from CellPosition) map[CellPosition]struct{} {
	seen := map[CellPosition]struct{}{from: {}}
	queue := []CellPosition{from}
	for qi := 0; qi < len(queue); qi++ {
		for _, d := range Directions {
			next := queue[qi].Add(d)
			if g.IsWall(next.Row, next.Col) {
				continue
			}
			if _, ok := seen[next]; !ok {
				seen[next] = struct{}{}
				queue = append(queue, next)
			}
		}
	}
	return seen
}
