// Package pathfinder connects two cells of a grid with a bidirectional breadth-first search.
//
// Two frontiers grow one cell per round, one from the start and one from the end, each with
// its own queue, visited set and predecessor map. The search stops at the first cell dequeued
// by one frontier that the other has already visited and stitches the two predecessor chains
// together at that meeting point.
//
// By default the four directions are reshuffled before every expansion, so repeated searches
// on the same grid may return different routes. The result is always a valid route when one
// exists, but it is not guaranteed to be the shortest. WithFixedOrder restores a deterministic
// expansion order.
package pathfinder

import (
	"math/rand"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
)

// Grid is the read-only view of the grid the search walks on.
type Grid interface {
	InBound(row, col int) bool
	IsWall(row, col int) bool
}

// Options holds the search settings.
type Options struct {
	Shuffle bool       // Reshuffle directions before every expansion.
	Rand    *rand.Rand // Source used for shuffling.
}

// Option modifies Options.
type Option func(*Options)

// WithFixedOrder expands neighbors in the order of maze.Directions.
func WithFixedOrder() Option {
	return func(o *Options) { o.Shuffle = false }
}

// WithRand sets the random source used to shuffle directions.
func WithRand(r *rand.Rand) Option {
	return func(o *Options) {
		if r != nil {
			o.Rand = r
		}
	}
}

// frontier is one direction of the search.
type frontier struct {
	queue    []maze.CellPosition
	head     int
	visited  map[maze.CellPosition]struct{}
	previous map[maze.CellPosition]maze.CellPosition
}

func newFrontier(root maze.CellPosition) *frontier {
	return &frontier{
		queue:    []maze.CellPosition{root},
		visited:  make(map[maze.CellPosition]struct{}),
		previous: make(map[maze.CellPosition]maze.CellPosition),
	}
}

func (f *frontier) empty() bool {
	return f.head >= len(f.queue)
}

func (f *frontier) pop() maze.CellPosition {
	cell := f.queue[f.head]
	f.head++
	return cell
}

func (f *frontier) seen(cell maze.CellPosition) bool {
	_, ok := f.visited[cell]
	return ok
}

// FindPath returns a route from start to end, both included, moving only up, down, left or
// right through non-wall cells. An empty slice means no route exists, or start or end is
// outside the grid or on a wall.
func FindPath(grid Grid, start, end maze.CellPosition, options ...Option) []maze.CellPosition {
	opts := Options{Shuffle: true}
	for _, option := range options {
		option(&opts)
	}
	if opts.Shuffle && opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	if !open(grid, start) || !open(grid, end) {
		return []maze.CellPosition{}
	}

	forward := newFrontier(start)
	backward := newFrontier(end)
	directions := maze.Directions

	for !forward.empty() && !backward.empty() {
		current := forward.pop()
		if backward.seen(current) {
			return joinPath(forward, backward, current)
		}
		expand(grid, forward, current, &directions, &opts)

		current = backward.pop()
		if forward.seen(current) {
			return joinPath(forward, backward, current)
		}
		expand(grid, backward, current, &directions, &opts)
	}

	return []maze.CellPosition{}
}

// expand marks current visited and enqueues its unvisited open neighbors.
func expand(grid Grid, f *frontier, current maze.CellPosition, directions *[4]maze.CellPosition, opts *Options) {
	f.visited[current] = struct{}{}

	if opts.Shuffle {
		opts.Rand.Shuffle(len(directions), func(i, j int) {
			directions[i], directions[j] = directions[j], directions[i]
		})
	}

	for _, d := range directions {
		next := current.Add(d)
		if !open(grid, next) || f.seen(next) {
			continue
		}
		f.queue = append(f.queue, next)
		f.previous[next] = current
		f.visited[next] = struct{}{}
	}
}

// joinPath walks the forward chain back to the start and the backward chain on to the end.
// The meeting point appears once.
func joinPath(forward, backward *frontier, meeting maze.CellPosition) []maze.CellPosition {
	path := []maze.CellPosition{meeting}
	for cell, ok := forward.previous[meeting]; ok; cell, ok = forward.previous[cell] {
		path = append(path, cell)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	for cell, ok := backward.previous[meeting]; ok; cell, ok = backward.previous[cell] {
		path = append(path, cell)
	}

	return path
}

func open(grid Grid, pos maze.CellPosition) bool {
	return grid.InBound(pos.Row, pos.Col) && !grid.IsWall(pos.Row, pos.Col)
}
