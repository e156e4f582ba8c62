package player

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 2 * time.Millisecond

var route = []maze.CellPosition{{Row: 1, Col: 1}, {Row: 1, Col: 2}, {Row: 1, Col: 3}}

type recorder struct {
	mu    sync.Mutex
	steps []maze.CellPosition
	done  int
}

func (r *recorder) step(p maze.CellPosition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, p)
}

func (r *recorder) finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done++
}

func (r *recorder) snapshot() ([]maze.CellPosition, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]maze.CellPosition(nil), r.steps...), r.done
}

func waitDone(t *testing.T, p *Playback) {
	t.Helper()
	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not finish")
	}
}

func TestPlayEmitsEveryPositionInOrder(t *testing.T) {
	rec := &recorder{}

	p, err := Play(context.Background(), route, tick, rec.step, rec.finish)
	require.NoError(t, err)
	waitDone(t, p)

	steps, done := rec.snapshot()
	assert.Equal(t, route, steps)
	assert.Equal(t, 1, done)
	assert.True(t, p.Finished())
	assert.Equal(t, 3, p.Len())
}

func TestPlayEmptyPathReportsNoRoute(t *testing.T) {
	rec := &recorder{}

	p, err := Play(context.Background(), nil, 300*time.Millisecond, rec.step, rec.finish)
	assert.ErrorIs(t, err, ErrNoRoute)
	assert.Nil(t, p)

	steps, done := rec.snapshot()
	assert.Empty(t, steps)
	assert.Zero(t, done)
}

func TestPlayCopiesPath(t *testing.T) {
	rec := &recorder{}
	path := append([]maze.CellPosition(nil), route...)

	p, err := Play(context.Background(), path, tick, rec.step, nil)
	require.NoError(t, err)
	path[0] = maze.CellPosition{Row: 9, Col: 9}
	waitDone(t, p)

	steps, _ := rec.snapshot()
	assert.Equal(t, route, steps)
}

func TestCancelStopsCallbacks(t *testing.T) {
	var steps atomic.Int32
	var done atomic.Int32
	first := make(chan struct{}, 1)

	long := make([]maze.CellPosition, 100)
	p, err := Play(context.Background(), long, tick, func(maze.CellPosition) {
		steps.Add(1)
		select {
		case first <- struct{}{}:
		default:
		}
	}, func() { done.Add(1) })
	require.NoError(t, err)

	<-first
	p.Cancel()
	after := steps.Load()

	time.Sleep(20 * tick)
	waitDone(t, p)
	assert.Equal(t, after, steps.Load())
	assert.Zero(t, done.Load())
	assert.False(t, p.Finished())

	p.Cancel()
}

func TestContextCancellationEndsPlayback(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}

	p, err := Play(ctx, make([]maze.CellPosition, 1000), time.Hour, rec.step, rec.finish)
	require.NoError(t, err)
	cancel()
	waitDone(t, p)

	steps, done := rec.snapshot()
	assert.Empty(t, steps)
	assert.Zero(t, done)
}

func TestPlayerCancelsPreviousPlayback(t *testing.T) {
	pl := New(tick)
	var stale atomic.Int32
	rec := &recorder{}

	first, err := pl.Play(context.Background(), make([]maze.CellPosition, 1000), func(maze.CellPosition) { stale.Add(1) }, nil)
	require.NoError(t, err)

	second, err := pl.Play(context.Background(), route, rec.step, rec.finish)
	require.NoError(t, err)
	seen := stale.Load()

	waitDone(t, first)
	waitDone(t, second)
	assert.Equal(t, seen, stale.Load())

	steps, done := rec.snapshot()
	assert.Equal(t, route, steps)
	assert.Equal(t, 1, done)
	assert.False(t, pl.Active())
}

func TestPlayerStop(t *testing.T) {
	pl := New(time.Hour)
	assert.False(t, pl.Active())

	p, err := pl.Play(context.Background(), route, nil, nil)
	require.NoError(t, err)
	assert.True(t, pl.Active())

	pl.Stop()
	waitDone(t, p)
	assert.False(t, pl.Active())
	pl.Stop()
}

func TestPlayerEmptyPathStopsActivePlayback(t *testing.T) {
	pl := New(time.Hour)
	p, err := pl.Play(context.Background(), route, nil, nil)
	require.NoError(t, err)

	_, err = pl.Play(context.Background(), nil, nil, nil)
	assert.ErrorIs(t, err, ErrNoRoute)
	waitDone(t, p)
	assert.False(t, pl.Active())
}

func TestNewDefaultsInterval(t *testing.T) {
	assert.Equal(t, DefaultInterval, New(0).Interval())
}
