// Package player replays a route one cell per tick so a renderer can animate the traveler.
package player

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
)

// DefaultInterval is the reference delay between two steps.
const DefaultInterval = 300 * time.Millisecond

var ErrNoRoute = errors.New("no route to play")

// StepFunc receives the next position of the traveler.
type StepFunc func(maze.CellPosition)

// DoneFunc is called once the traveler stands on the last position.
type DoneFunc func()

// Playback is a running replay of a single route.
type Playback struct {
	path       []maze.CellPosition
	interval   time.Duration
	onStep     StepFunc
	onDone     DoneFunc
	stop       chan struct{} // closed by Cancel.
	done       chan struct{} // closed when the replay goroutine exits.
	stopOnce   sync.Once
	cancelled  bool
	finished   bool
	mu         sync.Mutex // held while a callback runs.
}

// Play starts replaying path in its own goroutine.
//
// Position i is handed to onStep on tick i+1 and onDone runs on the tick after the last
// position. Either callback may be nil. The replay ends early when ctx is done or Cancel is
// called. An empty path returns ErrNoRoute and nothing is scheduled.
func Play(ctx context.Context, path []maze.CellPosition, interval time.Duration, onStep StepFunc, onDone DoneFunc) (*Playback, error) {
	if len(path) == 0 {
		return nil, ErrNoRoute
	}
	if interval <= 0 {
		interval = DefaultInterval
	}

	p := &Playback{
		path:     append([]maze.CellPosition(nil), path...),
		interval: interval,
		onStep:   onStep,
		onDone:   onDone,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go p.run(ctx)
	return p, nil
}

// run emits one position per tick until the route is exhausted or the playback is stopped.
func (p *Playback) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for index := 0; ; index++ {
		select {
		case <-p.stop:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.emit(index) {
				return
			}
		}
	}
}

// emit delivers tick number index and reports whether more ticks are needed.
func (p *Playback) emit(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancelled {
		return false
	}

	if index < len(p.path) {
		if p.onStep != nil {
			p.onStep(p.path[index])
		}
		return true
	}

	p.finished = true
	if p.onDone != nil {
		p.onDone()
	}
	return false
}

// Cancel stops the replay. Once it returns no callback of this playback runs again.
// It waits for a callback in progress, so it must not be called from inside one.
func (p *Playback) Cancel() {
	p.stopOnce.Do(func() { close(p.stop) })

	p.mu.Lock()
	p.cancelled = true
	p.mu.Unlock()
}

// Done is closed when the replay goroutine has exited.
func (p *Playback) Done() <-chan struct{} {
	return p.done
}

// Finished reports whether the route was replayed to the end.
func (p *Playback) Finished() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.finished
}

// Len returns the number of positions in the replayed route.
func (p *Playback) Len() int {
	return len(p.path)
}

// Player keeps at most one playback running.
type Player struct {
	interval time.Duration
	current  *Playback
	mu       sync.Mutex
}

// New creates a Player that steps every interval.
func New(interval time.Duration) *Player {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Player{interval: interval}
}

// Interval returns the delay between two steps.
func (pl *Player) Interval() time.Duration {
	return pl.interval
}

// Play cancels the active playback, if any, and starts replaying path.
func (pl *Player) Play(ctx context.Context, path []maze.CellPosition, onStep StepFunc, onDone DoneFunc) (*Playback, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	pl.stopLocked()
	p, err := Play(ctx, path, pl.interval, onStep, onDone)
	if err != nil {
		return nil, err
	}
	pl.current = p
	return p, nil
}

// Stop cancels the active playback, if any.
func (pl *Player) Stop() {
	pl.mu.Lock()
	defer pl.mu.Unlock()
	pl.stopLocked()
}

// Active reports whether a playback is still running.
func (pl *Player) Active() bool {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if pl.current == nil {
		return false
	}
	select {
	case <-pl.current.Done():
		return false
	default:
		return true
	}
}

func (pl *Player) stopLocked() {
	if pl.current != nil {
		pl.current.Cancel()
		pl.current = nil
	}
}
