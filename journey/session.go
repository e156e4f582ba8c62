/*
Package journey holds the state of one pathfinding session.

A Session owns a grid, the selection mode that decides what a click does, the traveler marker
and the status message shown to the user. Starting a journey searches a route on a snapshot of
the grid and replays it one cell per tick; the traveler follows the replay and subscribers are
told about every move.

Grid edits and journey requests are serialized by the session lock. The traveler and message
have their own lock so a replay step never waits on a grid edit, and stopping a replay while
holding the session lock cannot deadlock.
*/
package journey

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/pathfinder"
	"github.com/beka-birhanu/vinom-pathfinder/player"
	"github.com/google/uuid"
)

// Messages shown to the user.
const (
	MessageMissingEndpoint = "Please select both start and end points."
	MessageNoRoute         = "Not a Valid Path."
	MessageReached         = "Reached Destination."
)

var (
	ErrMissingEndpoint = errors.New("entrance and exit must both be set")
	ErrNoRouteFound    = errors.New("no route between entrance and exit")
)

// Config is used to create a Session.
type Config struct {
	ID               uuid.UUID
	OwnerID          uuid.UUID
	Size             int                 // Grid dimension, maze.DefaultSize when 0.
	PlaybackInterval time.Duration       // Delay between two traveler steps, player.DefaultInterval when 0.
	FindOptions      []pathfinder.Option // Passed to every route search.
}

// Snapshot is a read-only copy of a session for rendering.
type Snapshot struct {
	ID       uuid.UUID
	OwnerID  uuid.UUID
	Grid     *maze.Grid
	Mode     Mode
	Entrance *maze.CellPosition
	Exit     *maze.CellPosition
	Traveler *maze.CellPosition
	Message  string
	Playing  bool
}

// status is the part of the session touched by the replay goroutine.
type status struct {
	traveler    *maze.CellPosition
	message     string
	subscribers map[int]chan Event
	nextID      int
	mu          sync.Mutex
}

// Session is the explicit state record of one user's grid.
type Session struct {
	id          uuid.UUID
	ownerID     uuid.UUID
	grid        *maze.Grid
	mode        Mode
	obstacles   bool // obstacle placement stays on across one-shot selections.
	player      *player.Player
	findOptions []pathfinder.Option
	ctx         context.Context
	cancel      context.CancelFunc
	status      status
	sync.Mutex
}

// New creates a session with a freshly walled grid.
func New(c Config) (*Session, error) {
	size := c.Size
	if size == 0 {
		size = maze.DefaultSize
	}

	grid, err := maze.New(size)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Session{
		id:          c.ID,
		ownerID:     c.OwnerID,
		grid:        grid,
		player:      player.New(c.PlaybackInterval),
		findOptions: c.FindOptions,
		ctx:         ctx,
		cancel:      cancel,
		status:      status{subscribers: make(map[int]chan Event)},
	}, nil
}

// ID returns the session identifier.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// OwnerID returns the identifier of the user owning the session.
func (s *Session) OwnerID() uuid.UUID {
	return s.ownerID
}

// Size returns the grid dimension.
func (s *Session) Size() int {
	return s.grid.Size
}

// SetMode changes what the next clicks do.
func (s *Session) SetMode(mode Mode) {
	s.Lock()
	defer s.Unlock()

	switch mode {
	case ModePlaceObstacle:
		s.obstacles = true
	case ModeNone:
		s.obstacles = false
	}
	s.mode = mode
}

// Click applies the current mode at pos and reports whether the grid changed.
// Start and end selection last for a single click, obstacle placement stays on.
// Out of bounds clicks and walls on the entrance or exit are ignored.
func (s *Session) Click(pos maze.CellPosition) bool {
	s.Lock()
	defer s.Unlock()

	changed := false
	switch s.mode {
	case ModeSelectStart:
		changed = s.grid.SetEntrance(pos)
		if changed {
			s.setTraveler(&pos)
		}
	case ModeSelectEnd:
		changed = s.grid.SetExit(pos)
	case ModePlaceObstacle:
		changed = s.grid.SetWall(pos)
	}

	if s.mode.oneShot() {
		s.mode = ModeNone
		if s.obstacles {
			s.mode = ModePlaceObstacle
		}
	}
	return changed
}

// StartJourney searches a route from the entrance to the exit and starts replaying it.
//
// Any replay in progress is stopped first. It returns ErrMissingEndpoint when the entrance or
// the exit is not set and ErrNoRouteFound when they are not connected; in both cases the
// session message tells the user why and nothing is replayed.
func (s *Session) StartJourney() ([]maze.CellPosition, error) {
	s.Lock()
	defer s.Unlock()

	entrance, hasEntrance := s.grid.Entrance()
	exit, hasExit := s.grid.Exit()
	if !hasEntrance || !hasExit {
		s.setMessage(MessageMissingEndpoint)
		return nil, ErrMissingEndpoint
	}

	s.player.Stop()
	path := pathfinder.FindPath(s.grid.Snapshot(), entrance, exit, s.findOptions...)
	if len(path) == 0 {
		s.setMessage(MessageNoRoute)
		return nil, ErrNoRouteFound
	}

	s.setMessage("")
	if _, err := s.player.Play(s.ctx, path, s.step, s.arrive); err != nil {
		return nil, err
	}
	return path, nil
}

// Reset stops the replay and restores a fresh walled grid.
func (s *Session) Reset() {
	s.Lock()
	defer s.Unlock()

	s.player.Stop()
	s.grid.Reset()
	s.mode = ModeNone
	s.obstacles = false
	s.clearStatus()
}

// Generate stops the replay and fills the grid with a random maze.
func (s *Session) Generate(rng *rand.Rand) {
	s.Lock()
	defer s.Unlock()

	s.player.Stop()
	s.grid.Generate(rng)
	s.clearStatus()
}

// Playing reports whether a replay is running.
func (s *Session) Playing() bool {
	return s.player.Active()
}

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() Snapshot {
	s.Lock()
	defer s.Unlock()

	snap := Snapshot{
		ID:      s.id,
		OwnerID: s.ownerID,
		Grid:    s.grid.Snapshot(),
		Mode:    s.mode,
		Playing: s.player.Active(),
	}
	if pos, ok := s.grid.Entrance(); ok {
		snap.Entrance = &pos
	}
	if pos, ok := s.grid.Exit(); ok {
		snap.Exit = &pos
	}

	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	if s.status.traveler != nil {
		traveler := *s.status.traveler
		snap.Traveler = &traveler
	}
	snap.Message = s.status.message
	return snap
}

// Subscribe returns a channel of traveler events and a function to stop receiving them.
// Events are dropped for subscribers that fall behind.
func (s *Session) Subscribe() (<-chan Event, func()) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()

	id := s.status.nextID
	s.status.nextID++
	ch := make(chan Event, subscriberBuffer)
	s.status.subscribers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.status.mu.Lock()
			defer s.status.mu.Unlock()
			if sub, ok := s.status.subscribers[id]; ok {
				delete(s.status.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close stops the replay and disconnects subscribers.
func (s *Session) Close() {
	s.Lock()
	defer s.Unlock()

	s.player.Stop()
	s.cancel()

	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	for id, sub := range s.status.subscribers {
		delete(s.status.subscribers, id)
		close(sub)
	}
}

// step is the replay callback for every position.
func (s *Session) step(pos maze.CellPosition) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()

	s.status.traveler = &pos
	s.publish(Event{Type: EventStep, Position: &pos})
}

// arrive is the replay callback once the route is done.
func (s *Session) arrive() {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()

	s.status.message = MessageReached
	s.publish(Event{Type: EventDone, Position: s.status.traveler, Message: MessageReached})
}

func (s *Session) setTraveler(pos *maze.CellPosition) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()

	s.status.traveler = pos
	s.publish(Event{Type: EventStep, Position: pos})
}

func (s *Session) setMessage(message string) {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()
	s.status.message = message
}

func (s *Session) clearStatus() {
	s.status.mu.Lock()
	defer s.status.mu.Unlock()

	s.status.traveler = nil
	s.status.message = ""
	s.publish(Event{Type: EventReset})
}

// publish must be called with the status lock held.
func (s *Session) publish(e Event) {
	for _, sub := range s.status.subscribers {
		select {
		case sub <- e:
		default:
		}
	}
}
