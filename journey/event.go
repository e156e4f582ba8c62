package journey

import "github.com/beka-birhanu/vinom-pathfinder/maze"

// EventType names what happened to the traveler.
type EventType string

const (
	EventStep  EventType = "step"  // The traveler moved.
	EventDone  EventType = "done"  // The traveler reached the exit.
	EventReset EventType = "reset" // The grid was cleared or regenerated.
)

const subscriberBuffer = 32

// Event is pushed to subscribers of a session.
type Event struct {
	Type     EventType          `json:"type"`
	Position *maze.CellPosition `json:"position,omitempty"`
	Message  string             `json:"message,omitempty"`
}
