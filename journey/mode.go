package journey

import (
	"errors"
	"strings"
)

// Mode decides what a click on the grid does.
type Mode int

const (
	ModeNone          Mode = iota // Clicks are ignored.
	ModeSelectStart               // The next click moves the entrance.
	ModeSelectEnd                 // The next click moves the exit.
	ModePlaceObstacle             // Every click places a wall.
)

var (
	ErrUnknownMode = errors.New("unknown selection mode")

	modeNames = map[Mode]string{
		ModeNone:          "none",
		ModeSelectStart:   "start",
		ModeSelectEnd:     "end",
		ModePlaceObstacle: "obstacle",
	}
)

// String returns the wire name of the mode.
func (m Mode) String() string {
	if name, ok := modeNames[m]; ok {
		return name
	}
	return "unknown"
}

// ParseMode converts a wire name back into a Mode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for mode, n := range modeNames {
		if n == name {
			return mode, nil
		}
	}
	return ModeNone, ErrUnknownMode
}

// oneShot reports whether the mode ends after a single click.
func (m Mode) oneShot() bool {
	return m == ModeSelectStart || m == ModeSelectEnd
}
