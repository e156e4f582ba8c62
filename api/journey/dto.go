// Package journeyapi exposes journey sessions over HTTP.
package journeyapi

import (
	"strings"

	"github.com/beka-birhanu/vinom-pathfinder/journey"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
)

// CreateSessionRequest is the optional body of a session creation.
type CreateSessionRequest struct {
	Size int `json:"size"`
}

// ModeRequest selects what the next clicks do.
type ModeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// ClickRequest is a click on a grid cell.
type ClickRequest struct {
	Row *int `json:"row" binding:"required"`
	Col *int `json:"col" binding:"required"`
}

// MazeRequest is the optional body of a maze generation.
type MazeRequest struct {
	Seed *int64 `json:"seed"`
}

// SessionResponse is the rendered state of a session.
// Rows draws the grid with '#' for walls, 'S' for the entrance and 'E' for the exit.
type SessionResponse struct {
	ID       uuid.UUID          `json:"id"`
	Size     int                `json:"size"`
	Mode     string             `json:"mode"`
	Rows     []string           `json:"rows"`
	Entrance *maze.CellPosition `json:"entrance,omitempty"`
	Exit     *maze.CellPosition `json:"exit,omitempty"`
	Traveler *maze.CellPosition `json:"traveler,omitempty"`
	Message  string             `json:"message"`
	Playing  bool               `json:"playing"`
}

// ClickResponse tells whether a click changed the grid.
type ClickResponse struct {
	Changed bool            `json:"changed"`
	Session SessionResponse `json:"session"`
}

// JourneyResponse is the route being replayed.
type JourneyResponse struct {
	Path   []maze.CellPosition `json:"path"`
	Length int                 `json:"length"`
}

// SessionListResponse lists the caller's sessions.
type SessionListResponse struct {
	Sessions []uuid.UUID `json:"sessions"`
}

func newSessionResponse(snap journey.Snapshot) SessionResponse {
	return SessionResponse{
		ID:       snap.ID,
		Size:     snap.Grid.Size,
		Mode:     snap.Mode.String(),
		Rows:     strings.Split(strings.TrimSuffix(snap.Grid.String(), "\n"), "\n"),
		Entrance: snap.Entrance,
		Exit:     snap.Exit,
		Traveler: snap.Traveler,
		Message:  snap.Message,
		Playing:  snap.Playing,
	}
}
