package i

import (
	"context"

	"github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/journey"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
)

// JourneyManager owns the journey sessions of every user.
type JourneyManager interface {
	// NewSession creates a session with a fresh grid of the given size; 0 picks the default.
	NewSession(ownerID uuid.UUID, size int) (*journey.Session, error)

	// Session returns a session owned by ownerID.
	Session(ownerID, sessionID uuid.UUID) (*journey.Session, error)

	// Sessions lists the session IDs owned by ownerID.
	Sessions(ownerID uuid.UUID) []uuid.UUID

	// StartJourney searches a route in the session and starts replaying it.
	StartJourney(ctx context.Context, ownerID, sessionID uuid.UUID) ([]maze.CellPosition, error)

	// CloseSession stops and forgets a session.
	CloseSession(ownerID, sessionID uuid.UUID) error

	History(ctx context.Context, ownerID uuid.UUID, limit int64) ([]*domain.JourneyRecord, error)
	TopRoutes(ctx context.Context, n int64) ([]domain.RouteEntry, error)
}
