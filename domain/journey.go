// Package domain holds the records shared between services and storage.
package domain

import (
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/google/uuid"
)

// JourneyRecord is the outcome of one journey request.
type JourneyRecord struct {
	ID         uuid.UUID         `json:"id" bson:"_id"`
	OwnerID    uuid.UUID         `json:"ownerId" bson:"ownerId"`
	SessionID  uuid.UUID         `json:"sessionId" bson:"sessionId"`
	GridSize   int               `json:"gridSize" bson:"gridSize"`
	Entrance   maze.CellPosition `json:"entrance" bson:"entrance"`
	Exit       maze.CellPosition `json:"exit" bson:"exit"`
	PathLength int               `json:"pathLength" bson:"pathLength"` // Number of cells on the route, 0 when none was found.
	Found      bool              `json:"found" bson:"found"`
	CreatedAt  time.Time         `json:"createdAt" bson:"createdAt"`
}

// RouteEntry is one line of the route board.
type RouteEntry struct {
	JourneyID  uuid.UUID `json:"journeyId"`
	OwnerID    uuid.UUID `json:"ownerId"`
	PathLength int       `json:"pathLength"`
}
