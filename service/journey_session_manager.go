package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/beka-birhanu/vinom-pathfinder/journey"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/pathfinder"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/google/uuid"
)

const maxSessionsPerOwner = 5

var _ i.JourneyManager = (*JourneySessionManager)(nil)

var (
	ErrSessionNotFound  = errors.New("journey session not found")
	ErrSessionForbidden = errors.New("journey session belongs to another user")
	ErrTooManySessions  = errors.New("too many open journey sessions")
	ErrNoJourneyLog     = errors.New("journey history is not available")
	ErrNoRouteBoard     = errors.New("route board is not available")
)

// JourneySessionManager keeps the live journey sessions of every user.
type JourneySessionManager struct {
	sessions         map[uuid.UUID]*journey.Session
	ownerToSessions  map[uuid.UUID][]uuid.UUID
	gridSize         int
	playbackInterval time.Duration
	findOptions      []pathfinder.Option
	journeyLog       i.JourneyLog
	routeBoard       i.RouteBoard
	logger           i.Logger
	sync.RWMutex
}

// JourneyConfig is used to create a JourneySessionManager.
// JourneyLog and RouteBoard are optional.
type JourneyConfig struct {
	GridSize         int
	PlaybackInterval time.Duration
	FindOptions      []pathfinder.Option
	JourneyLog       i.JourneyLog
	RouteBoard       i.RouteBoard
	Logger           i.Logger
}

func NewJourneySessionManager(c *JourneyConfig) (*JourneySessionManager, error) {
	if c.Logger == nil {
		return nil, errors.New("journey session manager requires a logger")
	}
	if c.GridSize != 0 {
		if _, err := maze.New(c.GridSize); err != nil {
			return nil, err
		}
	}

	return &JourneySessionManager{
		sessions:         make(map[uuid.UUID]*journey.Session),
		ownerToSessions:  make(map[uuid.UUID][]uuid.UUID),
		gridSize:         c.GridSize,
		playbackInterval: c.PlaybackInterval,
		findOptions:      c.FindOptions,
		journeyLog:       c.JourneyLog,
		routeBoard:       c.RouteBoard,
		logger:           c.Logger,
	}, nil
}

// NewSession creates a session owned by ownerID. A size of 0 uses the configured grid size.
func (j *JourneySessionManager) NewSession(ownerID uuid.UUID, size int) (*journey.Session, error) {
	j.Lock()
	defer j.Unlock()

	if len(j.ownerToSessions[ownerID]) >= maxSessionsPerOwner {
		return nil, ErrTooManySessions
	}
	if size == 0 {
		size = j.gridSize
	}

	sessionID := uuid.New()
	for {
		if _, ok := j.sessions[sessionID]; !ok {
			break
		}
		sessionID = uuid.New()
	}

	session, err := journey.New(journey.Config{
		ID:               sessionID,
		OwnerID:          ownerID,
		Size:             size,
		PlaybackInterval: j.playbackInterval,
		FindOptions:      j.findOptions,
	})
	if err != nil {
		return nil, err
	}

	j.sessions[sessionID] = session
	j.ownerToSessions[ownerID] = append(j.ownerToSessions[ownerID], sessionID)
	j.logger.Info(fmt.Sprintf("created journey session %s for user %s", sessionID, ownerID))
	return session, nil
}

// Session returns the session if it exists and is owned by ownerID.
func (j *JourneySessionManager) Session(ownerID, sessionID uuid.UUID) (*journey.Session, error) {
	j.RLock()
	defer j.RUnlock()
	return j.lookup(ownerID, sessionID)
}

// Sessions lists the sessions owned by ownerID in creation order.
func (j *JourneySessionManager) Sessions(ownerID uuid.UUID) []uuid.UUID {
	j.RLock()
	defer j.RUnlock()

	ids := make([]uuid.UUID, len(j.ownerToSessions[ownerID]))
	copy(ids, j.ownerToSessions[ownerID])
	return ids
}

// StartJourney starts a journey in the session and records its outcome.
// Recording failures are logged and never fail the journey.
func (j *JourneySessionManager) StartJourney(ctx context.Context, ownerID, sessionID uuid.UUID) ([]maze.CellPosition, error) {
	session, err := j.Session(ownerID, sessionID)
	if err != nil {
		return nil, err
	}

	path, err := session.StartJourney()
	if err != nil && !errors.Is(err, journey.ErrNoRouteFound) {
		return nil, err
	}

	j.record(ctx, session, path)
	return path, err
}

// CloseSession stops the session replay and forgets it.
func (j *JourneySessionManager) CloseSession(ownerID, sessionID uuid.UUID) error {
	j.Lock()
	session, err := j.lookup(ownerID, sessionID)
	if err != nil {
		j.Unlock()
		return err
	}
	j.clean(ownerID, sessionID)
	j.Unlock()

	session.Close()
	j.logger.Info(fmt.Sprintf("closed journey session %s", sessionID))
	return nil
}

// History returns the most recent journeys of ownerID, newest first.
func (j *JourneySessionManager) History(ctx context.Context, ownerID uuid.UUID, limit int64) ([]*domain.JourneyRecord, error) {
	if j.journeyLog == nil {
		return nil, ErrNoJourneyLog
	}
	return j.journeyLog.ByOwner(ctx, ownerID, limit)
}

// TopRoutes returns the n longest routes found.
func (j *JourneySessionManager) TopRoutes(ctx context.Context, n int64) ([]domain.RouteEntry, error) {
	if j.routeBoard == nil {
		return nil, ErrNoRouteBoard
	}
	return j.routeBoard.Top(ctx, n)
}

// StopAll closes every session.
func (j *JourneySessionManager) StopAll() {
	j.Lock()
	sessions := make([]*journey.Session, 0, len(j.sessions))
	for _, session := range j.sessions {
		sessions = append(sessions, session)
	}
	j.sessions = make(map[uuid.UUID]*journey.Session)
	j.ownerToSessions = make(map[uuid.UUID][]uuid.UUID)
	j.Unlock()

	for _, session := range sessions {
		session.Close()
	}
}

func (j *JourneySessionManager) lookup(ownerID, sessionID uuid.UUID) (*journey.Session, error) {
	session, ok := j.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if session.OwnerID() != ownerID {
		return nil, ErrSessionForbidden
	}
	return session, nil
}

func (j *JourneySessionManager) clean(ownerID, sessionID uuid.UUID) {
	delete(j.sessions, sessionID)

	ids := j.ownerToSessions[ownerID]
	for k, id := range ids {
		if id == sessionID {
			ids = append(ids[:k], ids[k+1:]...)
			break
		}
	}
	if len(ids) == 0 {
		delete(j.ownerToSessions, ownerID)
		return
	}
	j.ownerToSessions[ownerID] = ids
}

func (j *JourneySessionManager) record(ctx context.Context, session *journey.Session, path []maze.CellPosition) {
	snap := session.Snapshot()
	record := &domain.JourneyRecord{
		ID:         uuid.New(),
		OwnerID:    session.OwnerID(),
		SessionID:  session.ID(),
		GridSize:   session.Size(),
		PathLength: len(path),
		Found:      len(path) > 0,
		CreatedAt:  time.Now().UTC(),
	}
	if snap.Entrance != nil {
		record.Entrance = *snap.Entrance
	}
	if snap.Exit != nil {
		record.Exit = *snap.Exit
	}

	if j.journeyLog != nil {
		if err := j.journeyLog.Append(ctx, record); err != nil {
			j.logger.Error(fmt.Sprintf("recording journey %s: %s", record.ID, err))
		}
	}

	if j.routeBoard != nil && record.Found {
		entry := domain.RouteEntry{JourneyID: record.ID, OwnerID: record.OwnerID, PathLength: record.PathLength}
		if err := j.routeBoard.Submit(ctx, entry); err != nil {
			j.logger.Error(fmt.Sprintf("submitting route %s: %s", record.ID, err))
		}
	}
}
