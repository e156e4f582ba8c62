package journeyapi

import (
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-pathfinder/api/identity"
	"github.com/beka-birhanu/vinom-pathfinder/journey"
	"github.com/beka-birhanu/vinom-pathfinder/maze"
	"github.com/beka-birhanu/vinom-pathfinder/service"
	"github.com/beka-birhanu/vinom-pathfinder/service/i"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	defaultTopRoutes    = 10

	snapshotEvent = "snapshot"
)

// JourneyController manages journey sessions of authenticated users.
type JourneyController struct {
	manager i.JourneyManager
}

// NewJourneyController initializes a JourneyController.
func NewJourneyController(m i.JourneyManager) (*JourneyController, error) {
	if m == nil {
		return nil, errors.New("journey controller requires a journey manager")
	}
	return &JourneyController{manager: m}, nil
}

// RegisterPublic registers public routes.
func (jc *JourneyController) RegisterPublic(route *gin.RouterGroup) {
	route.GET("/routes/top", jc.topRoutes)
}

// RegisterProtected registers protected routes.
func (jc *JourneyController) RegisterProtected(route *gin.RouterGroup) {
	journeys := route.Group("/journeys")
	{
		journeys.POST("", jc.create)
		journeys.GET("", jc.list)
		journeys.GET("/history", jc.history)
		journeys.GET("/:ID", jc.snapshot)
		journeys.DELETE("/:ID", jc.close)
		journeys.PUT("/:ID/mode", jc.setMode)
		journeys.POST("/:ID/clicks", jc.click)
		journeys.POST("/:ID/start", jc.start)
		journeys.POST("/:ID/reset", jc.reset)
		journeys.POST("/:ID/maze", jc.generate)
		journeys.GET("/:ID/stream", jc.stream)
	}
}

// create opens a session with an optional grid size.
func (jc *JourneyController) create(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	var request CreateSessionRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := jc.manager.NewSession(owner, request.Size)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, newSessionResponse(session.Snapshot()))
}

// list returns the IDs of the caller's sessions.
func (jc *JourneyController) list(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ctx.JSON(http.StatusOK, SessionListResponse{Sessions: jc.manager.Sessions(owner)})
}

func (jc *JourneyController) snapshot(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	ctx.JSON(http.StatusOK, newSessionResponse(session.Snapshot()))
}

func (jc *JourneyController) close(ctx *gin.Context) {
	owner, id, ok := jc.ids(ctx)
	if !ok {
		return
	}

	if err := jc.manager.CloseSession(owner, id); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func (jc *JourneyController) setMode(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	var request ModeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mode, err := journey.ParseMode(request.Mode)
	if err != nil {
		writeError(ctx, err)
		return
	}

	session.SetMode(mode)
	ctx.JSON(http.StatusOK, newSessionResponse(session.Snapshot()))
}

// click applies the session mode to a cell. Clicks outside the grid change nothing.
func (jc *JourneyController) click(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	var request ClickRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	changed := session.Click(maze.CellPosition{Row: *request.Row, Col: *request.Col})
	ctx.JSON(http.StatusOK, ClickResponse{Changed: changed, Session: newSessionResponse(session.Snapshot())})
}

// start searches a route and starts replaying it.
func (jc *JourneyController) start(ctx *gin.Context) {
	owner, id, ok := jc.ids(ctx)
	if !ok {
		return
	}

	path, err := jc.manager.StartJourney(ctx.Request.Context(), owner, id)
	if err != nil {
		writeError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, JourneyResponse{Path: path, Length: len(path)})
}

func (jc *JourneyController) reset(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	session.Reset()
	ctx.JSON(http.StatusOK, newSessionResponse(session.Snapshot()))
}

// generate replaces the walls with a random maze, reproducible when a seed is given.
func (jc *JourneyController) generate(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	var request MazeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil && !errors.Is(err, io.EOF) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seed := time.Now().UnixNano()
	if request.Seed != nil {
		seed = *request.Seed
	}

	session.Generate(rand.New(rand.NewSource(seed)))
	ctx.JSON(http.StatusOK, newSessionResponse(session.Snapshot()))
}

// stream sends the session state once, then every traveler event as server-sent events
// until the client leaves or the session is closed.
func (jc *JourneyController) stream(ctx *gin.Context) {
	session, _, ok := jc.session(ctx)
	if !ok {
		return
	}

	events, unsubscribe := session.Subscribe()
	defer unsubscribe()

	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	first := true
	ctx.Stream(func(w io.Writer) bool {
		if first {
			first = false
			ctx.SSEvent(snapshotEvent, newSessionResponse(session.Snapshot()))
			return true
		}

		select {
		case event, ok := <-events:
			if !ok {
				return false
			}
			ctx.SSEvent(string(event.Type), event)
			return true
		case <-ctx.Request.Context().Done():
			return false
		}
	})
}

func (jc *JourneyController) history(ctx *gin.Context) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	limit, err := queryInt(ctx, "limit", defaultHistoryLimit)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	records, err := jc.manager.History(ctx.Request.Context(), owner, limit)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

func (jc *JourneyController) topRoutes(ctx *gin.Context) {
	n, err := queryInt(ctx, "n", defaultTopRoutes)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	routes, err := jc.manager.TopRoutes(ctx.Request.Context(), n)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, routes)
}

// ids reads the caller and the session ID, answering the request itself when either is missing.
func (jc *JourneyController) ids(ctx *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	owner, ok := identity.UserID(ctx)
	if !ok {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(ctx.Params.ByName("ID"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return uuid.Nil, uuid.Nil, false
	}
	return owner, id, true
}

func (jc *JourneyController) session(ctx *gin.Context) (*journey.Session, uuid.UUID, bool) {
	owner, id, ok := jc.ids(ctx)
	if !ok {
		return nil, uuid.Nil, false
	}

	session, err := jc.manager.Session(owner, id)
	if err != nil {
		writeError(ctx, err)
		return nil, uuid.Nil, false
	}
	return session, owner, true
}

func queryInt(ctx *gin.Context, key string, defaultValue int64) (int64, error) {
	raw, ok := ctx.GetQuery(key)
	if !ok {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || value < 1 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return value, nil
}

// writeError maps service errors to status codes.
func writeError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, journey.ErrMissingEndpoint):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": journey.MessageMissingEndpoint})
	case errors.Is(err, journey.ErrNoRouteFound):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": journey.MessageNoRoute})
	case errors.Is(err, service.ErrSessionNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTooManySessions):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, maze.ErrInvalidDimension), errors.Is(err, journey.ErrUnknownMode):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNoJourneyLog), errors.Is(err, service.ErrNoRouteBoard):
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "unexpected error"})
	}
}
