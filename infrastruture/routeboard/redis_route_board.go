package routeboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultBoardKey = "pathfinder:route_board"
	memberSeparator = "|"
)

var ErrMalformedMember = errors.New("malformed route board member")

// RedisRouteBoard keeps the longest routes found in a Redis sorted set with TTL support.
type RedisRouteBoard struct {
	client *redis.Client
	locker *redsync.Redsync
	key    string
	size   int64
	ttl    time.Duration
}

// Config is used to create a RedisRouteBoard.
type Config struct {
	Client     *redis.Client
	Key        string // Sorted set key, "pathfinder:route_board" when empty.
	Size       int64  // Number of routes kept.
	TTLSeconds int
}

// New initializes a RedisRouteBoard with the provided Redis client.
func New(c Config) (*RedisRouteBoard, error) {
	if c.Client == nil {
		return nil, errors.New("route board requires a redis client")
	}
	if c.Size < 1 {
		return nil, fmt.Errorf("route board size must be positive, got %d", c.Size)
	}

	key := c.Key
	if key == "" {
		key = defaultBoardKey
	}

	return &RedisRouteBoard{
		client: c.Client,
		locker: redsync.New(goredis.NewPool(c.Client)),
		key:    key,
		size:   c.Size,
		ttl:    time.Duration(c.TTLSeconds) * time.Second,
	}, nil
}

// Submit adds a route scored by its length and trims the board to its size.
func (b *RedisRouteBoard) Submit(ctx context.Context, entry dmn.RouteEntry) error {
	mutex := b.locker.NewMutex(b.key + ":trim_lock")
	if err := mutex.LockContext(ctx); err != nil {
		return err
	}
	defer func() {
		_, _ = mutex.UnlockContext(ctx)
	}()

	member := encodeMember(entry.OwnerID, entry.JourneyID)
	if err := b.client.ZAdd(ctx, b.key, redis.Z{Score: float64(entry.PathLength), Member: member}).Err(); err != nil {
		return err
	}

	// Lowest scores sit at the start of the set.
	if err := b.client.ZRemRangeByRank(ctx, b.key, 0, -b.size-1).Err(); err != nil {
		return err
	}

	// Set expiration only if it's not already set
	ttl, err := b.client.TTL(ctx, b.key).Result()
	if err == nil && ttl == -1 && b.ttl > 0 {
		_ = b.client.Expire(ctx, b.key, b.ttl).Err()
	}
	return nil
}

// Top returns up to n routes, longest first.
func (b *RedisRouteBoard) Top(ctx context.Context, n int64) ([]dmn.RouteEntry, error) {
	if n < 1 || n > b.size {
		n = b.size
	}

	members, err := b.client.ZRevRangeWithScores(ctx, b.key, 0, n-1).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]dmn.RouteEntry, 0, len(members))
	for _, m := range members {
		raw, ok := m.Member.(string)
		if !ok {
			return nil, ErrMalformedMember
		}
		ownerID, journeyID, err := decodeMember(raw)
		if err != nil {
			return nil, err
		}
		entries = append(entries, dmn.RouteEntry{
			JourneyID:  journeyID,
			OwnerID:    ownerID,
			PathLength: int(m.Score),
		})
	}
	return entries, nil
}

// Count returns the number of routes on the board.
func (b *RedisRouteBoard) Count(ctx context.Context) int64 {
	return b.client.ZCard(ctx, b.key).Val()
}

func encodeMember(ownerID, journeyID uuid.UUID) string {
	return ownerID.String() + memberSeparator + journeyID.String()
}

func decodeMember(member string) (uuid.UUID, uuid.UUID, error) {
	owner, journey, ok := strings.Cut(member, memberSeparator)
	if !ok {
		return uuid.Nil, uuid.Nil, ErrMalformedMember
	}

	ownerID, err := uuid.Parse(owner)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: %s", ErrMalformedMember, err)
	}
	journeyID, err := uuid.Parse(journey)
	if err != nil {
		return uuid.Nil, uuid.Nil, fmt.Errorf("%w: %s", ErrMalformedMember, err)
	}
	return ownerID, journeyID, nil
}
