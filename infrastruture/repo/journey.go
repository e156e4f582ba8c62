package repo

import (
	"context"
	"errors"
	"time"

	dmn "github.com/beka-birhanu/vinom-pathfinder/domain"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const maxHistoryLimit = 100

// JourneyRepo is an append-only log of journey outcomes.
type JourneyRepo struct {
	collection *mongo.Collection
}

// NewJourneyRepo creates a new JourneyRepo with the given MongoDB client, database name, and collection name.
func NewJourneyRepo(client *mongo.Client, dbName, collectionName string) *JourneyRepo {
	return &JourneyRepo{
		collection: client.Database(dbName).Collection(collectionName),
	}
}

// EnsureIndexes indexes records by owner and time for history queries.
func (j *JourneyRepo) EnsureIndexes(ctx context.Context) error {
	_, err := j.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}},
	})
	return err
}

// Append stores a journey record.
func (j *JourneyRepo) Append(ctx context.Context, record *dmn.JourneyRecord) error {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	if _, err := j.collection.InsertOne(ctx, record); err != nil {
		return errors.New("unexpected error: " + err.Error())
	}
	return nil
}

// ByOwner returns up to limit records of the owner, newest first.
// The limit is clamped to [1, 100].
func (j *JourneyRepo) ByOwner(ctx context.Context, ownerID uuid.UUID, limit int64) ([]*dmn.JourneyRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(clampLimit(limit))

	cursor, err := j.collection.Find(ctx, bson.M{"ownerId": ownerID}, opts)
	if err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	defer cursor.Close(ctx)

	records := make([]*dmn.JourneyRecord, 0)
	if err := cursor.All(ctx, &records); err != nil {
		return nil, errors.New("unexpected error: " + err.Error())
	}
	return records, nil
}

func clampLimit(limit int64) int64 {
	if limit < 1 {
		return 1
	}
	if limit > maxHistoryLimit {
		return maxHistoryLimit
	}
	return limit
}
