package activity

import (
	"context"
	"fmt"
	"time"

	mongodb "frontdesk/pkg/db/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Activity"

	MaxRecent = 200
)

type mongoJournal struct {
	collection   *mongo.Collection
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewMongoJournal(db *mongo.Database, readTimeout, writeTimeout time.Duration) Journal {
	return &mongoJournal{
		collection:   db.Collection(CollectionName),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// EnsureIndexes prepares the journal for newest-first reads.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	return mongodb.EnsureDescendingIndex(ctx, db.Collection(CollectionName), "occurred_at")
}

func (j *mongoJournal) Record(ctx context.Context, e Event) error {
	ctx, cancel := mongodb.WithTimeout(ctx, j.writeTimeout)
	defer cancel()

	e.OccurredAt = e.OccurredAt.UTC().Truncate(time.Millisecond)
	if _, err := j.collection.InsertOne(ctx, e); err != nil {
		return fmt.Errorf("failed to store activity event: %w", err)
	}
	return nil
}

func (j *mongoJournal) Recent(ctx context.Context, limit int) ([]Event, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, j.readTimeout)
	defer cancel()

	opts := options.Find().
		SetLimit(int64(ClampLimit(limit))).
		SetSort(bson.D{{Key: "occurred_at", Value: -1}})

	cursor, err := j.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer cursor.Close(ctx)

	events := []Event{}
	if err = cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode activity: %w", err)
	}
	return events, nil
}

func ClampLimit(limit int) int {
	if limit <= 0 || limit > MaxRecent {
		return MaxRecent
	}
	return limit
}
