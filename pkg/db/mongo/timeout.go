package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// WithTimeout bounds ctx by timeout unless it already has an earlier deadline.
// Session contexts are returned unchanged since wrapping them breaks the
// session binding.
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
		return context.WithDeadline(ctx, deadline)
	}
	return context.WithTimeout(ctx, timeout)
}

// EnsureDescendingIndex creates a descending single-field index when missing.
func EnsureDescendingIndex(ctx context.Context, coll *mongo.Collection, field string) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: field, Value: -1}},
		Options: options.Index().SetName(field + "_desc"),
	})
	if err != nil {
		return fmt.Errorf("failed to create index on %s.%s: %w", coll.Name(), field, err)
	}
	return nil
}
