package activity

import (
	"context"
	"fmt"
	"strconv"

	"frontdesk/pkg/kafka"
)

const schemaVersion = "1"

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// KafkaRecorder publishes events keyed by appointment id so that the history
// of one appointment stays on one partition.
type KafkaRecorder struct {
	publisher Publisher
	source    string
}

func NewKafkaRecorder(publisher Publisher, source string) *KafkaRecorder {
	return &KafkaRecorder{publisher: publisher, source: source}
}

func (r *KafkaRecorder) Record(ctx context.Context, e Event) error {
	msg, err := kafka.NewMessage().
		WithKey(partitionKey(e)).
		WithValue(e).
		WithEventID(e.ID).
		WithEventType(e.Type).
		WithCorrelationID(e.CorrelationID).
		WithSchemaVersion(schemaVersion).
		WithSource(r.source).
		WithTimestamp(e.OccurredAt).
		Build()
	if err != nil {
		return fmt.Errorf("failed to build activity message: %w", err)
	}

	if err := r.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", e.Type, err)
	}
	return nil
}

func partitionKey(e Event) string {
	if e.AppointmentID != 0 {
		return strconv.FormatInt(e.AppointmentID, 10)
	}
	if e.DialogID != "" {
		return e.DialogID
	}
	return e.ID
}
