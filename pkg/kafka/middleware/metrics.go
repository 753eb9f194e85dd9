package kafka_middleware

import (
	"context"
	"time"

	"frontdesk/pkg/kafka"
)

// PublishObserver receives the outcome of every publish.
type PublishObserver interface {
	ObservePublish(topic, eventType string, err error, duration time.Duration)
}

func MetricsProducerMiddleware(observer PublishObserver) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)
		observer.ObservePublish(msg.Topic, msg.GetEventType(), err, time.Since(start))
		return err
	}
}
