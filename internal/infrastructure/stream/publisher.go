// Package stream publishes domain events to the external message bus over
// Redis Streams, isolating the bus-specific framing from the rest of the
// pipeline.
package stream

import (
	"context"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/usecase"
)

// DefaultStream is the stream consumed by downstream services.
const DefaultStream = "product-events"

type Publisher struct {
	client *redislib.Client
	stream string
	logger *zap.Logger
}

func NewPublisher(client *redislib.Client, stream string, logger *zap.Logger) *Publisher {
	if stream == "" {
		stream = DefaultStream
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

// Publish serializes the event into the wire contract and appends it to the
// stream. Failures surface as PUBLISH errors; retry is the relay's job.
func (p *Publisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	payload, err := domain.EncodeWire(event)
	if err != nil {
		return domain.WrapError(domain.ErrCodePublish, "failed to serialize event", err)
	}

	err = p.client.XAdd(ctx, &redislib.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{
			"key":        event.AggregateID(),
			"event_type": string(event.Kind()),
			"payload":    payload,
		},
	}).Err()
	if err != nil {
		return domain.WrapError(domain.ErrCodePublish, "failed to publish event", err)
	}

	p.logger.Debug("event published",
		zap.String("stream", p.stream),
		zap.String("event_kind", string(event.Kind())),
		zap.String("aggregate_id", event.AggregateID()))
	return nil
}

var _ usecase.EventPublisher = (*Publisher)(nil)
