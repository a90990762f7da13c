package services

import (
	"context"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/internal/infrastructure/outbox"
	"github.com/catalogkit/products/usecase"
)

// OutboxBridge adapts the outbox store to the dispatcher's retry sink.
type OutboxBridge struct {
	store *outbox.Store
}

func NewOutboxBridge(store *outbox.Store) *OutboxBridge {
	return &OutboxBridge{store: store}
}

func (b *OutboxBridge) Defer(ctx context.Context, event domain.DomainEvent) error {
	if b.store == nil || event == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := domain.EncodeEventData(event)
	if err != nil {
		return err
	}
	item := outbox.Item{
		AggregateID: event.AggregateID(),
		Kind:        string(event.Kind()),
		Payload:     payload,
	}
	return b.store.Enqueue(item)
}

var _ usecase.RetrySink = (*OutboxBridge)(nil)
