package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/catalogkit/products/domain"
)

// StoredEvent is the durable projection of a domain event.
type StoredEvent struct {
	ID          string          `json:"id"`
	AggregateID string          `json:"aggregate_id"`
	EventType   string          `json:"event_type"`
	EventData   json.RawMessage `json:"event_data"`
	Version     int64           `json:"version"`
	OccurredAt  time.Time       `json:"occurred_at"`
	StoredAt    time.Time       `json:"stored_at"`
}

// Decode rebuilds the typed domain event from the stored record.
func (e StoredEvent) Decode() (domain.DomainEvent, error) {
	return domain.DecodeEvent(domain.EventKind(e.EventType), e.EventData)
}

// EventStore is the append-only log of domain events. Each Save is
// independently durable: a failure mid-SaveAll leaves prior records
// committed. Records are never mutated or deleted.
type EventStore interface {
	Save(ctx context.Context, event domain.DomainEvent) error
	SaveAll(ctx context.Context, events []domain.DomainEvent) error
	GetEvents(ctx context.Context, aggregateID string) ([]StoredEvent, error)
	GetAllEvents(ctx context.Context) ([]StoredEvent, error)
}
