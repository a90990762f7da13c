package domain

import (
	"encoding/json"
	"time"
)

// EventKind tags a domain event on the wire and in the event store. The set
// of kinds is closed; decoding falls back to ErrUnknownEventKind rather than
// any reflective lookup.
type EventKind string

const (
	EventKindProductCreated EventKind = "product.created"
)

// DomainEvent is an immutable fact about a committed aggregate change.
type DomainEvent interface {
	Kind() EventKind
	AggregateID() string
	EventVersion() int64
	OccurredAt() time.Time
}

// ProductCreatedEvent records that a product entered the catalog. The version
// is the aggregate version at emission time.
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Version   int64     `json:"version"`
	Occurred  time.Time `json:"occurred_at"`
}

func NewProductCreatedEvent(productID, name string, price float64, version int64) ProductCreatedEvent {
	return ProductCreatedEvent{
		ProductID: productID,
		Name:      name,
		Price:     price,
		Version:   version,
		Occurred:  time.Now().UTC(),
	}
}

func (e ProductCreatedEvent) Kind() EventKind       { return EventKindProductCreated }
func (e ProductCreatedEvent) AggregateID() string   { return e.ProductID }
func (e ProductCreatedEvent) EventVersion() int64   { return e.Version }
func (e ProductCreatedEvent) OccurredAt() time.Time { return e.Occurred }

// wireEvent is the shape handed to the external bus. Consumers key on
// eventKind to pick the payload schema.
type wireEvent struct {
	EventKind   EventKind `json:"eventKind"`
	AggregateID string    `json:"aggregateId"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Version     int64     `json:"version"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// EncodeWire serializes an event into the external bus contract.
func EncodeWire(event DomainEvent) ([]byte, error) {
	switch e := event.(type) {
	case ProductCreatedEvent:
		return json.Marshal(wireEvent{
			EventKind:   e.Kind(),
			AggregateID: e.ProductID,
			Name:        e.Name,
			Price:       e.Price,
			Version:     e.Version,
			OccurredAt:  e.Occurred,
		})
	default:
		return nil, WrapError(ErrCodeInvalid, string(event.Kind()), ErrUnknownEventKind)
	}
}

// EncodeEventData serializes the event payload stored alongside its kind tag.
func EncodeEventData(event DomainEvent) ([]byte, error) {
	switch e := event.(type) {
	case ProductCreatedEvent:
		return json.Marshal(e)
	default:
		return nil, WrapError(ErrCodeInvalid, string(event.Kind()), ErrUnknownEventKind)
	}
}

// DecodeEvent rebuilds a typed event from its kind tag and stored payload.
// The match over kinds is total; anything else is an unknown kind.
func DecodeEvent(kind EventKind, data []byte) (DomainEvent, error) {
	switch kind {
	case EventKindProductCreated:
		var e ProductCreatedEvent
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, WrapError(ErrCodeInvalid, "malformed event payload", err)
		}
		return e, nil
	default:
		return nil, WrapError(ErrCodeInvalid, string(kind), ErrUnknownEventKind)
	}
}
