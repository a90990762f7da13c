package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/internal/infrastructure/outbox"
)

type stubPublisher struct {
	published []domain.DomainEvent
	err       error
}

func (p *stubPublisher) Publish(ctx context.Context, event domain.DomainEvent) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, event)
	return nil
}

type stubHealth struct{ online bool }

func (h stubHealth) IsOnline() bool { return h.online }

func openRelayFixture(t *testing.T, publisher *stubPublisher, online bool) (*OutboxRelay, *outbox.Store) {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	if err != nil {
		t.Fatalf("failed to open outbox: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	relay := NewOutboxRelay(store, stubHealth{online: online}, publisher, nil, RelayConfig{
		Interval:   time.Minute,
		BatchSize:  10,
		MaxRetries: 2,
	})
	return relay, store
}

func enqueueCreated(t *testing.T, store *outbox.Store, productID string) {
	t.Helper()
	event := domain.NewProductCreatedEvent(productID, "Widget", 9.99, 0)
	payload, err := domain.EncodeEventData(event)
	if err != nil {
		t.Fatalf("failed to encode event: %v", err)
	}
	if err := store.Enqueue(outbox.Item{
		AggregateID: productID,
		Kind:        string(event.Kind()),
		Payload:     payload,
	}); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}
}

func TestOutboxRelay_DrainRepublishes(t *testing.T) {
	publisher := &stubPublisher{}
	relay, store := openRelayFixture(t, publisher, true)
	enqueueCreated(t, store, "prod-1")
	enqueueCreated(t, store, "prod-2")

	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if len(publisher.published) != 2 {
		t.Errorf("expected 2 republished events, got %d", len(publisher.published))
	}
	if relay.Size() != 0 {
		t.Errorf("expected empty outbox after drain, got %d", relay.Size())
	}
}

func TestOutboxRelay_DrainSkipsOffline(t *testing.T) {
	publisher := &stubPublisher{}
	relay, store := openRelayFixture(t, publisher, false)
	enqueueCreated(t, store, "prod-1")

	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}

	if len(publisher.published) != 0 {
		t.Errorf("offline drain must not publish, got %d", len(publisher.published))
	}
	if relay.Size() != 1 {
		t.Errorf("expected item to stay queued, got size %d", relay.Size())
	}
}

func TestOutboxRelay_DropAfterMaxRetries(t *testing.T) {
	publisher := &stubPublisher{err: errors.New("stream down")}
	relay, store := openRelayFixture(t, publisher, true)
	enqueueCreated(t, store, "prod-1")

	// MaxRetries is 2: first failed drain requeues, second drops.
	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("first drain failed: %v", err)
	}
	if relay.Size() != 1 {
		t.Fatalf("expected item requeued after first failure, got size %d", relay.Size())
	}

	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("second drain failed: %v", err)
	}
	if relay.Size() != 0 {
		t.Errorf("expected item dropped at max retries, got size %d", relay.Size())
	}
}

func TestOutboxRelay_MalformedItemRequeued(t *testing.T) {
	publisher := &stubPublisher{}
	relay, store := openRelayFixture(t, publisher, true)

	if err := store.Enqueue(outbox.Item{
		AggregateID: "prod-1",
		Kind:        "product.renamed",
		Payload:     []byte(`{}`),
	}); err != nil {
		t.Fatalf("failed to enqueue: %v", err)
	}

	if err := relay.Drain(context.Background()); err != nil {
		t.Fatalf("drain failed: %v", err)
	}
	if len(publisher.published) != 0 {
		t.Errorf("unknown kind must not publish, got %d", len(publisher.published))
	}
}
