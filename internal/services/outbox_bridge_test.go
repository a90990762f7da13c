package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/internal/infrastructure/outbox"
)

func TestOutboxBridge_Defer(t *testing.T) {
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "")
	if err != nil {
		t.Fatalf("failed to open outbox: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	bridge := NewOutboxBridge(store)
	event := domain.NewProductCreatedEvent("prod-1", "Widget", 9.99, 0)

	if err := bridge.Defer(context.Background(), event); err != nil {
		t.Fatalf("defer failed: %v", err)
	}

	items, err := store.GetBatch(1)
	if err != nil || len(items) != 1 {
		t.Fatalf("batch failed: %v (%d items)", err, len(items))
	}
	if items[0].AggregateID != "prod-1" || items[0].Kind != string(domain.EventKindProductCreated) {
		t.Errorf("unexpected item: %+v", items[0])
	}

	decoded, err := domain.DecodeEvent(domain.EventKind(items[0].Kind), items[0].Payload)
	if err != nil {
		t.Fatalf("payload does not decode: %v", err)
	}
	if decoded.AggregateID() != "prod-1" {
		t.Errorf("decoded aggregate = %s", decoded.AggregateID())
	}
}

func TestOutboxBridge_NilEvent(t *testing.T) {
	bridge := NewOutboxBridge(nil)
	if err := bridge.Defer(context.Background(), nil); err == nil {
		t.Error("expected error for nil event")
	}
}
