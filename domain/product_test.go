package domain_test

import (
	"strings"
	"testing"

	"github.com/catalogkit/products/domain"
)

func newTestProduct(t *testing.T) *domain.Product {
	t.Helper()
	p, err := domain.NewProduct("Widget", 10.0, "a widget", "tools")
	if err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return p
}

func TestNewProduct(t *testing.T) {
	p := newTestProduct(t)

	if !p.Active {
		t.Error("expected new product to be active")
	}
	if p.Version != 0 {
		t.Errorf("expected version 0, got %d", p.Version)
	}
	if p.ID != "" {
		t.Errorf("expected empty id before persistence, got %q", p.ID)
	}
	if len(p.UncommittedEvents()) != 0 {
		t.Error("expected no events before ApplyCreated")
	}
}

func TestNewProduct_Validation(t *testing.T) {
	tests := []struct {
		name        string
		productName string
		price       float64
		wantCode    domain.ErrorCode
	}{
		{"empty name", "", 10, domain.ErrCodeInvalid},
		{"blank name", "   ", 10, domain.ErrCodeInvalid},
		{"short name", "ab", 10, domain.ErrCodeInvalid},
		{"long name", strings.Repeat("x", 101), 10, domain.ErrCodeInvalid},
		{"zero price", "Widget", 0, domain.ErrCodeInvalid},
		{"negative price", "Widget", -1, domain.ErrCodeInvalid},
		{"price over ceiling", "Widget", 1_000_001, domain.ErrCodeInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewProduct(tt.productName, tt.price, "", "")
			if !domain.IsDomainError(err, tt.wantCode) {
				t.Errorf("NewProduct(%q, %v) error = %v, want code %s", tt.productName, tt.price, err, tt.wantCode)
			}
		})
	}
}

func TestProduct_UpdateName(t *testing.T) {
	p := newTestProduct(t)

	if err := p.UpdateName("Gadget"); err != nil {
		t.Fatalf("failed to update name: %v", err)
	}
	if p.Name != "Gadget" {
		t.Errorf("expected name 'Gadget', got %q", p.Name)
	}
	if p.Version != 1 {
		t.Errorf("expected version 1, got %d", p.Version)
	}
}

func TestProduct_UpdateName_NoOp(t *testing.T) {
	p := newTestProduct(t)

	err := p.UpdateName("Widget")
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("expected INVALID for no-op rename, got %v", err)
	}
	if p.Version != 0 {
		t.Errorf("failed mutator must not bump version, got %d", p.Version)
	}
}

func TestProduct_UpdatePrice_NoOp(t *testing.T) {
	p := newTestProduct(t)

	err := p.UpdatePrice(10.0)
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("expected INVALID for no-op price change, got %v", err)
	}
}

func TestProduct_ApplyDiscount(t *testing.T) {
	tests := []struct {
		name       string
		percentage float64
		wantPrice  float64
		wantErr    bool
	}{
		{"half off", 50, 5.0, false},
		{"full discount", 100, 0.0, false},
		{"ten percent", 10, 9.0, false},
		{"zero percentage", 0, 10.0, true},
		{"negative percentage", -5, 10.0, true},
		{"over hundred", 100.01, 10.0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProduct(t)
			err := p.ApplyDiscount(tt.percentage)
			if tt.wantErr {
				if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
					t.Errorf("ApplyDiscount(%v) error = %v, want INVALID", tt.percentage, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ApplyDiscount(%v) unexpected error: %v", tt.percentage, err)
			}
			if p.Price != tt.wantPrice {
				t.Errorf("ApplyDiscount(%v) price = %v, want %v", tt.percentage, p.Price, tt.wantPrice)
			}
			if p.Version != 1 {
				t.Errorf("expected version 1 after discount, got %d", p.Version)
			}
		})
	}
}

func TestProduct_ApplyDiscount_Inactive(t *testing.T) {
	p := newTestProduct(t)
	if err := p.Deactivate(); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}

	err := p.ApplyDiscount(10)
	if !domain.IsDomainError(err, domain.ErrCodeInvalidState) {
		t.Errorf("expected INVALID_STATE for inactive product, got %v", err)
	}
}

func TestProduct_ActivateDeactivate(t *testing.T) {
	p := newTestProduct(t)

	if err := p.Activate(); !domain.IsDomainError(err, domain.ErrCodeInvalidState) {
		t.Errorf("activating an active product: got %v, want INVALID_STATE", err)
	}

	if err := p.Deactivate(); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}
	if err := p.Deactivate(); !domain.IsDomainError(err, domain.ErrCodeInvalidState) {
		t.Errorf("deactivating an inactive product: got %v, want INVALID_STATE", err)
	}

	if err := p.Activate(); err != nil {
		t.Fatalf("failed to activate: %v", err)
	}
	if p.Version != 2 {
		t.Errorf("expected version 2 after two toggles, got %d", p.Version)
	}
}

func TestProduct_UpdateDescription(t *testing.T) {
	p := newTestProduct(t)

	if err := p.UpdateDescription(strings.Repeat("x", 501)); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("expected INVALID for oversized description, got %v", err)
	}
	if err := p.UpdateDescription("  trimmed  "); err != nil {
		t.Fatalf("failed to update description: %v", err)
	}
	if p.Description != "trimmed" {
		t.Errorf("expected trimmed description, got %q", p.Description)
	}
}

func TestProduct_UpdateCategory_Blank(t *testing.T) {
	p := newTestProduct(t)

	if err := p.UpdateCategory("   "); !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("expected INVALID for blank category, got %v", err)
	}
}

func TestProduct_ApplyCreated(t *testing.T) {
	p := newTestProduct(t)

	if err := p.ApplyCreated(); !domain.IsDomainError(err, domain.ErrCodeInvalidState) {
		t.Errorf("ApplyCreated without id: got %v, want INVALID_STATE", err)
	}

	p.ID = "prod-1"
	if err := p.ApplyCreated(); err != nil {
		t.Fatalf("ApplyCreated failed: %v", err)
	}
	if p.Version != 0 {
		t.Errorf("ApplyCreated must not bump version, got %d", p.Version)
	}

	events := p.UncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("expected exactly one uncommitted event, got %d", len(events))
	}
	created, ok := events[0].(domain.ProductCreatedEvent)
	if !ok {
		t.Fatalf("expected ProductCreatedEvent, got %T", events[0])
	}
	if created.ProductID != "prod-1" || created.Name != "Widget" || created.Version != 0 {
		t.Errorf("unexpected event contents: %+v", created)
	}

	p.MarkEventsCommitted()
	if len(p.UncommittedEvents()) != 0 {
		t.Error("expected no events after MarkEventsCommitted")
	}
}

func TestProduct_IsAvailableForSale(t *testing.T) {
	p := newTestProduct(t)
	if !p.IsAvailableForSale() {
		t.Error("active product with positive price should be available")
	}
	if err := p.Deactivate(); err != nil {
		t.Fatalf("failed to deactivate: %v", err)
	}
	if p.IsAvailableForSale() {
		t.Error("inactive product should not be available")
	}
}
