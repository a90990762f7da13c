package domain

import (
	"strings"
	"time"
)

// Price ceiling enforced on every price mutation.
const maxPrice = 1_000_000

// Product is the write-side aggregate for the catalog. Mutators either apply
// fully and bump Version, or fail without touching any field.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Active      bool      `json:"active"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	uncommitted []DomainEvent
}

// NewProduct builds an active product at version 0. The ID stays empty until
// persistence assigns one.
func NewProduct(name string, price float64, description, category string) (*Product, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validatePrice(price); err != nil {
		return nil, err
	}
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return nil, NewError(ErrCodeInvalid, "description cannot exceed 500 characters")
	}
	category = strings.TrimSpace(category)

	now := time.Now().UTC()
	return &Product{
		Name:        strings.TrimSpace(name),
		Price:       price,
		Description: description,
		Category:    category,
		Active:      true,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// UpdateName replaces the product name. A no-op rename is rejected.
func (p *Product) UpdateName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	name = strings.TrimSpace(name)
	if p.Name == name {
		return NewError(ErrCodeInvalid, "new name must be different from current name")
	}
	p.Name = name
	p.bump()
	return nil
}

// UpdatePrice replaces the product price. A no-op change is rejected.
func (p *Product) UpdatePrice(price float64) error {
	if err := validatePrice(price); err != nil {
		return err
	}
	if p.Price == price {
		return NewError(ErrCodeInvalid, "new price must be different from current price")
	}
	p.Price = price
	p.bump()
	return nil
}

// ApplyDiscount reduces the price by the given percentage, in (0, 100].
func (p *Product) ApplyDiscount(percentage float64) error {
	if percentage <= 0 || percentage > 100 {
		return NewError(ErrCodeInvalid, "discount percentage must be between 0 and 100")
	}
	if !p.Active {
		return NewError(ErrCodeInvalidState, "cannot apply discount to inactive product")
	}
	p.Price -= p.Price * (percentage / 100)
	p.bump()
	return nil
}

// UpdateDescription replaces the optional description.
func (p *Product) UpdateDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) > 500 {
		return NewError(ErrCodeInvalid, "description cannot exceed 500 characters")
	}
	p.Description = description
	p.bump()
	return nil
}

// UpdateCategory replaces the category; a present-but-blank value is rejected.
func (p *Product) UpdateCategory(category string) error {
	if category != "" && strings.TrimSpace(category) == "" {
		return NewError(ErrCodeInvalid, "category cannot be empty")
	}
	p.Category = strings.TrimSpace(category)
	p.bump()
	return nil
}

// Deactivate takes the product off sale.
func (p *Product) Deactivate() error {
	if !p.Active {
		return NewError(ErrCodeInvalidState, "product is already inactive")
	}
	p.Active = false
	p.bump()
	return nil
}

// Activate puts the product back on sale.
func (p *Product) Activate() error {
	if p.Active {
		return NewError(ErrCodeInvalidState, "product is already active")
	}
	p.Active = true
	p.bump()
	return nil
}

// IsAvailableForSale reports whether the product can currently be sold.
func (p *Product) IsAvailableForSale() bool {
	return p.Active && p.Price > 0
}

// ApplyCreated records the creation event at the current version. It must be
// called after persistence has assigned an ID; the version is not bumped.
func (p *Product) ApplyCreated() error {
	if p.ID == "" {
		return NewError(ErrCodeInvalidState, "cannot apply created event without an assigned id")
	}
	p.uncommitted = append(p.uncommitted, NewProductCreatedEvent(p.ID, p.Name, p.Price, p.Version))
	return nil
}

// UncommittedEvents returns a copy of the events recorded since the last
// MarkEventsCommitted call.
func (p *Product) UncommittedEvents() []DomainEvent {
	out := make([]DomainEvent, len(p.uncommitted))
	copy(out, p.uncommitted)
	return out
}

// MarkEventsCommitted clears the uncommitted buffer once the events have been
// stored and dispatched.
func (p *Product) MarkEventsCommitted() {
	p.uncommitted = nil
}

func (p *Product) bump() {
	p.Version++
	p.UpdatedAt = time.Now().UTC()
}

func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return NewError(ErrCodeInvalid, "product name cannot be empty")
	}
	if len(trimmed) < 3 {
		return NewError(ErrCodeInvalid, "product name must be at least 3 characters")
	}
	if len(trimmed) > 100 {
		return NewError(ErrCodeInvalid, "product name cannot exceed 100 characters")
	}
	return nil
}

func validatePrice(price float64) error {
	if price <= 0 {
		return NewError(ErrCodeInvalid, "product price must be positive")
	}
	if price > maxPrice {
		return NewError(ErrCodeInvalid, "product price cannot exceed 1,000,000")
	}
	return nil
}
