// Package product holds the command handlers, query path and event reactors
// for the product aggregate.
package product

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
	"github.com/catalogkit/products/usecase"
)

// Command kinds routed through the bus.
const (
	KindCreate = "product.create"
	KindUpdate = "product.update"
)

// CreateCommand describes a product to add to the catalog.
type CreateCommand struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

func (CreateCommand) Kind() string { return KindCreate }

func (c CreateCommand) Validate() []string {
	var violations []string
	name := strings.TrimSpace(c.Name)
	switch {
	case name == "":
		violations = append(violations, "product name is required")
	case len(name) < 3:
		violations = append(violations, "product name must be at least 3 characters")
	case len(name) > 100:
		violations = append(violations, "product name cannot exceed 100 characters")
	}
	if c.Price <= 0 {
		violations = append(violations, "product price must be positive")
	} else if c.Price > 1_000_000 {
		violations = append(violations, "product price cannot exceed 1,000,000")
	}
	if len(strings.TrimSpace(c.Description)) > 500 {
		violations = append(violations, "description cannot exceed 500 characters")
	}
	if c.Category != "" && strings.TrimSpace(c.Category) == "" {
		violations = append(violations, "category cannot be blank")
	}
	return violations
}

// CreateHandler orchestrates the create pipeline: uniqueness gate, aggregate
// construction, persistence, event-store append, dispatch. There is no
// compensating rollback: a failure after the entity is persisted leaves an
// acknowledged eventual-consistency gap for the relay to close.
type CreateHandler struct {
	products   repository.ProductRepository
	lookup     repository.LookupRepository
	store      repository.EventStore
	dispatcher *usecase.EventDispatcher
	logger     *zap.Logger
}

func NewCreateHandler(
	products repository.ProductRepository,
	lookup repository.LookupRepository,
	store repository.EventStore,
	dispatcher *usecase.EventDispatcher,
	logger *zap.Logger,
) *CreateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CreateHandler{
		products:   products,
		lookup:     lookup,
		store:      store,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// Handle implements usecase.CommandHandler for CreateCommand.
func (h *CreateHandler) Handle(ctx context.Context, cmd usecase.Command) (interface{}, error) {
	create, ok := cmd.(CreateCommand)
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	name := strings.TrimSpace(create.Name)
	exists, err := h.lookup.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.WrapError(domain.ErrCodeConflict, fmt.Sprintf("product %q already exists", name), domain.ErrDuplicateName)
	}

	aggregate, err := domain.NewProduct(create.Name, create.Price, create.Description, create.Category)
	if err != nil {
		return nil, err
	}

	if err := h.products.Create(ctx, aggregate); err != nil {
		return nil, err
	}

	if err := aggregate.ApplyCreated(); err != nil {
		return nil, err
	}

	events := aggregate.UncommittedEvents()
	if err := h.store.SaveAll(ctx, events); err != nil {
		return nil, err
	}

	if err := h.dispatcher.PublishAll(ctx, events); err != nil {
		return nil, err
	}

	aggregate.MarkEventsCommitted()

	h.logger.Info("product created",
		zap.String("product_id", aggregate.ID),
		zap.Int64("version", aggregate.Version))

	return newResponse(aggregate), nil
}
