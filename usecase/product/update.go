package product

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/repository"
	"github.com/catalogkit/products/usecase"
)

// UpdateCommand patches an existing product. Nil fields are left unchanged;
// present fields overwrite exactly.
type UpdateCommand struct {
	ID          string   `json:"id"`
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

func (UpdateCommand) Kind() string { return KindUpdate }

func (c UpdateCommand) Validate() []string {
	var violations []string
	if strings.TrimSpace(c.ID) == "" {
		violations = append(violations, "product id is required")
	}
	if c.Name != nil {
		if n := len(strings.TrimSpace(*c.Name)); n < 1 || n > 100 {
			violations = append(violations, "product name must be between 1 and 100 characters")
		}
	}
	if c.Price != nil && *c.Price < 0.01 {
		violations = append(violations, "product price must be at least 0.01")
	}
	if c.Description != nil && len(*c.Description) > 500 {
		violations = append(violations, "description cannot exceed 500 characters")
	}
	if c.Category != nil && len(*c.Category) > 50 {
		violations = append(violations, "category cannot exceed 50 characters")
	}
	return violations
}

// UpdateHandler patches the persisted representation of an active product.
// Fields are written directly, bypassing the aggregate mutators; the write is
// a compare-and-swap on the version loaded here, so a concurrent writer
// surfaces as domain.ErrVersionConflict instead of a silent lost update.
type UpdateHandler struct {
	products repository.ProductRepository
	logger   *zap.Logger
}

func NewUpdateHandler(products repository.ProductRepository, logger *zap.Logger) *UpdateHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UpdateHandler{
		products: products,
		logger:   logger,
	}
}

// Handle implements usecase.CommandHandler for UpdateCommand.
func (h *UpdateHandler) Handle(ctx context.Context, cmd usecase.Command) (interface{}, error) {
	update, ok := cmd.(UpdateCommand)
	if !ok {
		return nil, domain.ErrInvalidPayload
	}

	entity, err := h.products.GetActive(ctx, update.ID)
	if err != nil {
		return nil, err
	}
	loadedVersion := entity.Version

	if update.Name != nil {
		entity.Name = *update.Name
	}
	if update.Price != nil {
		entity.Price = *update.Price
	}
	if update.Description != nil {
		entity.Description = *update.Description
	}
	if update.Category != nil {
		entity.Category = *update.Category
	}

	if err := h.products.Update(ctx, entity, loadedVersion); err != nil {
		return nil, err
	}

	h.logger.Info("product updated",
		zap.String("product_id", entity.ID),
		zap.Int64("version", entity.Version))

	return newResponse(entity), nil
}
