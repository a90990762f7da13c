package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/catalogkit/products/api/transport"
	"github.com/catalogkit/products/domain"
	"github.com/catalogkit/products/pkg/httpcontext"
	"github.com/catalogkit/products/usecase"
	productUC "github.com/catalogkit/products/usecase/product"
)

type ProductHandler struct {
	baseHandler
	bus   *usecase.CommandBus
	query *productUC.Query
}

func NewProductHandler(bus *usecase.CommandBus, query *productUC.Query, adapter *httpcontext.Adapter, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		baseHandler: newBaseHandler(adapter, logger),
		bus:         bus,
		query:       query,
	}
}

// @Summary Create product
// @Tags products
// @Router /api/v1/products [post]
func (h *ProductHandler) CreateProduct(ctx *fasthttp.RequestCtx) {
	var req transport.ProductCreateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.bus.Dispatch(stdCtx, productUC.CreateCommand{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, result)
}

// @Summary Update product
// @Tags products
// @Router /api/v1/products/{id} [put]
func (h *ProductHandler) UpdateProduct(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing product id", nil))
		return
	}

	var req transport.ProductUpdateRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "invalid payload", nil))
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := h.bus.Dispatch(stdCtx, productUC.UpdateCommand{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, result)
}

// @Summary List active products
// @Tags products
// @Router /api/v1/products [get]
func (h *ProductHandler) ListProducts(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	products, err := h.query.ListActive(stdCtx)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, products)
}
