package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/catalogkit/products/api/handler"
)

type Handlers struct {
	Product *apiHandler.ProductHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Read path
	r.GET("/api/v1/products", handlers.Product.ListProducts)

	// Write path (command pipeline)
	r.POST("/api/v1/products", authMiddleware(handlers.Product.CreateProduct))
	r.PUT("/api/v1/products/{id}", authMiddleware(handlers.Product.UpdateProduct))

	return r
}
