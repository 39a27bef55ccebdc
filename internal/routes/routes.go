package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"catalog-orders/internal/handlers"
	"catalog-orders/internal/models"
)

// Handlers agrupa todo lo que se monta en el router
type Handlers struct {
	Products *handlers.ProductHandler
	Orders   *handlers.OrderHandler
	Health   *handlers.HealthHandler
	Metrics  http.Handler
}

// SetupValidation registra las reglas propias en el validador de gin
func SetupValidation() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return models.RegisterValidators(v)
}

func RegisterRoutes(router *gin.Engine, h Handlers) {
	router.GET("/metrics", gin.WrapH(h.Metrics))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", h.Health.Health)

		products := v1.Group("/products")
		products.POST("", h.Products.CreateProduct)
		products.GET("", h.Products.ListProducts)
		products.GET("/search/:term", h.Products.SearchProducts)
		products.GET("/:id", h.Products.GetProduct)
		products.PATCH("/:id", h.Products.UpdateProduct)
		products.PUT("/:id", h.Products.UpdateProduct)
		products.DELETE("/:id", h.Products.DeleteProduct)

		v1.GET("/legacy/products", h.Products.LegacyListProducts)

		orders := v1.Group("/orders")
		orders.POST("", h.Orders.CreateOrder)
		orders.GET("", h.Orders.ListOrders)
		orders.GET("/:id", h.Orders.GetOrder)
		orders.PATCH("/:id", h.Orders.UpdateOrder)
		orders.DELETE("/:id", h.Orders.CancelOrder)
	}
}
