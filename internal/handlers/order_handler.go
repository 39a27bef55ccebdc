package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

// OrderManager es el flujo de órdenes que exponen los endpoints
type OrderManager interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filter models.OrderFilter) (pagination.Page[models.Order], error)
	UpdateOrderStatus(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error)
	CancelOrder(ctx context.Context, id string) (*models.Order, error)
}

type OrderHandler struct {
	orders OrderManager
	logger *zap.Logger
}

func NewOrderHandler(orders OrderManager, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, logger: logger}
}

// CreateOrder crea una orden con precios del catálogo
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.logger, bindError(apperrors.EINVALID, "order.create", err))
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GetOrder obtiene una orden por ID
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders lista órdenes con filtros y paginación
func (h *OrderHandler) ListOrders(c *gin.Context) {
	var params pagination.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "order.list", err))
		return
	}
	var filter models.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondError(c, h.logger, bindError(apperrors.EUNPROCESSABLE, "order.list", err))
		return
	}

	page, err := h.orders.ListOrders(c.Request.Context(), params, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// UpdateOrder cambia el estado de la orden
func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	var update models.OrderStatusUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondError(c, h.logger, bindError(apperrors.EINVALID, "order.update_status", err))
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CancelOrder cancela la orden. La orden no se borra.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	if _, err := h.orders.CancelOrder(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "order cancelled successfully"})
}
