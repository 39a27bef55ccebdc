package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/events"
	"catalog-orders/internal/logger"
	"catalog-orders/internal/metrics"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

// ProductFinder resuelve referencias a productos en lote
type ProductFinder interface {
	CheckExist(ctx context.Context, ids []string) ([]models.Product, []string, error)
}

// OrderStore persiste órdenes
type OrderStore interface {
	Create(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter, window pagination.Window) ([]models.Order, int64, error)
	UpdateStatus(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error)
}

type OrderService struct {
	products  ProductFinder
	orders    OrderStore
	publisher events.Publisher
	metrics   *metrics.Business
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewOrderService(products ProductFinder, orders OrderStore, publisher events.Publisher, m *metrics.Business, logger *zap.Logger) (*OrderService, error) {
	v := validator.New()
	if err := models.RegisterValidators(v); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	return &OrderService{
		products:  products,
		orders:    orders,
		publisher: publisher,
		metrics:   m,
		validate:  v,
		logger:    logger,
	}, nil
}

// CreateOrder valida el pedido, toma precios del catálogo y persiste la orden
// en estado pending. Si falta algún producto no se persiste nada.
func (s *OrderService) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	const op = "order.create"

	if err := s.validate.Struct(req); err != nil {
		s.metrics.OrderRejections.WithLabelValues(apperrors.EINVALID).Inc()
		if fields := models.DescribeValidation(err); fields != nil {
			return nil, apperrors.Validation(apperrors.EINVALID, op, fields)
		}
		return nil, apperrors.Invalid(op, "%s", err.Error())
	}

	ids := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, missing, err := s.products.CheckExist(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		s.metrics.OrderRejections.WithLabelValues(apperrors.ENOTFOUND).Inc()
		return nil, apperrors.MissingRefs(op, "products", missing)
	}

	items, subtotal := priceItems(req.Items, catalogIndex(products))
	shipping, tax, total := orderTotal(subtotal, req.ShippingCost, req.Tax)

	order := &models.Order{
		UserID:          req.UserID,
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		OrderStatus:     models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusPending,
		Subtotal:        models.RoundMoney(subtotal),
		ShippingCost:    models.RoundMoney(shipping),
		Tax:             models.RoundMoney(tax),
		Total:           models.RoundMoney(total),
		Notes:           req.Notes,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	s.metrics.OrdersCreated.Inc()
	s.metrics.OrderValue.Observe(order.Total)
	s.metrics.OrderItemCount.Observe(float64(len(order.Items)))

	logger.For(ctx, s.logger).Info("order created",
		zap.String("order_id", order.ID.Hex()),
		zap.String("user_id", order.UserID),
		zap.Float64("total", order.Total))

	s.publish(ctx, events.TypeOrderCreated, order)
	return order, nil
}

// GetOrder obtiene una orden por ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.orders.Get(ctx, id)
}

// ListOrders lista órdenes filtradas y paginadas, más recientes primero
func (s *OrderService) ListOrders(ctx context.Context, params pagination.Params, filter models.OrderFilter) (pagination.Page[models.Order], error) {
	params = params.WithDefaults()

	orders, total, err := s.orders.List(ctx, filter, params.Window())
	if err != nil {
		return pagination.Page[models.Order]{}, err
	}
	return pagination.NewPage(orders, params, total), nil
}

// UpdateOrderStatus valida los estados antes de tocar el storage, así un valor
// inválido deja la orden intacta.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error) {
	const op = "order.update_status"

	if !update.OrderStatus.IsValid() {
		return nil, apperrors.Invalid(op, "invalid order status %q, must be one of %v", update.OrderStatus, models.OrderStatuses)
	}
	if update.PaymentStatus != nil && !update.PaymentStatus.IsValid() {
		return nil, apperrors.Invalid(op, "invalid payment status %q, must be one of %v", *update.PaymentStatus, models.PaymentStatuses)
	}

	order, err := s.orders.UpdateStatus(ctx, id, update)
	if err != nil {
		return nil, err
	}

	s.metrics.OrderStatusChanges.WithLabelValues(string(order.OrderStatus)).Inc()
	logger.For(ctx, s.logger).Info("order status updated",
		zap.String("order_id", order.ID.Hex()),
		zap.String("order_status", string(order.OrderStatus)),
		zap.String("payment_status", string(order.PaymentStatus)))

	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

// CancelOrder marca la orden como cancelled. No devuelve stock.
func (s *OrderService) CancelOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.UpdateOrderStatus(ctx, id, models.OrderStatusUpdate{OrderStatus: models.OrderStatusCancelled})
}

// publish es best effort: un fallo se registra pero no falla la operación
func (s *OrderService) publish(ctx context.Context, eventType string, order *models.Order) {
	event := events.NewOrderEvent(eventType, order, logger.RequestID(ctx))
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.metrics.EventPublishFailure.WithLabelValues(eventType).Inc()
		logger.For(ctx, s.logger).Error("failed to publish order event",
			zap.String("type", eventType),
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}
