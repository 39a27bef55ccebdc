package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"catalog-orders/internal/models"
)

const (
	TypeOrderCreated       = "order.created"
	TypeOrderStatusChanged = "order.status_changed"
)

// OrderEvent se publica en cada cambio del ciclo de vida de una orden
type OrderEvent struct {
	EventID       string               `json:"event_id"`
	Type          string               `json:"type"`
	OrderID       string               `json:"order_id"`
	UserID        string               `json:"user_id,omitempty"`
	OrderStatus   models.OrderStatus   `json:"order_status"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
	Total         float64              `json:"total"`
	ItemCount     int                  `json:"item_count"`
	RequestID     string               `json:"request_id,omitempty"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewOrderEvent construye el evento a partir del estado actual de la orden
func NewOrderEvent(eventType string, order *models.Order, requestID string) OrderEvent {
	return OrderEvent{
		EventID:       uuid.NewString(),
		Type:          eventType,
		OrderID:       order.ID.Hex(),
		UserID:        order.UserID,
		OrderStatus:   order.OrderStatus,
		PaymentStatus: order.PaymentStatus,
		Total:         order.Total,
		ItemCount:     len(order.Items),
		RequestID:     requestID,
		Timestamp:     time.Now().UTC(),
	}
}

// Publisher entrega eventos de órdenes a un broker
type Publisher interface {
	Publish(ctx context.Context, event OrderEvent) error
	Close()
}

// NoopPublisher descarta los eventos. Se usa cuando no hay brokers configurados.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }

func (NoopPublisher) Close() {}
