package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"catalog-orders/internal/models"
)

func TestNewOrderEvent(t *testing.T) {
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		UserID:        "u1",
		Items:         []models.OrderItem{{ProductID: "p1"}, {ProductID: "p2"}},
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Total:         70.10,
	}

	e := NewOrderEvent(TypeOrderCreated, order, "req-1")
	assert.NotEmpty(t, e.EventID)
	assert.Equal(t, order.ID.Hex(), e.OrderID)
	assert.Equal(t, 2, e.ItemCount)
	assert.Equal(t, "req-1", e.RequestID)

	other := NewOrderEvent(TypeOrderCreated, order, "req-1")
	assert.NotEqual(t, e.EventID, other.EventID)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"order.created"`)
	assert.Contains(t, string(data), `"order_status":"pending"`)
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = NoopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{}))
	p.Close()
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, splitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, splitBrokers(""))
}

func TestNewKafkaPublisher_RequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(" , ", "orders", zap.NewNop())
	assert.Error(t, err)
}
