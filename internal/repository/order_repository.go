package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

type OrderRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

func NewOrderRepository(collection *mongo.Collection, logger *zap.Logger) *OrderRepository {
	return &OrderRepository{
		collection: collection,
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Create persiste una orden ya valorizada. updated_at queda en null.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := order.Validate(); err != nil {
		return apperrors.Invalid("order.create", "%s", err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	order.ID = primitive.NewObjectID()
	order.CreatedAt = r.now()
	order.UpdatedAt = nil

	if _, err := r.collection.InsertOne(ctx, order); err != nil {
		return r.internal(err, "order.create", "failed to create order")
	}
	return nil
}

// Get obtiene una orden por ID
func (r *OrderRepository) Get(ctx context.Context, id string) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Invalid("order.get", "invalid order ID")
	}

	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var order models.Order
	if err := r.collection.FindOne(ctx, bson.M{"_id": objID}).Decode(&order); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order.get", "order", id)
		}
		return nil, r.internal(err, "order.get", "failed to get order")
	}
	return &order, nil
}

// List lista órdenes filtradas, más recientes primero
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter, window pagination.Window) ([]models.Order, int64, error) {
	query, err := BuildOrderQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, r.internal(err, "order.list", "failed to count orders")
	}

	cursor, err := r.collection.Find(ctx, query, findOptions(OrderSort(), window))
	if err != nil {
		return nil, 0, r.internal(err, "order.list", "failed to list orders")
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, r.internal(err, "order.list", "failed to decode orders")
	}
	return orders, total, nil
}

// UpdateStatus aplica el cambio de estado y devuelve la orden actualizada.
// Los valores del update deben venir ya validados.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, update models.OrderStatusUpdate) (*models.Order, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, apperrors.Invalid("order.update_status", "invalid order ID")
	}

	set := bson.M{
		"order_status": update.OrderStatus,
		"updated_at":   r.now(),
	}
	if update.PaymentStatus != nil {
		set["payment_status"] = *update.PaymentStatus
	}
	if update.TrackingNumber != nil {
		set["tracking_number"] = *update.TrackingNumber
	}
	if update.Notes != nil {
		set["notes"] = *update.Notes
	}

	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	var order models.Order
	err = r.collection.FindOneAndUpdate(
		ctx,
		bson.M{"_id": objID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.NotFound("order.update_status", "order", id)
		}
		return nil, r.internal(err, "order.update_status", "failed to update order")
	}
	return &order, nil
}

func (r *OrderRepository) internal(err error, op, message string) error {
	r.logger.Error(message, zap.String("op", op), zap.Error(err))
	return apperrors.Internal(err, op, message)
}
