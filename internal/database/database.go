package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

const (
	ProductsCollection = "products"
	OrdersCollection   = "orders"

	connectTimeout = 10 * time.Second
)

// Connect abre el cliente y verifica la conexión con un ping
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// Ping se usa en el health check
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}

// EnsureIndexes crea los índices que usan los filtros y ordenamientos
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		ProductsCollection: {
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price", Value: 1}}},
			{Keys: bson.D{{Key: "brand", Value: 1}}},
			{Keys: bson.D{{Key: "sizes.size", Value: 1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
		OrdersCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "order_status", Value: 1}}},
			{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}

// MigrateLegacyOrders renombra los campos antiguos status y total_amount a
// order_status y total. Solo toca documentos que aún no tienen el nombre nuevo.
func MigrateLegacyOrders(ctx context.Context, orders *mongo.Collection, logger *zap.Logger) error {
	renames := []struct{ from, to string }{
		{"status", "order_status"},
		{"total_amount", "total"},
	}

	for _, r := range renames {
		filter := bson.M{
			r.from: bson.M{"$exists": true},
			r.to:   bson.M{"$exists": false},
		}
		result, err := orders.UpdateMany(ctx, filter, bson.M{"$rename": bson.M{r.from: r.to}})
		if err != nil {
			return fmt.Errorf("rename %s to %s: %w", r.from, r.to, err)
		}
		if result.ModifiedCount > 0 {
			logger.Info("migrated legacy order field",
				zap.String("from", r.from),
				zap.String("to", r.to),
				zap.Int64("documents", result.ModifiedCount))
		}
	}
	return nil
}
