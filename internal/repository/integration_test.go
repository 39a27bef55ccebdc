//go:build integration

package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"catalog-orders/internal/database"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

// testDatabase abre una base descartable. Se salta si MONGO_TEST_URI no está definido.
func testDatabase(t *testing.T) *mongo.Database {
	t.Helper()
	_ = godotenv.Load("../../.env.test")

	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("Skipping integration test: MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, err := database.Connect(ctx, uri)
	require.NoError(t, err)

	db := client.Database(fmt.Sprintf("catalog_test_%d", time.Now().UnixNano()))
	t.Cleanup(func() {
		_ = db.Drop(ctx)
		_ = client.Disconnect(ctx)
	})
	return db
}

func TestIntegration_ProductLifecycle(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewProductRepository(db.Collection(database.ProductsCollection), zap.NewNop())

	p := models.ProductCreate{
		Name:     "Trail Runner",
		Price:    29.99,
		Category: "shoes",
		Tags:     []string{"running"},
		Sizes:    []models.ProductSize{{Size: "S", Stock: 10}, {Size: "M", Stock: 0}},
	}.ToProduct()
	require.NoError(t, repo.Create(ctx, p))

	got, err := repo.Get(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, p.Sizes, got.Sizes)
	assert.True(t, got.IsActive)
	require.NotNil(t, got.UpdatedAt)
	firstUpdate := *got.UpdatedAt

	time.Sleep(5 * time.Millisecond)
	name := "Trail Runner 2"
	updated, err := repo.Update(ctx, p.ID.Hex(), models.ProductUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, updated.Name)
	assert.Equal(t, 29.99, updated.Price, "absent fields stay untouched")
	assert.True(t, updated.UpdatedAt.After(firstUpdate))

	_, err = repo.Update(ctx, primitive.NewObjectID().Hex(), models.ProductUpdate{Name: &name})
	assert.Error(t, err)

	deleted, err := repo.Delete(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestIntegration_ProductFilters(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewProductRepository(db.Collection(database.ProductsCollection), zap.NewNop())

	seed := []*models.Product{
		{Name: "Runner", Price: 50, Category: "shoes", Tags: []string{"run"}, Sizes: []models.ProductSize{{Size: "M", Stock: 2}}},
		{Name: "Sold Out", Price: 20, Category: "shoes", Sizes: []models.ProductSize{{Size: "M", Stock: 0}}},
		{Name: "No Sizes", Price: 10, Category: "hats", Sizes: []models.ProductSize{}},
		{Name: "Cap", Description: "for running", Price: 15, Category: "hats", Sizes: []models.ProductSize{{Size: "L", Stock: 1}}},
	}
	for _, p := range seed {
		require.NoError(t, repo.Create(ctx, p))
	}

	names := func(f models.ProductFilter) []string {
		t.Helper()
		f.SortBy = "name"
		products, total, err := repo.List(ctx, f, pagination.Window{Limit: 100})
		require.NoError(t, err)
		assert.Equal(t, int64(len(products)), total)
		out := []string{}
		for _, p := range products {
			out = append(out, p.Name)
		}
		return out
	}

	inStock, outOfStock := true, false
	assert.Equal(t, []string{"Cap", "Runner"}, names(models.ProductFilter{InStock: &inStock}))
	assert.Equal(t, []string{"No Sizes", "Sold Out"}, names(models.ProductFilter{InStock: &outOfStock}))
	assert.Equal(t, []string{"Sold Out"}, names(models.ProductFilter{InStock: &outOfStock, Search: "sold"}))
	assert.Equal(t, []string{"Cap", "Runner"}, names(models.ProductFilter{Search: "run"}))
	assert.Equal(t, []string{"Runner", "Sold Out"}, names(models.ProductFilter{Size: "M"}))

	minPrice, maxPrice := 15.0, 20.0
	assert.Equal(t, []string{"Cap", "Sold Out"}, names(models.ProductFilter{MinPrice: &minPrice, MaxPrice: &maxPrice}))

	page, total, err := repo.List(ctx, models.ProductFilter{}, pagination.Params{Page: 2, PageSize: 3}.Window())
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, page, 1)
}

func TestIntegration_CheckExist(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	repo := NewProductRepository(db.Collection(database.ProductsCollection), zap.NewNop())

	p := &models.Product{Name: "Runner", Price: 10, Category: "shoes"}
	require.NoError(t, repo.Create(ctx, p))
	ghost := primitive.NewObjectID().Hex()

	found, missing, err := repo.CheckExist(ctx, []string{p.ID.Hex(), "not-hex", ghost, p.ID.Hex()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, []string{"not-hex", ghost}, missing)
}

func TestIntegration_OrdersAndLegacyMigration(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()
	coll := db.Collection(database.OrdersCollection)
	repo := NewOrderRepository(coll, zap.NewNop())

	_, err := coll.InsertOne(ctx, bson.M{
		"user_id":        "legacy",
		"items":          bson.A{bson.M{"product_id": "p", "size": "M", "quantity": 1, "product_name": "x", "price": 5.0, "subtotal": 5.0}},
		"status":         "delivered",
		"payment_status": "paid",
		"subtotal":       5.0,
		"total_amount":   5.0,
		"created_at":     time.Now().UTC(),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateLegacyOrders(ctx, coll, zap.NewNop()))

	order := &models.Order{
		UserID:        "u1",
		Items:         []models.OrderItem{{ProductID: "p1", Size: "M", Quantity: 2, ProductName: "Runner", Price: 29.99, Subtotal: 59.98}},
		OrderStatus:   models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Subtotal:      59.98,
		Total:         59.98,
	}
	require.NoError(t, repo.Create(ctx, order))

	delivered, _, err := repo.List(ctx, models.OrderFilter{OrderStatus: "delivered"}, pagination.Window{Limit: 10})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, 5.0, delivered[0].Total, "legacy total_amount is readable as total")

	tracking := "TRK-9"
	updated, err := repo.UpdateStatus(ctx, order.ID.Hex(), models.OrderStatusUpdate{
		OrderStatus:    models.OrderStatusShipped,
		TrackingNumber: &tracking,
	})
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, updated.OrderStatus)
	assert.Equal(t, models.PaymentStatusPending, updated.PaymentStatus)
	assert.Equal(t, "TRK-9", updated.TrackingNumber)
	assert.NotNil(t, updated.UpdatedAt)
}
