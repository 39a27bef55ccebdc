package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestBuildProductQuery_Empty(t *testing.T) {
	assert.Equal(t, bson.M{}, BuildProductQuery(models.ProductFilter{}))
}

func TestBuildProductQuery_Conjunction(t *testing.T) {
	q := BuildProductQuery(models.ProductFilter{
		Category: "shoes",
		Brand:    "Acme",
		MinPrice: ptr(10.0),
		MaxPrice: ptr(50.0),
		Size:     "M",
	})

	assert.Equal(t, bson.M{
		"category":   "shoes",
		"brand":      "Acme",
		"price":      bson.M{"$gte": 10.0, "$lte": 50.0},
		"sizes.size": "M",
	}, q)
}

func TestBuildProductQuery_InStock(t *testing.T) {
	elem := bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}

	q := BuildProductQuery(models.ProductFilter{InStock: ptr(true)})
	assert.Equal(t, bson.M{"sizes": elem}, q)

	q = BuildProductQuery(models.ProductFilter{InStock: ptr(false)})
	assert.Equal(t, bson.M{"sizes": bson.M{"$not": elem}}, q)
}

func TestBuildProductQuery_SearchIsOrGroupAndedWithFilters(t *testing.T) {
	q := BuildProductQuery(models.ProductFilter{
		Search:   "run",
		Category: "shoes",
		InStock:  ptr(false),
	})

	assert.Equal(t, "shoes", q["category"])
	assert.Contains(t, q, "sizes", "in_stock=false must survive alongside search")
	assert.Equal(t, bson.A{
		bson.M{"name": bson.M{"$regex": "run", "$options": "i"}},
		bson.M{"description": bson.M{"$regex": "run", "$options": "i"}},
		bson.M{"tags": bson.M{"$in": bson.A{"run"}}},
	}, q["$or"])
}

func TestBuildProductQuery_SearchEscapesRegex(t *testing.T) {
	q := BuildProductQuery(models.ProductFilter{Search: "c++ (pro)"})

	clauses := q["$or"].(bson.A)
	assert.Equal(t, bson.M{"$regex": `c\+\+ \(pro\)`, "$options": "i"}, clauses[0].(bson.M)["name"])
	assert.Equal(t, bson.M{"$in": bson.A{"c++ (pro)"}}, clauses[2].(bson.M)["tags"])
}

func TestBuildProductSort(t *testing.T) {
	tests := []struct {
		name   string
		filter models.ProductFilter
		want   bson.D
	}{
		{"default", models.ProductFilter{}, bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}},
		{"asc by default", models.ProductFilter{SortBy: "price"}, bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}},
		{"desc", models.ProductFilter{SortBy: "name", SortOrder: "desc"}, bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BuildProductSort(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := BuildProductSort(models.ProductFilter{SortBy: "$where"})
	assert.True(t, apperrors.Is(err, apperrors.EINVALID))
}

func TestBuildOrderQuery(t *testing.T) {
	q, err := BuildOrderQuery(models.OrderFilter{
		UserID:        "u1",
		OrderStatus:   "shipped",
		PaymentStatus: "paid",
		MinTotal:      ptr(10.0),
		MaxTotal:      ptr(100.0),
	})
	require.NoError(t, err)

	assert.Equal(t, bson.M{
		"user_id":        "u1",
		"order_status":   models.OrderStatusShipped,
		"payment_status": models.PaymentStatusPaid,
		"total":          bson.M{"$gte": 10.0, "$lte": 100.0},
	}, q)
}

func TestBuildOrderQuery_DateRange(t *testing.T) {
	q, err := BuildOrderQuery(models.OrderFilter{DateFrom: "2024-01-01", DateTo: "2024-01-31"})
	require.NoError(t, err)

	created := q["created_at"].(bson.M)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), created["$gte"])
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), created["$lte"])

	q, err = BuildOrderQuery(models.OrderFilter{DateTo: "2024-01-31T12:00:00Z"})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC), q["created_at"].(bson.M)["$lte"])
}

func TestBuildOrderQuery_RejectsBadInput(t *testing.T) {
	tests := []models.OrderFilter{
		{OrderStatus: "lost"},
		{PaymentStatus: "maybe"},
		{DateFrom: "yesterday"},
		{DateTo: "31/01/2024"},
	}

	for _, f := range tests {
		_, err := BuildOrderQuery(f)
		assert.True(t, apperrors.Is(err, apperrors.EUNPROCESSABLE), "%+v", f)
	}
}
