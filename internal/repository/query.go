package repository

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"catalog-orders/internal/apperrors"
	"catalog-orders/internal/models"
	"catalog-orders/internal/pagination"
)

const dateLayout = "2006-01-02"

// Campos por los que se permite ordenar el catálogo
var productSortFields = map[string]bool{
	"name":       true,
	"price":      true,
	"category":   true,
	"brand":      true,
	"created_at": true,
	"updated_at": true,
}

// BuildProductQuery construye el filtro conjuntivo del listado de productos.
// La búsqueda es el único grupo $or, el resto de condiciones son campos propios.
func BuildProductQuery(f models.ProductFilter) bson.M {
	query := bson.M{}

	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.Brand != "" {
		query["brand"] = f.Brand
	}
	if price := rangeFilter(f.MinPrice, f.MaxPrice); price != nil {
		query["price"] = price
	}
	if f.Size != "" {
		query["sizes.size"] = f.Size
	}
	if f.Name != "" {
		query["name"] = containsInsensitive(f.Name)
	}

	if f.InStock != nil {
		inStock := bson.M{"$elemMatch": bson.M{"stock": bson.M{"$gt": 0}}}
		if *f.InStock {
			query["sizes"] = inStock
		} else {
			// sin tallas o ninguna talla con stock > 0
			query["sizes"] = bson.M{"$not": inStock}
		}
	}

	if f.Search != "" {
		query["$or"] = searchClauses(f.Search)
	}

	return query
}

// BuildProductSort devuelve el orden del listado. Por defecto created_at desc.
// _id se agrega como desempate para que la ventana skip/limit sea determinista.
func BuildProductSort(f models.ProductFilter) (bson.D, error) {
	if f.SortBy == "" {
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, nil
	}
	if !productSortFields[f.SortBy] {
		return nil, apperrors.Invalid("product.list", "cannot sort by %q", f.SortBy)
	}

	order := 1
	if f.SortOrder == "desc" {
		order = -1
	}
	return bson.D{{Key: f.SortBy, Value: order}, {Key: "_id", Value: order}}, nil
}

// BuildOrderQuery construye el filtro del listado de órdenes.
// Enums o fechas inválidas son EUNPROCESSABLE (422), igual que los errores de binding.
func BuildOrderQuery(f models.OrderFilter) (bson.M, error) {
	const op = "order.list"
	query := bson.M{}

	if f.UserID != "" {
		query["user_id"] = f.UserID
	}
	if f.OrderStatus != "" {
		status := models.OrderStatus(f.OrderStatus)
		if !status.IsValid() {
			return nil, apperrors.Unprocessable(op, fmt.Errorf("invalid order_status %q", f.OrderStatus))
		}
		query["order_status"] = status
	}
	if f.PaymentStatus != "" {
		status := models.PaymentStatus(f.PaymentStatus)
		if !status.IsValid() {
			return nil, apperrors.Unprocessable(op, fmt.Errorf("invalid payment_status %q", f.PaymentStatus))
		}
		query["payment_status"] = status
	}
	if total := rangeFilter(f.MinTotal, f.MaxTotal); total != nil {
		query["total"] = total
	}

	created := bson.M{}
	if f.DateFrom != "" {
		from, _, err := parseDate(f.DateFrom)
		if err != nil {
			return nil, apperrors.Unprocessable(op, fmt.Errorf("invalid date_from %q", f.DateFrom))
		}
		created["$gte"] = from
	}
	if f.DateTo != "" {
		to, dateOnly, err := parseDate(f.DateTo)
		if err != nil {
			return nil, apperrors.Unprocessable(op, fmt.Errorf("invalid date_to %q", f.DateTo))
		}
		if dateOnly {
			// una fecha sin hora cubre el día completo
			to = to.Add(24*time.Hour - time.Nanosecond)
		}
		created["$lte"] = to
	}
	if len(created) > 0 {
		query["created_at"] = created
	}

	return query, nil
}

// OrderSort es el orden fijo del listado de órdenes
func OrderSort() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

// findOptions aplica orden y ventana de paginación
func findOptions(sort bson.D, w pagination.Window) *options.FindOptions {
	return options.Find().
		SetSort(sort).
		SetSkip(w.Skip).
		SetLimit(w.Limit)
}

func rangeFilter(min, max *float64) bson.M {
	r := bson.M{}
	if min != nil {
		r["$gte"] = *min
	}
	if max != nil {
		r["$lte"] = *max
	}
	if len(r) == 0 {
		return nil
	}
	return r
}

func searchClauses(term string) bson.A {
	return bson.A{
		bson.M{"name": containsInsensitive(term)},
		bson.M{"description": containsInsensitive(term)},
		bson.M{"tags": bson.M{"$in": bson.A{term}}},
	}
}

func containsInsensitive(term string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(term), "$options": "i"}
}

func parseDate(s string) (time.Time, bool, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false, err
	}
	return t.UTC(), true, nil
}
