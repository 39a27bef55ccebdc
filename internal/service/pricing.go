package service

import (
	"strings"

	"github.com/shopspring/decimal"

	"catalog-orders/internal/models"
)

// catalogIndex indexa productos por ID hex en minúsculas
func catalogIndex(products []models.Product) map[string]models.Product {
	index := make(map[string]models.Product, len(products))
	for _, p := range products {
		index[p.ID.Hex()] = p
	}
	return index
}

// priceItems toma nombre y precio del catálogo y calcula cada subtotal
// redondeado a centavos. Todos los product_id deben existir en catalog.
// La talla no se verifica contra el producto.
func priceItems(reqs []models.OrderItemRequest, catalog map[string]models.Product) ([]models.OrderItem, decimal.Decimal) {
	items := make([]models.OrderItem, 0, len(reqs))
	subtotal := decimal.Zero

	for _, req := range reqs {
		product := catalog[strings.ToLower(req.ProductID)]
		price := decimal.NewFromFloat(product.Price)
		lineTotal := price.Mul(decimal.NewFromInt(int64(req.Quantity))).Round(2)

		items = append(items, models.OrderItem{
			ProductID:   req.ProductID,
			Size:        req.Size,
			Quantity:    req.Quantity,
			ProductName: product.Name,
			Price:       product.Price,
			Subtotal:    lineTotal.InexactFloat64(),
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return items, subtotal
}

// orderTotal = round(subtotal + shipping + tax, 2). Los opcionales valen 0.
// shipping y tax se redondean a centavos antes de sumar, así el total
// coincide con las partes que se guardan.
func orderTotal(subtotal decimal.Decimal, shippingCost, tax *float64) (shipping, taxes, total decimal.Decimal) {
	shipping = decimalOrZero(shippingCost).Round(2)
	taxes = decimalOrZero(tax).Round(2)
	total = subtotal.Add(shipping).Add(taxes).Round(2)
	return shipping, taxes, total
}

func decimalOrZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero
	}
	return decimal.NewFromFloat(*v)
}
