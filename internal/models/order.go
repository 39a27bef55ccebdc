package models

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lista los estados válidos en orden de ciclo de vida
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

func (s OrderStatus) IsValid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []PaymentStatus{
	PaymentStatusPending,
	PaymentStatusPaid,
	PaymentStatusFailed,
	PaymentStatusRefunded,
}

func (s PaymentStatus) IsValid() bool {
	for _, v := range PaymentStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// ShippingAddress es la dirección de envío embebida en la orden
type ShippingAddress struct {
	FullName     string `json:"full_name" bson:"full_name" validate:"required"`
	AddressLine1 string `json:"address_line1" bson:"address_line1" validate:"required"`
	AddressLine2 string `json:"address_line2,omitempty" bson:"address_line2,omitempty"`
	City         string `json:"city" bson:"city" validate:"required"`
	State        string `json:"state" bson:"state" validate:"required"`
	PostalCode   string `json:"postal_code" bson:"postal_code" validate:"required"`
	Country      string `json:"country" bson:"country" validate:"required"`
	Phone        string `json:"phone,omitempty" bson:"phone,omitempty"`
}

// OrderItem es una línea de la orden. ProductName, Price y Subtotal son
// snapshots calculados por el servidor.
type OrderItem struct {
	ProductID   string  `json:"product_id" bson:"product_id"`
	Size        string  `json:"size" bson:"size"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	ProductName string  `json:"product_name" bson:"product_name"`
	Price       float64 `json:"price" bson:"price"`
	Subtotal    float64 `json:"subtotal" bson:"subtotal"`
}

// Order es el documento de la colección orders
type Order struct {
	ID              primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID          string             `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Items           []OrderItem        `json:"items" bson:"items"`
	ShippingAddress ShippingAddress    `json:"shipping_address" bson:"shipping_address"`
	OrderStatus     OrderStatus        `json:"order_status" bson:"order_status"`
	PaymentStatus   PaymentStatus      `json:"payment_status" bson:"payment_status"`
	Subtotal        float64            `json:"subtotal" bson:"subtotal"`
	ShippingCost    float64            `json:"shipping_cost" bson:"shipping_cost"`
	Tax             float64            `json:"tax" bson:"tax"`
	Total           float64            `json:"total" bson:"total"`
	TrackingNumber  string             `json:"tracking_number,omitempty" bson:"tracking_number,omitempty"`
	Notes           string             `json:"notes,omitempty" bson:"notes,omitempty"`
	CreatedAt       time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt       *time.Time         `json:"updated_at" bson:"updated_at"`
}

// totalTolerance es la diferencia máxima aceptada entre total y la suma de sus partes
const totalTolerance = 0.01

// Validate comprueba las invariantes monetarias y de estado de la orden
func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return fmt.Errorf("order must have at least one item")
	}
	for i, item := range o.Items {
		if item.Quantity <= 0 {
			return fmt.Errorf("item %d: quantity must be greater than 0", i)
		}
		want := RoundMoney(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		if item.Subtotal != want {
			return fmt.Errorf("item %d: subtotal %.2f does not match price*quantity %.2f", i, item.Subtotal, want)
		}
	}
	if !o.OrderStatus.IsValid() {
		return fmt.Errorf("invalid order status %q", o.OrderStatus)
	}
	if !o.PaymentStatus.IsValid() {
		return fmt.Errorf("invalid payment status %q", o.PaymentStatus)
	}

	expected := RoundMoney(decimal.NewFromFloat(o.Subtotal).
		Add(decimal.NewFromFloat(o.ShippingCost)).
		Add(decimal.NewFromFloat(o.Tax)))
	if math.Abs(o.Total-expected) > totalTolerance+1e-9 {
		return fmt.Errorf("total %.2f does not match expected %.2f", o.Total, expected)
	}
	return nil
}

// RoundMoney redondea a centavos y devuelve el float64 más cercano
func RoundMoney(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// OrderItemRequest es una línea tal como la envía el cliente
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

// CreateOrderRequest es el payload de creación. Precios, subtotales y estados
// nunca se toman del cliente: OrderStatus/PaymentStatus se aceptan pero se ignoran.
type CreateOrderRequest struct {
	UserID          string             `json:"user_id" validate:"required,notblank"`
	Items           []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress    `json:"shipping_address"`
	Notes           string             `json:"notes,omitempty"`
	ShippingCost    *float64           `json:"shipping_cost,omitempty" validate:"omitempty,gte=0"`
	Tax             *float64           `json:"tax,omitempty" validate:"omitempty,gte=0"`
	OrderStatus     string             `json:"order_status,omitempty"`
	PaymentStatus   string             `json:"payment_status,omitempty"`
}

// OrderStatusUpdate es el payload del cambio de estado
type OrderStatusUpdate struct {
	OrderStatus    OrderStatus    `json:"order_status"`
	PaymentStatus  *PaymentStatus `json:"payment_status,omitempty"`
	TrackingNumber *string        `json:"tracking_number,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
}

// OrderFilter son los filtros opcionales del listado de órdenes
type OrderFilter struct {
	UserID        string   `form:"user_id"`
	OrderStatus   string   `form:"order_status"`
	PaymentStatus string   `form:"payment_status"`
	MinTotal      *float64 `form:"min_total" binding:"omitempty,gte=0"`
	MaxTotal      *float64 `form:"max_total" binding:"omitempty,gt=0"`
	DateFrom      string   `form:"date_from"`
	DateTo        string   `form:"date_to"`
}
