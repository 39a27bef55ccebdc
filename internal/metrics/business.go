package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Business agrupa las métricas de negocio de catálogo y órdenes
type Business struct {
	OrdersCreated       prometheus.Counter
	OrderValue          prometheus.Histogram
	OrderItemCount      prometheus.Histogram
	OrderStatusChanges  *prometheus.CounterVec
	OrderRejections     *prometheus.CounterVec
	ProductSearches     prometheus.Counter
	EventPublishFailure *prometheus.CounterVec
}

// NewBusiness registra las métricas en reg. En tests usar prometheus.NewRegistry().
func NewBusiness(namespace string, reg prometheus.Registerer) *Business {
	factory := promauto.With(reg)

	return &Business{
		OrdersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "Total number of orders created",
		}),
		OrderValue: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_value",
			Help:      "Order total at creation time",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500},
		}),
		OrderItemCount: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_item_count",
			Help:      "Number of line items per order",
			Buckets:   []float64{1, 2, 3, 5, 10, 20},
		}),
		OrderStatusChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_status_changes_total",
			Help:      "Order status transitions by target status",
		}, []string{"order_status"}),
		OrderRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_rejections_total",
			Help:      "Order creations rejected before persisting, by error code",
		}, []string{"code"}),
		ProductSearches: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "product_searches_total",
			Help:      "Total number of product searches",
		}),
		EventPublishFailure: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Order events that could not be published",
		}, []string{"type"}),
	}
}
