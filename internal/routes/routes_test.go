package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-orders/internal/cache"
	"catalog-orders/internal/handlers"
	"catalog-orders/internal/metrics"
)

func TestRegisterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	require.NoError(t, SetupValidation())

	reg := prometheus.NewRegistry()
	router := gin.New()
	RegisterRoutes(router, Handlers{
		Products: handlers.NewProductHandler(nil, cache.New(time.Minute), metrics.NewBusiness("test", reg), zap.NewNop()),
		Orders:   handlers.NewOrderHandler(nil, zap.NewNop()),
		Health:   handlers.NewHealthHandler(nil),
		Metrics:  promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
	})

	got := map[string]bool{}
	for _, r := range router.Routes() {
		got[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"POST /api/v1/products",
		"GET /api/v1/products",
		"GET /api/v1/products/search/:term",
		"GET /api/v1/products/:id",
		"PATCH /api/v1/products/:id",
		"PUT /api/v1/products/:id",
		"DELETE /api/v1/products/:id",
		"GET /api/v1/legacy/products",
		"POST /api/v1/orders",
		"GET /api/v1/orders",
		"GET /api/v1/orders/:id",
		"PATCH /api/v1/orders/:id",
		"DELETE /api/v1/orders/:id",
		"GET /api/v1/health",
		"GET /metrics",
	} {
		assert.True(t, got[want], want)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
