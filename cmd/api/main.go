package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"catalog-orders/internal/cache"
	"catalog-orders/internal/config"
	"catalog-orders/internal/database"
	"catalog-orders/internal/events"
	"catalog-orders/internal/handlers"
	"catalog-orders/internal/logger"
	"catalog-orders/internal/metrics"
	"catalog-orders/internal/middleware"
	"catalog-orders/internal/repository"
	"catalog-orders/internal/routes"
	"catalog-orders/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config: ", err)
	}

	zlog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to create logger: ", err)
	}
	defer zlog.Sync()

	if err := run(cfg, zlog); err != nil {
		zlog.Fatal("service stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, zlog *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := database.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			zlog.Error("Failed to disconnect mongo", zap.Error(err))
		}
	}()
	db := client.Database(cfg.MongoDB)
	zlog.Info("Connected to MongoDB", zap.String("database", cfg.MongoDB))

	if err := database.MigrateLegacyOrders(ctx, db.Collection(database.OrdersCollection), zlog); err != nil {
		return err
	}
	if err := database.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	checks := map[string]handlers.Checker{
		"mongo": func(ctx context.Context) error { return database.Ping(ctx, client) },
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafka, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.OrderEventsTopic, zlog)
		if err != nil {
			return err
		}
		publisher = kafka
		checks["kafka"] = kafka.Ping
	} else {
		zlog.Warn("KAFKA_BROKERS not set, order events are disabled")
	}
	defer publisher.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	business := metrics.NewBusiness(cfg.MetricsNamespace, registry)
	httpMetrics := middleware.NewMetrics(cfg.MetricsNamespace, registry)

	productCache := cache.New(cfg.CacheTTL)
	productCache.StartJanitor(ctx, 5*time.Minute)

	productRepo := repository.NewProductRepository(db.Collection(database.ProductsCollection), zlog)
	orderRepo := repository.NewOrderRepository(db.Collection(database.OrdersCollection), zlog)

	orderService, err := service.NewOrderService(productRepo, orderRepo, publisher, business, zlog)
	if err != nil {
		return err
	}

	if err := routes.SetupValidation(); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(zlog),
		httpMetrics.Handler(),
		requestTimeout(cfg.RequestTimeout),
	)
	routes.RegisterRoutes(router, routes.Handlers{
		Products: handlers.NewProductHandler(productRepo, productCache, business, zlog),
		Orders:   handlers.NewOrderHandler(orderService, zlog),
		Health:   handlers.NewHealthHandler(checks),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zlog.Info("Server running", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	zlog.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	zlog.Info("Server stopped")
	return nil
}

// requestTimeout acota cada request. Los repositorios aplican además sus propios timeouts.
func requestTimeout(d time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
