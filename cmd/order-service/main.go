package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/adapter/handler"
	"github.com/gs-sudheesh/project-shoplite/internal/adapter/messaging"
	"github.com/gs-sudheesh/project-shoplite/internal/adapter/storage"
	"github.com/gs-sudheesh/project-shoplite/internal/config"
	"github.com/gs-sudheesh/project-shoplite/internal/core/service"
	"github.com/gs-sudheesh/project-shoplite/internal/port"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Order store
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}

	orderAdapter := storage.NewPostgresOrderAdapter(pool)
	if err := orderAdapter.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	logger.Info("connected to postgres")

	var (
		orders    port.OrderRepository
		publisher port.EventPublisher
	)
	if cfg.OutboxEnabled {
		// Events reach the channel through the outbox relay instead of a
		// direct publish after the save.
		orders = storage.NewOutboxOrderStore(pool)
		logger.Info("outbox mode enabled")
	} else {
		kafkaPublisher := messaging.NewKafkaPublisher(cfg.KafkaBroker, logger)
		defer kafkaPublisher.Close()
		orders = orderAdapter
		publisher = kafkaPublisher
	}

	orderService := service.NewOrderService(orders, publisher, logger)
	httpHandler := handler.NewHTTPHandler(orderService, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", httpHandler.HealthCheck)
	mux.HandleFunc("/api/orders", httpHandler.PlaceOrder)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: mux,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", zap.Error(err))
	}
	logger.Info("HTTP server stopped")
}
