package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/gs-sudheesh/project-shoplite/internal/adapter/messaging"
	"github.com/gs-sudheesh/project-shoplite/internal/adapter/storage"
	"github.com/gs-sudheesh/project-shoplite/internal/config"
	"github.com/gs-sudheesh/project-shoplite/internal/relay"
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

	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("failed to ping postgres", zap.Error(err))
	}
	if err := storage.NewPostgresOrderAdapter(pool).EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	logger.Info("connected to postgres")

	publisher := messaging.NewKafkaPublisher(cfg.KafkaBroker, logger)
	defer publisher.Close()

	r := relay.New(pool, publisher, cfg.RelayInterval, cfg.RelayBatchSize, logger)
	if err := r.Run(ctx); err != nil {
		logger.Fatal("relay failed", zap.Error(err))
	}
}
