package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

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

	// Catalog store
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to connect mysql", zap.Error(err))
	}
	defer db.Close()
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}

	catalog := storage.NewMySQLCatalogAdapter(db)
	if err := catalog.EnsureSchema(ctx); err != nil {
		logger.Fatal("failed to ensure schema", zap.Error(err))
	}
	logger.Info("connected to mysql")

	var dedup port.DedupStore
	if cfg.DedupEnabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Fatal("failed to connect redis", zap.Error(err))
		}
		defer rdb.Close()
		dedup = storage.NewRedisDedupStore(rdb)
		logger.Info("redelivery dedup enabled")
	}

	reconciler := service.NewStockReconciler(catalog, dedup, logger)
	consumer := messaging.NewConsumer(cfg.KafkaBroker, reconciler, logger)
	defer consumer.Close()

	// A handler failure exits without committing the offset; the supervisor
	// restarts the worker and the broker re-presents the message.
	if err := consumer.Run(ctx); err != nil {
		logger.Fatal("consumer failed", zap.Error(err))
	}
	logger.Info("worker stopped",
		zap.Uint64("unresolved_references", reconciler.UnresolvedReferences()))
}
