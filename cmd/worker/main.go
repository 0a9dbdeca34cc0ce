package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/stock"
	"storefront/internal/worker"
	"storefront/internal/worker/processors"

	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// Initialize database
	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Invalid Redis URL: %v", err)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	stockCache, err := stock.NewRedisCache(rdb)
	if err != nil {
		logger.Fatal("Failed to build stock cache: %v", err)
	}
	stockService := stock.NewService(db.DB, stockCache, cfg.LowStockThreshold, logger)
	restock := processors.NewRestock(db.DB, stockService, logger)

	w := worker.New(cfg, logger, restock)

	// Stop on SIGINT/SIGTERM
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		w.Stop()
		os.Exit(0)
	}()

	w.Start()
}
