package main

import (
	"log"

	"storefront/internal/analytics"
	"storefront/internal/api"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/events"
	"storefront/internal/logger"

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

	// Analytics connection for the dashboard
	analyticsRepo, err := analytics.New(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("Failed to open analytics connection: %v", err)
	}
	defer analyticsRepo.Close()

	// Order event publisher
	publisher := events.NewPublisher(cfg.KafkaBrokers)
	defer publisher.Close()

	// Initialize API server
	server, err := api.New(cfg, logger, db, rdb, analyticsRepo, publisher)
	if err != nil {
		logger.Fatal("Failed to build server: %v", err)
	}

	// Start server
	logger.Info("Starting API server on port " + cfg.APIPort)
	if err := server.Start(); err != nil {
		logger.Fatal("Failed to start server: %v", err)
	}
}
