package main

import (
	"log"

	"github.com/RushabhMehta2005/recipe-api/config"
	"github.com/RushabhMehta2005/recipe-api/database"
	"github.com/RushabhMehta2005/recipe-api/logging"
	"go.uber.org/zap"
)

func main() {
	if err := config.LoadEnvVars(); err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	db, err := database.ConnectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	logger.Info("Running database migrations...", zap.String("driver", cfg.Database.Driver))

	if err := database.Migrate(db); err != nil {
		logger.Fatal("Migration failed", zap.Error(err))
	}

	logger.Info("Database migrated successfully")
}
