// Command createsuperuser creates a staff account with superuser rights.
//
//	go run ./createsuperuser -email admin@example.com -password s3cret
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/RushabhMehta2005/recipe-api/config"
	"github.com/RushabhMehta2005/recipe-api/database"
	"github.com/RushabhMehta2005/recipe-api/logging"
	"github.com/RushabhMehta2005/recipe-api/services"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email address of the new superuser")
	password := flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "password (defaults to $SUPERUSER_PASSWORD)")
	flag.Parse()

	if err := config.LoadEnvVars(); err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if *password == "" {
		logger.Fatal("A password is required")
	}

	db, err := database.ConnectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	hasher := services.NewHasher(1, cfg.BcryptCost)
	defer hasher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	user, err := services.NewUserService(db, hasher, logger).CreateSuperuser(ctx, *email, *password)
	if err != nil {
		logger.Fatal("Failed to create superuser", zap.Error(err))
	}

	logger.Info("Superuser created", zap.String("email", user.Email), zap.Uint("id", user.ID))
}
