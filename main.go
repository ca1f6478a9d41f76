package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/RushabhMehta2005/recipe-api/config"
	"github.com/RushabhMehta2005/recipe-api/controllers"
	"github.com/RushabhMehta2005/recipe-api/database"
	"github.com/RushabhMehta2005/recipe-api/logging"
	"github.com/RushabhMehta2005/recipe-api/middleware"
	"github.com/RushabhMehta2005/recipe-api/routes"
	"github.com/RushabhMehta2005/recipe-api/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := config.LoadEnvVars(); err != nil {
		log.Fatalf("Failed to load environment variables: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	gin.SetMode(cfg.GinMode)

	db, err := database.ConnectToDB(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// One hashing worker per available CPU core.
	hasher := services.NewHasher(runtime.NumCPU(), cfg.BcryptCost)
	defer hasher.Close()

	users := services.NewUserService(db, hasher, logger)
	tokens := services.NewTokenService(cfg.SecretKey, cfg.JWTExpiration)
	auth := middleware.NewAuthenticator(tokens, users, logger)
	handler := controllers.NewHandler(db, users, tokens, auth, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.Setup(handler, logger, cfg.CORSAllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server listening", zap.String("addr", srv.Addr), zap.String("db_driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
