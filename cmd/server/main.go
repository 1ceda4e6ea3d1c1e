package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/wanderio/travel-server/internal/api"
	"github.com/wanderio/travel-server/internal/auth"
	"github.com/wanderio/travel-server/internal/config"
	"github.com/wanderio/travel-server/internal/repository"
	"github.com/wanderio/travel-server/internal/service"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		logger.Fatal("failed to set up database", zap.Error(err))
	}
	defer db.Close()

	// Create repository
	repo := repository.NewPostgresRepository(db)

	// Token strategy is fixed once at startup.
	tokens := auth.NewTokenService(cfg.Auth.JWTEnabled, cfg.Auth.JWTSecret)

	// Create services
	handler := api.NewHandler(
		service.NewAirportService(repo, logger),
		service.NewFlightPathService(repo, logger),
		service.NewHotelService(repo, logger),
		service.NewTenantUserService(repo, tokens, cfg.Storage.Expiry, logger),
		service.NewUserService(repo, logger),
		tokens,
		logger,
	)

	// Set up Gin router
	router := gin.Default()
	router.Use(api.CORSMiddleware(), api.MetricsMiddleware())

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	logger.Info("starting server", zap.String("addr", serverAddr))
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
