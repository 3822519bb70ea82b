// Package main initializes and starts the fitness streak HTTP server,
// setting up configuration, logging, the database connection, repositories,
// services and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"

	nethttp "net/http"

	"github.com/bfitapp/server/internal/config"
	"github.com/bfitapp/server/internal/db"
	"github.com/bfitapp/server/internal/logger"
	"github.com/bfitapp/server/internal/repository"
	"github.com/bfitapp/server/internal/server/handler/http"
	"github.com/bfitapp/server/internal/service"
	"go.uber.org/zap"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	// Initialize PostgreSQL and apply migrations.
	database, err := db.InitPostgres(context.Background(), options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Initialize repositories for users and streaks.
	userRepo := repository.NewPostgresUserRepository(database)
	streakRepo := repository.NewPostgresStreakRepository(database)

	// Initialize business-logic services.
	authService := service.NewAuthService(userRepo, streakRepo)
	streakService := service.NewStreakService(streakRepo, userRepo)

	// Create HTTP handlers for auth, streak and health endpoints.
	authHandler := &http.AuthHandler{AuthService: authService, Logger: zapLogger}
	streakHandler := &http.StreakHandler{StreakService: streakService, Logger: zapLogger}
	healthHandler := &http.HealthHandler{DB: database}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, streakHandler, healthHandler, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("server stopped", zap.Error(err))
	}
}
