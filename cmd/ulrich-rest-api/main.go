// cmd/ulrich-rest-api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	v1 "github.com/leliel12/ulrich/internal/api/rest/v1"
	"github.com/leliel12/ulrich/internal/app"
	"github.com/leliel12/ulrich/internal/infrastructure/persistence"
	"github.com/leliel12/ulrich/internal/pkg/config"
	"github.com/leliel12/ulrich/internal/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Parse configuration
	configPath := os.Getenv("ULRICH_CONFIG")
	if configPath == "" {
		configPath = "configs/app.yaml"
	}

	cfg, err := config.InitializeAppConfig(configPath)
	if err != nil {
		if errors.Is(err, config.ErrDefaultConfigWritten) {
			return fmt.Errorf("no configuration found: %w; review it and restart", err)
		}
		return fmt.Errorf("failed to initialize config: %w", err)
	}

	// Initialize logger
	if err := logger.InitLogger(&cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log, err := logger.GetLogger()
	if err != nil {
		return fmt.Errorf("failed to get logger: %w", err)
	}

	// Initialize application dependencies
	deps, err := initializeDependencies(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if err := deps.db.Close(); err != nil {
			log.Warn("Failed to close database: ", err)
		}
	}()

	// Setup and start server with graceful shutdown
	return startServerWithGracefulShutdown(cfg, deps, log)
}

// appDependencies holds all initialized application components
type appDependencies struct {
	db          *persistence.Database
	users       *app.UserService
	tags        *app.TagService
	experiments *app.ExperimentService
	captures    *app.CaptureService
}

// initializeDependencies sets up the database facade and the services on top
func initializeDependencies(cfg *config.AppConfig, log logger.Logger) (*appDependencies, error) {
	db, err := persistence.New(cfg.Database, cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("failed to construct database: %w", err)
	}

	if err := db.CreateSchema(); err != nil {
		return nil, err
	}
	if err := db.CreateTables(); err != nil {
		return nil, err
	}
	log.Info("Schema and tables ready")

	return &appDependencies{
		db:          db,
		users:       app.NewUserService(db, log),
		tags:        app.NewTagService(db, log),
		experiments: app.NewExperimentService(db, log),
		captures:    app.NewCaptureService(db, log),
	}, nil
}

// startServerWithGracefulShutdown starts the HTTP server and handles graceful shutdown
func startServerWithGracefulShutdown(cfg *config.AppConfig, deps *appDependencies, log logger.Logger) error {
	// Setup router
	r := gin.Default()

	// Configure CORS
	allowedOrigins := cfg.Server.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Setup API routes
	v1.SetupRoutes(r, deps.users, deps.tags, deps.experiments, deps.captures)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second, // Prevent Slowloris attack
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting server on port ", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- fmt.Errorf("server failed to start: %w", err)
		}
	}()

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or server error
	select {
	case err := <-serverErrors:
		return err
	case sig := <-quit:
		log.Info("Received signal ", sig, ", initiating graceful shutdown")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	log.Info("Shutting down server...")
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server stopped gracefully")
	return nil
}
