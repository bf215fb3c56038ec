// Package startup prepares the application server
package startup

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/container"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/logging"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/observability/performance"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/persistence/database"
	"github.com/FormulaEngajamento/engajamento-go/internal/infrastructure/security"
	"github.com/FormulaEngajamento/engajamento-go/internal/presentation/http/server"
	"github.com/FormulaEngajamento/engajamento-go/pkg/config"
	"github.com/gin-gonic/gin"
)

// Initialize performs the complete startup sequence
func Initialize() error {
	setupLogging()

	start := time.Now().UTC()

	// Step 1: Initialize channeled logging and performance tracking
	logger, err := logging.NewChanneledLogger(logging.DefaultLoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	perfTracker := performance.NewTracker(performance.DefaultTrackerConfig())
	logger.Startup().Info("Channeled logging initialized")

	// Step 2: Open the database connection
	stepStart := time.Now()
	driver, dsn, err := database.DataSourceName()
	if err != nil {
		return err
	}
	db, err := database.NewConnectionWithLogger(driver, dsn, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.LogStartupPhase("database-connection", time.Since(stepStart), true, map[string]any{"driver": driver})

	// Step 3: Create schema and seed the first admin account
	stepStart = time.Now()
	tableCreator := database.NewTableCreator()
	if err := tableCreator.CreateSchema(db.DB); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if err := seedAdmin(db, logger); err != nil {
		return err
	}
	logger.LogStartupPhase("schema", time.Since(stepStart), true, nil)

	// Step 4: Create dependency injection container
	appContainer := container.NewContainer(db, logger, perfTracker)
	logger.Startup().Info("Dependency injection container created with singleton services")

	// Step 5: Start the activity broadcaster
	go appContainer.Broadcaster.Run()
	logger.Startup().Info("Activity broadcaster started")

	// Step 6: Start HTTP server
	port := config.Port
	httpServer := server.New(port, appContainer)

	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.System().Info("Starting HTTP server", "address", ":"+port)
		if err := httpServer.Start(); err != nil {
			logger.System().Error("HTTP server failed", "error", err.Error())
		}
	}()

	logger.Startup().Info("Application startup complete",
		"totalDuration", time.Since(start),
		"port", port)

	// Wait for shutdown signal
	<-gracefulShutdown
	logger.Shutdown().Info("Shutdown signal received, starting graceful shutdown...")

	shutdownStart := time.Now()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Shutdown().Error("Error during server shutdown", "error", err.Error())
	} else {
		logger.Shutdown().Info("HTTP server stopped successfully")
	}

	if err := db.Close(); err != nil {
		logger.Shutdown().Error("Error closing database", "error", err.Error())
	} else {
		logger.Shutdown().Info("Database closed successfully")
	}

	logger.Shutdown().Info("Application shutdown complete",
		"totalUptime", time.Since(start),
		"shutdownDuration", time.Since(shutdownStart))

	return nil
}

// seedAdmin creates the first admin account when none exists. Without a
// configured seed password a random one is generated and printed once, so a
// fresh install is never left without credentials.
func seedAdmin(db *database.DB, logger *logging.ChanneledLogger) error {
	password := config.SeedAdminPassword
	generated := false
	if password == "" {
		var err error
		password, err = security.GenerateSecureKey(16)
		if err != nil {
			return fmt.Errorf("failed to generate seed admin password: %w", err)
		}
		generated = true
	}

	hash, err := security.HashPassword(password, config.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash seed admin password: %w", err)
	}

	tableCreator := database.NewTableCreator()
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admins").Scan(&count); err != nil {
		return fmt.Errorf("failed to count admins: %w", err)
	}
	if err := tableCreator.SeedInitialAdmin(db.DB, config.SeedAdminUsername, hash); err != nil {
		return err
	}

	if count == 0 {
		logger.Startup().Info("Seed admin account created", "username", config.SeedAdminUsername)
		if generated {
			log.Printf("Generated admin password for %q: %s (change it on first login)", config.SeedAdminUsername, password)
		}
	}
	return nil
}

// setupLogging configures application logging
func setupLogging() {
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}
