package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/adapters/http/routes"
	"generate-recruit/internal/adapters/persistence/models"
	"generate-recruit/internal/config"

	"github.com/gofiber/fiber/v2"

	_ "generate-recruit/docs" // Swagger docs
)

// @title Generate Recruitment Portal API
// @version 1.0
// @description Application review workflow for Generate's recruiting cycle

// @contact.name API Support
// @contact.email tech@generatenu.dev

// @host localhost:8000
// @BasePath /api/v1
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed executive account and default forms
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Optional report cache
	cache := config.ConnectRedis(cfg)
	if cache != nil {
		defer cache.Close()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Generate Recruit API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db, cache and cfg for dependency injection)
	cronService := routes.Setup(app, db, cache, cfg)

	// Background jobs: token cleanup, optional claim-lease sweeper
	cronService.Start()
	defer cronService.Stop()

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
