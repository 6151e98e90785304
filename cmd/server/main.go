package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/http/routes"
	"lexora-lms/internal/adapters/persistence/models"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/config"
	"lexora-lms/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "lexora-lms/docs" // Swagger docs
)

// @title Lexora LMS API
// @version 1.0
// @description Library management backend: catalog, membership, loan lifecycle and late fees.

// @contact.name API Support
// @contact.email support@lexora.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:3000
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

	// Seed the initial librarian account
	if err := config.SeedAdminUser(db, cfg); err != nil {
		log.Printf("⚠️ Warning: Failed to seed librarian account: %v", err)
	}

	// Background jobs: overdue sweep + refresh token cleanup
	auditService := services.NewAuditService(repositories.NewAuditLogRepository(db))
	loanService := services.NewLoanService(
		db,
		repositories.NewLoanRepository(db),
		repositories.NewBookRepository(db),
		repositories.NewMemberRepository(db),
		auditService,
	)
	cronService := services.NewCronService(
		loanService,
		repositories.NewRefreshTokenRepository(db),
		cfg.Sweep.Schedule,
	)
	if err := cronService.Start(); err != nil {
		log.Fatalf("❌ Failed to start cron service: %v", err)
	}
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Lexora LMS API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

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
