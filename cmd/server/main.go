package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"expensehub/internal/adapters/http/middleware"
	"expensehub/internal/adapters/http/routes"
	"expensehub/internal/adapters/persistence/models"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/config"
	"expensehub/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "expensehub/docs" // Swagger docs
)

// @title ExpenseHub API
// @version 1.0
// @description Expense reimbursement backend with tiered approval workflow
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@expensehub.io

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath /api/v1

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

	// Seed default admin, categories and policies
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Printf("⚠️ Warning: Failed to seed data: %v", err)
	}

	// Start cron service for expired token cleanup (daily)
	cronService := services.NewCronService(
		repositories.NewRefreshTokenRepository(db),
		repositories.NewPasswordResetRepository(db),
	)
	cronService.Start()
	defer cronService.Stop()

	// Start notification dispatcher (no-op when SMTP is not configured)
	notifyService := services.NewNotificationService(cfg.SMTP, repositories.NewUserRepository(db), 64)
	notifyService.Start()
	defer notifyService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "ExpenseHub API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
		BodyLimit:    10 * 1024 * 1024, // receipt uploads
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg, notifyService)

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
