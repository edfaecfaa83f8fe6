package routes

import (
	"expensehub/internal/adapters/http/handlers"
	"expensehub/internal/adapters/http/middleware"
	"expensehub/internal/adapters/persistence/repositories"
	"expensehub/internal/config"
	"expensehub/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config, notifyService *services.NotificationService) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	passwordResetRepo := repositories.NewPasswordResetRepository(db)
	expenseRepo := repositories.NewExpenseRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	policyRepo := repositories.NewPolicyRepository(db)
	ticketRepo := repositories.NewTicketRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, refreshTokenRepo, passwordResetRepo, notifyService, cfg)
	userService := services.NewUserService(userRepo)
	categoryService := services.NewCategoryService(categoryRepo)
	policyService := services.NewPolicyService(policyRepo, categoryRepo, expenseRepo)
	expenseService := services.NewExpenseService(expenseRepo, categoryRepo, policyService, notifyService)
	approvalService := services.NewApprovalService(expenseRepo, notifyService)
	ticketService := services.NewTicketService(ticketRepo, notifyService)
	dashboardService := services.NewDashboardService(db)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	expenseHandler := handlers.NewExpenseHandler(expenseService, cfg)
	approvalHandler := handlers.NewApprovalHandler(approvalService)
	masterHandler := handlers.NewMasterHandler(categoryService, policyService)
	ticketHandler := handlers.NewTicketHandler(ticketService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)

	// Health check
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")

	// Auth routes (public + protected)
	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler, cfg)

	// Expense routes (authenticated)
	expenseRoutes := apiV1.Group("/expenses")
	expenseRoutes.Use(middleware.AuthMiddleware(cfg))
	setupExpenseRoutes(expenseRoutes, expenseHandler)

	// Approval routes (approvers only)
	approvalRoutes := apiV1.Group("/approvals")
	approvalRoutes.Use(middleware.AuthMiddleware(cfg))
	setupApprovalRoutes(approvalRoutes, approvalHandler)

	// Master data routes (categories & policies)
	categoryRoutes := apiV1.Group("/categories")
	categoryRoutes.Use(middleware.AuthMiddleware(cfg))
	setupCategoryRoutes(categoryRoutes, masterHandler)

	policyRoutes := apiV1.Group("/policies")
	policyRoutes.Use(middleware.AuthMiddleware(cfg))
	setupPolicyRoutes(policyRoutes, masterHandler)

	// Support ticket routes (authenticated)
	ticketRoutes := apiV1.Group("/tickets")
	ticketRoutes.Use(middleware.AuthMiddleware(cfg))
	setupTicketRoutes(ticketRoutes, ticketHandler)

	// User management routes (admin only)
	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.AuthMiddleware(cfg))
	userRoutes.Use(middleware.AdminOnly())
	setupUserRoutes(userRoutes, userHandler)

	// Dashboard routes
	dashboardRoutes := apiV1.Group("/dashboard")
	dashboardRoutes.Use(middleware.AuthMiddleware(cfg))
	setupDashboardRoutes(dashboardRoutes, dashboardHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes (rate limited against brute force)
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)
	router.Post("/forgot-password", middleware.StrictRateLimiter(), handler.ForgotPassword)
	router.Post("/reset-password", middleware.StrictRateLimiter(), handler.ResetPassword)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
	router.Put("/change-password", middleware.AuthMiddleware(cfg), handler.ChangePassword)
}

// setupExpenseRoutes configures expense claim routes
func setupExpenseRoutes(router fiber.Router, handler *handlers.ExpenseHandler) {
	router.Post("/", handler.Submit)
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/:id", handler.Get)
	router.Post("/:id/comments", handler.AddComment)

	// Payment processing (finance/admin only)
	router.Post("/:id/payment", middleware.FinanceOrAdmin(), handler.ProcessPayment)
}

// setupApprovalRoutes configures approval workflow routes
func setupApprovalRoutes(router fiber.Router, handler *handlers.ApprovalHandler) {
	// Workflow history is visible to the claim owner too
	router.Get("/:id/history", handler.History)

	approverRoutes := router.Group("")
	approverRoutes.Use(middleware.ApproverOnly())
	approverRoutes.Get("/pending", handler.Pending)
	approverRoutes.Post("/:id/approve", handler.Approve)
	approverRoutes.Post("/:id/reject", handler.Reject)
}

// setupCategoryRoutes configures expense category routes
func setupCategoryRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	router.Get("/", handler.ListCategories)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.CreateCategory)
	adminRoutes.Put("/:id", handler.UpdateCategory)
	adminRoutes.Delete("/:id", handler.DeleteCategory)
}

// setupPolicyRoutes configures expense policy routes
func setupPolicyRoutes(router fiber.Router, handler *handlers.MasterHandler) {
	router.Get("/", handler.ListPolicies)
	router.Get("/check", handler.CheckCompliance)
	router.Get("/:id", handler.GetPolicy)

	adminRoutes := router.Group("")
	adminRoutes.Use(middleware.AdminOnly())
	adminRoutes.Post("/", handler.CreatePolicy)
	adminRoutes.Put("/:id", handler.UpdatePolicy)
	adminRoutes.Delete("/:id", handler.DeletePolicy)
}

// setupTicketRoutes configures support ticket routes
func setupTicketRoutes(router fiber.Router, handler *handlers.TicketHandler) {
	router.Post("/", handler.Create)
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)
	router.Post("/:id/replies", handler.Reply)

	// Status changes are reserved for staff
	router.Patch("/:id/status", middleware.ApproverOnly(), handler.UpdateStatus)
}

// setupUserRoutes configures user management routes (admin only)
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler) {
	router.Get("/", handler.List)
	router.Get("/stats", handler.Stats)
	router.Get("/:id", handler.Get)
	router.Put("/:id", handler.Update)
	router.Put("/:id/password", handler.ResetPassword)
	router.Delete("/:id", handler.Deactivate)
}

// setupDashboardRoutes configures dashboard routes
func setupDashboardRoutes(router fiber.Router, handler *handlers.DashboardHandler) {
	router.Get("/me", handler.Me)
	router.Get("/admin", middleware.AdminOnly(), handler.Admin)
}
