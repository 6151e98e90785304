package routes

import (
	"lexora-lms/internal/adapters/http/handlers"
	"lexora-lms/internal/adapters/http/middleware"
	"lexora-lms/internal/adapters/persistence/repositories"
	"lexora-lms/internal/config"
	"lexora-lms/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)
	bookRepo := repositories.NewBookRepository(db)
	memberRepo := repositories.NewMemberRepository(db)
	loanRepo := repositories.NewLoanRepository(db)
	lateFeeRepo := repositories.NewLateFeeRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	// Services
	auditService := services.NewAuditService(auditRepo)
	authService := services.NewAuthService(userRepo, refreshTokenRepo, cfg)
	bookService := services.NewBookService(db, bookRepo, loanRepo, auditService)
	memberService := services.NewMemberService(memberRepo, auditService)
	loanService := services.NewLoanService(db, loanRepo, bookRepo, memberRepo, auditService)
	lateFeeService := services.NewLateFeeService(lateFeeRepo, loanRepo, auditService)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	bookHandler := handlers.NewBookHandler(bookService)
	memberHandler := handlers.NewMemberHandler(memberService, loanService)
	loanHandler := handlers.NewLoanHandler(loanService)
	lateFeeHandler := handlers.NewLateFeeHandler(lateFeeService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	setupAuthRoutes(apiV1.Group("/auth"), authHandler, cfg)

	// Everything past this point requires authentication
	authed := apiV1.Group("", middleware.AuthMiddleware(cfg))

	setupBookRoutes(authed.Group("/books"), bookHandler, loanHandler)
	setupMemberRoutes(authed.Group("/members"), memberHandler, loanHandler, lateFeeHandler)
	setupLoanRoutes(authed.Group("/loans"), loanHandler, lateFeeHandler)
	setupLateFeeRoutes(authed.Group("/late-fees"), lateFeeHandler)

	// Audit trail (librarian only)
	authed.Get("/audit-logs", middleware.LibrarianOnly(), auditHandler.List)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler, cfg *config.Config) {
	// Public routes, rate-limited against brute force
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.AuthMiddleware(cfg), handler.Me)
	router.Post("/logout-all", middleware.AuthMiddleware(cfg), handler.LogoutAll)
}

// setupBookRoutes configures catalog routes
func setupBookRoutes(router fiber.Router, handler *handlers.BookHandler, loanHandler *handlers.LoanHandler) {
	// Reads (any authenticated user)
	router.Get("/", handler.List)
	router.Post("/list", handler.Search)
	router.Get("/isbn/:isbn", handler.GetByISBN)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/loans", middleware.LibrarianOnly(), loanHandler.ListByBook)

	// Mutations (librarian only)
	router.Post("/", middleware.LibrarianOnly(), handler.Create)
	router.Put("/:id", middleware.LibrarianOnly(), handler.Update)
	router.Delete("/:id", middleware.LibrarianOnly(), handler.Delete)
}

// setupMemberRoutes configures membership routes
func setupMemberRoutes(
	router fiber.Router,
	handler *handlers.MemberHandler,
	loanHandler *handlers.LoanHandler,
	lateFeeHandler *handlers.LateFeeHandler,
) {
	// Static-prefixed routes first so they are not swallowed by /:id
	router.Get("/email/:email", middleware.LibrarianOnly(), handler.GetByEmail)
	router.Get("/membership/:membershipId", middleware.LibrarianOnly(), handler.GetByMembershipID)

	// Reads (any authenticated user)
	router.Get("/", handler.List)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/can-borrow", handler.CanBorrow)
	router.Get("/:id/loans", loanHandler.ListByMember)
	router.Get("/:id/late-fees", lateFeeHandler.UnpaidByMember)
	router.Get("/:id/has-unpaid", lateFeeHandler.HasUnpaid)

	// Librarian only
	router.Post("/", middleware.LibrarianOnly(), handler.Create)
	router.Post("/list", middleware.LibrarianOnly(), handler.Search)
	router.Put("/:id", middleware.LibrarianOnly(), handler.Update)
	router.Post("/:id/deactivate", middleware.LibrarianOnly(), handler.Deactivate)
}

// setupLoanRoutes configures loan lifecycle routes
func setupLoanRoutes(router fiber.Router, handler *handlers.LoanHandler, lateFeeHandler *handlers.LateFeeHandler) {
	// Reads (any authenticated user)
	router.Get("/:id", handler.GetByID)
	router.Get("/:id/late-fees", lateFeeHandler.ListByLoan)
	router.Get("/:id/late-fee/preview", lateFeeHandler.Preview)

	// Librarian only
	router.Get("/", middleware.LibrarianOnly(), handler.List)
	router.Post("/list", middleware.LibrarianOnly(), handler.Search)
	router.Post("/borrow", middleware.LibrarianOnly(), handler.Borrow)
	router.Post("/sweep-overdue", middleware.LibrarianOnly(), handler.SweepOverdue)
	router.Post("/:id/return", middleware.LibrarianOnly(), handler.Return)
	router.Post("/:id/late-fee", middleware.LibrarianOnly(), lateFeeHandler.Calculate)
}

// setupLateFeeRoutes configures late fee routes
func setupLateFeeRoutes(router fiber.Router, handler *handlers.LateFeeHandler) {
	router.Get("/:id", handler.GetByID)
	router.Post("/:id/pay", middleware.LibrarianOnly(), handler.Pay)
}
