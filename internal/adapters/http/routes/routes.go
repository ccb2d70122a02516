package routes

import (
	"generate-recruit/internal/adapters/http/handlers"
	"generate-recruit/internal/adapters/http/middleware"
	"generate-recruit/internal/adapters/persistence/repositories"
	"generate-recruit/internal/config"
	"generate-recruit/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup wires repositories, services and handlers and configures all
// routes. Returns the cron service so main can stop it on shutdown.
func Setup(app *fiber.App, db *gorm.DB, cache *redis.Client, cfg *config.Config) *services.CronService {
	// Repositories
	appRepo := repositories.NewApplicationRepository(db)
	rosterRepo := repositories.NewRosterRepository(db)
	applicantRepo := repositories.NewApplicantRepository(db)
	questionRepo := repositories.NewQuestionRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Services
	reportService := services.NewReportService(appRepo, cache)
	rosterService := services.NewRosterService(rosterRepo)
	authService := services.NewAuthService(applicantRepo, rosterRepo, refreshTokenRepo, cfg)
	applicationService := services.NewApplicationService(appRepo, questionRepo, reportService)
	reviewService := services.NewReviewService(appRepo, reportService)
	questionService := services.NewQuestionService(questionRepo)
	cronService := services.NewCronService(reviewService, refreshTokenRepo, cfg.ClaimLeaseMinutes)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService, cfg)
	applicationHandler := handlers.NewApplicationHandler(applicationService)
	formHandler := handlers.NewFormHandler(questionService)
	reviewHandler := handlers.NewReviewHandler(reviewService)
	reportHandler := handlers.NewReportHandler(reportService)
	rosterHandler := handlers.NewRosterHandler(rosterService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.Check)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	authenticated := middleware.AuthMiddleware(cfg, rosterService)

	// API v1 group
	apiV1 := app.Group("/api/v1")
	apiV1.Get("/", healthHandler.APIInfo)

	// Auth routes (public, rate limited)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/activate", middleware.AuthRateLimiter(), authHandler.ActivateStaff)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Post("/refresh", authHandler.RefreshToken)
	authRoutes.Post("/logout", authHandler.Logout)
	authRoutes.Get("/me", authenticated, authHandler.Me)
	authRoutes.Post("/logout-all", authenticated, authHandler.LogoutAll)

	// Form routes (question configuration collaborator)
	formRoutes := apiV1.Group("/forms")
	formRoutes.Get("/questions", authenticated, formHandler.Get)
	formRoutes.Put("/questions", authenticated, middleware.RequireExecutive(), formHandler.Replace)

	// Application routes (applicants submit, both kinds read)
	appRoutes := apiV1.Group("/applications")
	appRoutes.Use(authenticated)
	appRoutes.Post("/", middleware.RequireApplicant(), middleware.SubmitRateLimiter(), applicationHandler.Submit)
	appRoutes.Get("/", applicationHandler.List)
	appRoutes.Get("/:id", applicationHandler.Get)
	appRoutes.Post("/:id/notes", middleware.RequireStaff(), applicationHandler.AppendNote)

	// Review routes (authorized staff only)
	reviewRoutes := apiV1.Group("/review")
	reviewRoutes.Use(authenticated)
	reviewRoutes.Use(middleware.RequireStaff())
	reviewRoutes.Get("/queue/:branch", reviewHandler.Queue)
	reviewRoutes.Post("/claim/:id", reviewHandler.Claim)
	reviewRoutes.Post("/release/:id", reviewHandler.Release)
	reviewRoutes.Post("/decision/:id", reviewHandler.Decide)
	reviewRoutes.Get("/history/:id", reviewHandler.History)

	// Report routes (authorized staff; executive checks in the service)
	reportRoutes := apiV1.Group("/reports")
	reportRoutes.Use(authenticated)
	reportRoutes.Use(middleware.RequireStaff())
	reportRoutes.Get("/branch-notes/:branch", reportHandler.BranchNotes)

	// Stats routes (funnel and reviewer breakdowns)
	statsRoutes := apiV1.Group("/stats")
	statsRoutes.Use(authenticated)
	statsRoutes.Use(middleware.RequireStaff())
	statsRoutes.Get("/branches", reportHandler.BranchStats)
	statsRoutes.Get("/funnel", reportHandler.Funnel)
	statsRoutes.Get("/reviewer", reportHandler.ReviewerStats)

	// Roster routes (executive only)
	rosterRoutes := apiV1.Group("/roster")
	rosterRoutes.Use(authenticated)
	rosterRoutes.Use(middleware.RequireExecutive())
	rosterRoutes.Get("/", rosterHandler.List)
	rosterRoutes.Put("/", rosterHandler.Upsert)
	rosterRoutes.Delete("/", rosterHandler.Deactivate)

	return cronService
}
