package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sila-platform/sila-api/database"
	"github.com/sila-platform/sila-api/handlers"
	auth_handlers "github.com/sila-platform/sila-api/handlers/auth"
	beneficiary_handlers "github.com/sila-platform/sila-api/handlers/beneficiary"
	charity_handlers "github.com/sila-platform/sila-api/handlers/charity"
	event_handlers "github.com/sila-platform/sila-api/handlers/event"
	program_handlers "github.com/sila-platform/sila-api/handlers/program"
	statistics_handlers "github.com/sila-platform/sila-api/handlers/statistics"
	"github.com/sila-platform/sila-api/utils/auth"
	"github.com/sila-platform/sila-api/utils/cache"
	"github.com/sila-platform/sila-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage) {
	// Get JWT secret from environment
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "sila-api"
	}

	// Initialize JWT manager with config
	jwtConfig := auth.JWTConfig{
		Secret:        jwtSecret,
		Expiry:        24 * time.Hour,     // Access token expires in 24 hours
		RefreshExpiry: 7 * 24 * time.Hour, // Refresh token expires in 7 days
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Initialize Redis cache for brute force protection
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	charityHandler := charity_handlers.NewCharityHandler(db)
	beneficiaryHandler := beneficiary_handlers.NewBeneficiaryHandler(db)
	programHandler := program_handlers.NewProgramHandler(db)
	eventHandler := event_handlers.NewEventHandler(db)
	statisticsHandler := statistics_handlers.NewStatisticsHandler(db)

	// Health check
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store)
	})

	v1 := app.Group("/api/v1")

	// Home
	v1.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Welcome to the sila api home route!"})
	})

	// Auth
	users := v1.Group("/users")
	users.Post("/signup", authHandler.Signup)
	if bruteForceProtection != nil {
		users.Post("/login", bruteForceProtection.CheckAndRecordAttempt(), authHandler.Login)
	} else {
		users.Post("/login", authHandler.Login)
	}
	users.Get("/token/refresh", authMiddleware.Required(), authHandler.RefreshToken)
	users.Get("/profile", authMiddleware.Required(), authHandler.GetProfile)
	users.Patch("/profile", authMiddleware.Required(), authHandler.UpdateProfile)

	// Charities. The public registration route must be declared before
	// the :charity_id routes so "register" is not parsed as an id.
	charities := v1.Group("/charities")
	charities.Post("/register", authHandler.RegisterCharity)
	charities.Get("/", authMiddleware.Required(), charityHandler.List)
	charities.Post("/", authMiddleware.Required(), charityHandler.Create)
	charities.Get("/:charity_id", authMiddleware.Required(), charityHandler.Get)
	charities.Put("/:charity_id", authMiddleware.Required(), charityHandler.Update)
	charities.Patch("/:charity_id", authMiddleware.Required(), charityHandler.Update)
	charities.Delete("/:charity_id", authMiddleware.Required(), charityHandler.Delete)

	// Ministries
	v1.Post("/ministries/register", authHandler.RegisterMinistry)

	// Beneficiaries
	beneficiaries := v1.Group("/beneficiaries", authMiddleware.Required())
	beneficiaries.Get("/", beneficiaryHandler.List)
	beneficiaries.Post("/", beneficiaryHandler.Create)
	beneficiaries.Get("/:beneficiary_id", beneficiaryHandler.Get)
	beneficiaries.Put("/:beneficiary_id", beneficiaryHandler.Update)
	beneficiaries.Patch("/:beneficiary_id", beneficiaryHandler.Update)
	beneficiaries.Delete("/:beneficiary_id", beneficiaryHandler.Delete)

	// Programs. Listing and detail are public; the handlers decide what
	// an anonymous caller may see.
	programs := v1.Group("/programs")
	programs.Get("/", authMiddleware.Optional(), programHandler.List)
	programs.Post("/", authMiddleware.Optional(), programHandler.Create)
	programs.Get("/:program_id", authMiddleware.Optional(), programHandler.Get)
	programs.Put("/:program_id", authMiddleware.Optional(), programHandler.Update)
	programs.Patch("/:program_id", authMiddleware.Optional(), programHandler.Update)
	programs.Delete("/:program_id", authMiddleware.Optional(), programHandler.Delete)
	programs.Get("/:program_id/applications", authMiddleware.Required(), programHandler.ListApplications)
	programs.Post("/:program_id/applications", authMiddleware.Required(), programHandler.Apply)
	programs.Get("/:program_id/statistics", authMiddleware.Required(), statisticsHandler.GetProgramStatistics)

	// Events
	events := v1.Group("/events")
	events.Get("/", authMiddleware.Optional(), eventHandler.List)
	events.Post("/", authMiddleware.Optional(), eventHandler.Create)
	events.Get("/:event_id", authMiddleware.Required(), eventHandler.Get)
	events.Put("/:event_id", authMiddleware.Required(), eventHandler.Update)
	events.Patch("/:event_id", authMiddleware.Required(), eventHandler.Update)
	events.Delete("/:event_id", authMiddleware.Required(), eventHandler.Delete)
	events.Get("/:event_id/registrations", authMiddleware.Required(), eventHandler.ListRegistrations)
	events.Post("/:event_id/registrations", authMiddleware.Required(), eventHandler.Register)
	events.Delete("/:event_id/registrations/:registration_id", authMiddleware.Required(), eventHandler.Unregister)

	// Statistics
	v1.Get("/ministry/statistics", authMiddleware.Required(), statisticsHandler.GetMinistryStatistics)
	v1.Post("/ministry/statistics", authMiddleware.Required(), statisticsHandler.ExportMinistryStatistics)
	v1.Get("/charity/statistics", authMiddleware.Required(), statisticsHandler.GetCharityStatistics)
	v1.Post("/charity/statistics", authMiddleware.Required(), statisticsHandler.ExportCharityStatistics)
}
