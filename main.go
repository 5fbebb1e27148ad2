package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"startup-funding-system/handlers"
	"startup-funding-system/models"
	"startup-funding-system/services"
	"startup-funding-system/utils"
	"startup-funding-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // 25MB, enough for BR documents and banners
	})

	// Load allowed origins from environment variable
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, User-Agent, Cache-Control",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// Object storage is optional in local dev; uploads fail gracefully.
	if err := utils.InitStorage(); err != nil {
		log.Printf("⚠️  Object storage not configured, file uploads disabled: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Wallet{},
		&models.Transaction{},
		&models.Startup{},
		&models.Idea{},
		&models.Evaluation{},
		&models.Notification{},
		&models.Event{},
		&models.EventAttendee{},
		&models.InvestmentRequest{},
		&models.ProgressReport{},
		&models.Milestone{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	payhereCfg := services.PayhereConfigFromEnv()
	if !payhereCfg.Configured() {
		log.Println("⚠️  PayHere credentials not set, wallet deposits disabled")
	}

	notificationService := services.NewNotificationService(db)
	walletService := services.NewWalletService(db, payhereCfg, notificationService)
	startupService := services.NewStartupService(db)
	ideaService := services.NewIdeaService(db)
	eventService := services.NewEventService(db)
	requestService := services.NewRequestService(db, notificationService)
	progressReportService := services.NewProgressReportService(db)

	evaluationService, err := services.NewEvaluationService(db, os.Getenv("GEMINI_API_KEY"))
	if err != nil {
		log.Fatal("failed to initialize evaluation service:", err)
	}

	workers.StartDepositReconciler(db)

	handlers.SetupWalletRoutes(app, walletService)
	handlers.SetupStartupRoutes(app, startupService, evaluationService)
	handlers.SetupIdeaRoutes(app, ideaService)
	handlers.SetupEventRoutes(app, eventService)
	handlers.SetupNotificationRoutes(app, notificationService)
	handlers.SetupRequestRoutes(app, requestService)
	handlers.SetupProgressReportRoutes(app, progressReportService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5100"
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Stale deposit reconciler running (hourly)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
