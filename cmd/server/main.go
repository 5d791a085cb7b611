package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/hireos/hireos/internal/config"
	"github.com/hireos/hireos/internal/domain/fiber/handler"
	"github.com/hireos/hireos/internal/middleware"
	"github.com/hireos/hireos/internal/model"
	"github.com/hireos/hireos/internal/repository"
	"github.com/hireos/hireos/internal/service"
	"github.com/hireos/hireos/internal/usecase"
	"github.com/hireos/hireos/internal/worker"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	// Load .env file
	ctx := context.Background()
	err := godotenv.Load()
	if err != nil {
		log.Println("Could not load .env file")
	}

	appConfig := config.LoadAppConfig()
	companyConfig := config.LoadCompanyConfig()

	app := fiber.New(fiber.Config{
		AppName: appConfig.Name,
		ErrorHandler: func(ctx *fiber.Ctx, err error) error {
			// Status code defaults to 500
			code := fiber.StatusInternalServerError

			// Retrieve the custom status code if it's a *fiber.Error
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}

			message := err.Error()
			if message == "" {
				message = "Internal Server Error"
			}

			return ctx.Status(code).JSON(fiber.Map{"error": message})
		},
	})
	app.Use(logger.New())
	corsOrigins := companyConfig.FrontendURL
	if corsOrigins == "" {
		corsOrigins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: corsOrigins,
	}))
	// Use middleware
	app.Use(recover.New(recover.Config{
		EnableStackTrace: config.LoadAppConfig().Env != "production",
	}))

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // 1
	}))
	app.Use(pprof.New(pprof.Config{
		Next: func(c *fiber.Ctx) bool {
			return config.LoadAppConfig().Env != "production"
		},
	}))
	app.Use(healthcheck.New())

	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
	}))

	app.Use(middleware.RateLimiter(100, 1*time.Minute))

	db := ConnectDB()

	candidateRepo := repository.NewCandidateRepository(db)
	interviewRepo := repository.NewInterviewRepository(db)
	offerRepo := repository.NewOfferRepository(db)
	jobRepo := repository.NewJobRepository(db)
	userRepo := repository.NewUserRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	templateRepo := repository.NewEmailTemplateRepository(db)
	crmConnRepo := repository.NewCRMConnectionRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)

	mailer := service.NewMailerService()
	slack := service.NewSlackService()

	var embeddings usecase.EmbeddingService
	var resumeLLM service.ResumeLLM = service.NewOpenRouterService()
	gemini, err := service.NewGeminiService(ctx)
	if err != nil {
		log.Printf("Gemini unavailable, embeddings disabled: %v", err)
	} else {
		embeddings = gemini
		if config.LoadOpenRouterConfig().APIKey == "" {
			log.Println("No OpenRouter key, using Gemini for resume parsing")
			resumeLLM = gemini
		}
	}

	candidateUC := usecase.NewCandidateUsecase(usecase.CandidateUsecaseDeps{
		Candidates:    candidateRepo,
		Interviews:    interviewRepo,
		Offers:        offerRepo,
		Jobs:          jobRepo,
		Users:         userRepo,
		Activity:      activityRepo,
		Notifications: notificationRepo,
		Templates:     templateRepo,
		CRMConns:      crmConnRepo,
		Mailer:        mailer,
		Slack:         slack,
		CRMs: []service.CRMInterface{
			service.NewGHLService(),
			service.NewAirtableService(),
			service.NewSheetsService(),
		},
		Calendar:   service.NewCalendarMirrorService(),
		Resumes:    service.NewResumeFetcher(),
		LLM:        resumeLLM,
		Embeddings: embeddings,
	})
	interviewUC := usecase.NewInterviewUsecase(interviewRepo, candidateRepo, evaluationRepo, activityRepo)
	jobUC := usecase.NewJobUsecase(jobRepo, candidateRepo, activityRepo, embeddings)

	auth := middleware.Auth(userRepo)
	handler.NewCandidateHandler(candidateUC).RegisterRoutes(app, auth)
	handler.NewInterviewHandler(interviewUC).RegisterRoutes(app, auth)
	handler.NewJobHandler(jobUC).RegisterRoutes(app, auth)
	handler.NewOfferHandler(candidateUC).RegisterRoutes(app)
	handler.NewWebhookHandler(candidateUC, userRepo).RegisterRoutes(app)

	go worker.NewNotificationWorker(notificationRepo, mailer).Run(ctx)

	// Monitor goroutine count
	go func() {
		ticker := time.NewTicker(1 * time.Minute)
		defer ticker.Stop()

		for range ticker.C {
			log.Printf("Active goroutines: %d", runtime.NumGoroutine())
		}
	}()

	log.Println("Server running on ", appConfig.Port)
	if err := app.Listen(appConfig.Port); err != nil {
		log.Fatal(err)
	}
}

func ConnectDB() *gorm.DB {
	dbConfig := config.LoadDBConfig()
	appConfig := config.LoadAppConfig()

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		dbConfig.Host,
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Port,
		dbConfig.SSLMode,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Could not connect to database: %v", err)
	}
	pgDB, err := db.DB()
	if err != nil {
		log.Fatalf("Could not get database instance: %v", err)
	}
	if appConfig.Env != "production" {
		pgDB.SetMaxIdleConns(5)
		pgDB.SetMaxOpenConns(10)
		pgDB.SetConnMaxLifetime(30 * time.Minute)
	} else {
		pgDB.SetMaxIdleConns(20)
		pgDB.SetMaxOpenConns(200)
		pgDB.SetConnMaxLifetime(time.Hour)
	}

	err = db.AutoMigrate(
		&model.Account{},
		&model.User{},
		&model.Job{},
		&model.Candidate{},
		&model.Interview{},
		&model.Evaluation{},
		&model.Offer{},
		&model.ActivityLog{},
		&model.Notification{},
		&model.QueuedNotification{},
		&model.EmailTemplate{},
		&model.CRMConnection{},
	)
	if err != nil {
		log.Fatal("migration failed: ", err)
	}
	return db
}
