package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/courseloop/courseloop-api/internal/config"
	"github.com/courseloop/courseloop-api/internal/database"
	"github.com/courseloop/courseloop-api/internal/handler"
	"github.com/courseloop/courseloop-api/internal/middleware"
	"github.com/courseloop/courseloop-api/internal/models"
	"github.com/courseloop/courseloop-api/internal/repository"
	"github.com/courseloop/courseloop-api/internal/router"
	"github.com/courseloop/courseloop-api/internal/service"
	cloud "github.com/courseloop/courseloop-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Course{},
		&models.Student{},
		&models.Assignment{},
		&models.Question{},
		&models.Submission{},
		&models.Answer{},
		&models.SubmissionGradeHistory{},
		&models.ForumThread{},
		&models.ForumReply{},
		&models.CourseFeedback{},
		&models.Notification{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	forumRepo := repository.NewForumRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	courseService := service.NewCourseService(courseRepo, validate, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, courseRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, assignmentRepo, validate, logger)
	gradingService := service.NewGradingService(submissionRepo, notificationService, validate, logger)
	forumService := service.NewForumService(forumRepo, notificationService, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, redisClient, validate, logger)
	statsService := service.NewStatsService(assignmentRepo, submissionRepo, redisClient, cfg.StatsCacheTTL, logger)
	uploadService := service.NewUploadService(uploader, cfg.UploadMaxSizeMB, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AssignmentHandler:   handler.NewAssignmentHandler(assignmentService, logger),
		SubmissionHandler:   handler.NewSubmissionHandler(submissionService, logger),
		GradingHandler:      handler.NewGradingHandler(gradingService, logger),
		CourseHandler:       handler.NewCourseHandler(courseService, logger),
		ForumHandler:        handler.NewForumHandler(forumService, logger),
		FeedbackHandler:     handler.NewFeedbackHandler(feedbackService, logger),
		StatsHandler:        handler.NewStatsHandler(statsService, logger),
		NotificationHandler: handler.NewNotificationHandler(notificationService, logger),
		UploadHandler:       handler.NewUploadHandler(uploadService, logger),
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
