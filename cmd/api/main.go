package main

import (
	"context"
	"go-talent-pipeline/config"
	_ "go-talent-pipeline/docs" // Important for Swagger
	v1 "go-talent-pipeline/internal/delivery/http/v1"
	"go-talent-pipeline/internal/notification"
	"go-talent-pipeline/internal/repository/postgres"
	"go-talent-pipeline/internal/usecase"
	"go-talent-pipeline/pkg/database"
	"go-talent-pipeline/pkg/email"
	"go-talent-pipeline/pkg/logger"
	"go-talent-pipeline/pkg/redis"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// @title           Talent Pipeline API
// @version         1.0
// @description     Recruitment pipeline manager: application lifecycle, candidate scoring and notifications.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init()
	logger.Log.Info("Starting talent pipeline backend", "port", cfg.Port)

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	// 4. Setup Redis (optional; rankings cache and rate limiting degrade without it)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable - caching and distributed rate limiting disabled", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	applicationRepo := postgres.NewApplicationRepository(dbPool)
	statusRepo := postgres.NewStatusRepository(dbPool)
	historyRepo := postgres.NewStatusHistoryRepository(dbPool)
	scoringConfigRepo := postgres.NewScoringConfigRepository(dbPool)
	scoreRepo := postgres.NewAutomatedScoreRepository(dbPool)
	jobSnapshotRepo := postgres.NewJobSnapshotRepository(dbPool)
	candidateSnapshotRepo := postgres.NewCandidateSnapshotRepository(dbPool)
	interviewSnapshotRepo := postgres.NewInterviewSnapshotRepository(dbPool)
	notificationRepo := postgres.NewNotificationRepository(dbPool)

	// 6. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - status update emails will be skipped")
	}

	// 7. Setup Notification Dispatcher
	zapLogger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to build dispatcher logger: %v", err)
	}
	defer zapLogger.Sync()

	dispatcher := notification.NewDispatcher(
		cfg.NotificationBufferSize,
		notificationRepo,
		candidateSnapshotRepo,
		jobSnapshotRepo,
		emailService,
		zapLogger,
		cfg.NotificationEmails,
	)
	dispatcher.Start()

	// 8. Setup UseCases
	validate := validator.New()
	applicationUC := usecase.NewApplicationUsecase(applicationRepo, statusRepo, historyRepo, jobSnapshotRepo, dispatcher)
	scoringUC := usecase.NewScoringUsecase(
		scoreRepo,
		scoringConfigRepo,
		applicationRepo,
		jobSnapshotRepo,
		candidateSnapshotRepo,
		interviewSnapshotRepo,
		dispatcher,
		validate,
		redis.Client(),
	)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		Config:         cfg,
		ApplicationUC:  applicationUC,
		ScoringUC:      scoringUC,
		NotificationUC: notificationUC,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	// Drain in-flight notification deliveries before exiting
	dispatcher.Close()

	logger.Log.Info("Server exiting")
}
