package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skillijob-backend/config"
	_ "skillijob-backend/docs" // Important for Swagger
	v1 "skillijob-backend/internal/delivery/http/v1"
	"skillijob-backend/internal/domain"
	"skillijob-backend/internal/repository/postgres"
	"skillijob-backend/internal/repository/static"
	"skillijob-backend/internal/usecase"
	"skillijob-backend/pkg/auth"
	"skillijob-backend/pkg/database"
	"skillijob-backend/pkg/email"
	"skillijob-backend/pkg/logger"
	"skillijob-backend/pkg/redis"
	"skillijob-backend/pkg/security"
	"skillijob-backend/pkg/security/antivirus"
	"skillijob-backend/pkg/storage"
	"skillijob-backend/pkg/validation"

	"github.com/gin-gonic/gin"
)

const sessionCleanupInterval = time.Hour

// @title           Skillijob API
// @version         1.0
// @description     Candidate directory, CV intake and company accounts for skillijob.fr.
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
	gin.SetMode(cfg.GinMode)

	// 2. Setup Loggers
	logger.Init(cfg.AppEnv)
	audit := security.InitSecurityLogger(cfg.AppEnv)
	defer audit.Sync()
	logger.Log.Info("Starting skillijob backend", "port", cfg.Port, "env", cfg.AppEnv)

	ctx := context.Background()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(ctx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.Migrate(ctx, dbPool); err != nil {
		logger.Log.Error("Failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// 4. Setup Redis (optional, rate limits fall back to memory)
	if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, using in-memory rate limiting", "error", err)
	}
	defer redis.Close()

	// 5. Setup Repositories
	userRepo := postgres.NewUserRepository(dbPool)
	sessionRepo := postgres.NewSessionRepository(dbPool)
	attemptRepo := postgres.NewLoginAttemptRepository(dbPool)
	resetRepo := postgres.NewPasswordResetRepository(dbPool)
	cvRepo := postgres.NewCVRepository(dbPool)
	newsletterRepo := postgres.NewNewsletterRepository(dbPool)
	orderRepo := postgres.NewOrderRepository(dbPool)

	var candidates domain.CandidateSource
	switch cfg.CandidateSource {
	case config.CandidateSourcePostgres:
		candidates = postgres.NewCandidateRepository(dbPool)
	default:
		candidates = static.NewCandidateSource(cfg.CandidatesFile)
	}
	logger.Log.Info("Candidate directory source", "source", cfg.CandidateSource, "file", cfg.CandidatesFile)

	// 6. Setup Object Storage and Scanner
	store, err := storage.NewS3Store(ctx, storage.Config{
		Provider:        storage.Provider(cfg.S3Provider),
		Endpoint:        cfg.S3Endpoint,
		Region:          cfg.S3Region,
		AccessKeyID:     cfg.S3AccessKeyID,
		SecretAccessKey: cfg.S3SecretAccessKey,
		Bucket:          cfg.CVBucket,
	})
	if err != nil {
		logger.Log.Error("Failed to configure CV storage", "error", err)
		os.Exit(1)
	}

	var scanner antivirus.Scanner = antivirus.NoOpScanner{}
	if cfg.ClamAVAddress != "" {
		scanner = antivirus.NewClamAVScanner(cfg.ClamAVAddress, cfg.ClamAVTimeout)
	} else {
		logger.Log.Warn("CLAMAV_ADDRESS not set - uploaded CVs are not scanned")
	}

	// 7. Setup Email Service
	emailService := email.NewEmailService(cfg)
	if !emailService.IsConfigured() {
		logger.Log.Warn("Email service not fully configured - contact form will be unavailable")
	}

	// 8. Setup UseCases
	validate := validation.New()
	tokens := auth.NewTokenManager(cfg.SessionSecret)

	authUC := usecase.NewAuthUsecase(usecase.AuthRepositories{
		Users:    userRepo,
		Sessions: sessionRepo,
		Attempts: attemptRepo,
		Resets:   resetRepo,
	}, tokens, emailService, audit, validate, usecase.AuthConfig{
		SessionTTL:         cfg.SessionTTL,
		PasswordResetTTL:   cfg.PasswordResetTTL,
		LoginMaxAttempts:   cfg.LoginMaxAttempts,
		LoginAttemptWindow: cfg.LoginAttemptWindow,
		FrontendURL:        cfg.FrontendURL,
	})
	directoryUC := usecase.NewDirectoryUsecase(candidates)
	cvUC := usecase.NewCVUsecase(cvRepo, store, scanner, emailService, audit, validate, cfg.CVMaxBytes)
	newsletterUC := usecase.NewNewsletterUsecase(newsletterRepo, validate)
	checkoutUC := usecase.NewCheckoutUsecase(orderRepo, validate)
	contactUC := usecase.NewContactUsecase(emailService, validate)
	healthUC := usecase.NewHealthUsecase(map[string]usecase.HealthCheck{
		"database": func(ctx context.Context) error { return dbPool.Ping(ctx) },
		"redis":    redisCheck(cfg),
		"storage":  store.Check,
	})

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		AuthUC:        authUC,
		DirectoryUC:   directoryUC,
		CVUC:          cvUC,
		NewsletterUC:  newsletterUC,
		CheckoutUC:    checkoutUC,
		LegalUC:       usecase.NewLegalUsecase(),
		ContentUC:     usecase.NewContentUsecase(),
		ContactUC:     contactUC,
		HealthUC:      healthUC,
		UploadLimiter: security.NewUploadLimiter(cfg.CVUploadsPerHour, time.Hour),
		Config:        cfg,
	})

	// 10. Background session cleanup
	cleanupCtx, stopCleanup := context.WithCancel(ctx)
	defer stopCleanup()
	go cleanupSessions(cleanupCtx, sessionRepo)

	// 11. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}

	logger.Log.Info("Server exiting")
}

// redisCheck is nil when Redis is not configured, so health reports it as
// disabled instead of down.
func redisCheck(cfg *config.Config) usecase.HealthCheck {
	if cfg.RedisURL == "" {
		return nil
	}
	return redis.HealthCheck
}

func cleanupSessions(ctx context.Context, sessions domain.SessionRepository) {
	ticker := time.NewTicker(sessionCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := sessions.DeleteExpired(ctx, now)
			if err != nil {
				logger.Log.Warn("Session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Log.Info("Expired sessions removed", "count", n)
			}
		}
	}
}
