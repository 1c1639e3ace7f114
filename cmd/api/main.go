package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/eudaura/telehealth-api/internal/config"
	"github.com/eudaura/telehealth-api/internal/email"
	"github.com/eudaura/telehealth-api/internal/handler"
	adminHandler "github.com/eudaura/telehealth-api/internal/handler/admin"
	authHandler "github.com/eudaura/telehealth-api/internal/handler/auth"
	clinicianHandler "github.com/eudaura/telehealth-api/internal/handler/clinician"
	contactHandler "github.com/eudaura/telehealth-api/internal/handler/contact"
	patientHandler "github.com/eudaura/telehealth-api/internal/handler/patient"
	uploadHandler "github.com/eudaura/telehealth-api/internal/handler/upload"
	"github.com/eudaura/telehealth-api/internal/middleware"
	"github.com/eudaura/telehealth-api/internal/repository/postgres"
	"github.com/eudaura/telehealth-api/internal/router"
	applicationService "github.com/eudaura/telehealth-api/internal/service/application"
	auditService "github.com/eudaura/telehealth-api/internal/service/audit"
	authService "github.com/eudaura/telehealth-api/internal/service/auth"
	contactService "github.com/eudaura/telehealth-api/internal/service/contact"
	contentService "github.com/eudaura/telehealth-api/internal/service/content"
	"github.com/eudaura/telehealth-api/internal/service/notification"
	reviewService "github.com/eudaura/telehealth-api/internal/service/review"
	verificationService "github.com/eudaura/telehealth-api/internal/service/verification"
	"github.com/eudaura/telehealth-api/internal/storage"
	"github.com/eudaura/telehealth-api/pkg/auth"
	"github.com/eudaura/telehealth-api/pkg/metrics"
	"github.com/eudaura/telehealth-api/pkg/ratelimit"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(db)
	applicationRepo := postgres.NewApplicationRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	contentRepo := postgres.NewContentRepository(db)

	// Resend limiting uses Redis when configured, in-memory otherwise
	limiter := newLimiter(cfg.Redis)

	// Initialize storage presigner
	presigner, err := storage.NewS3Presigner(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize storage presigner")
	}
	uploadSvc := storage.NewUploadService(presigner, cfg.Storage)

	// Initialize metrics and notification dispatcher
	m := metrics.NewMetrics("telehealth")
	emailSvc := email.NewSMTPService(cfg.SMTP)
	dispatcher := notification.NewDispatcher(emailSvc, m)

	// Initialize services
	auditSvc := auditService.NewService(auditRepo)
	verificationSvc := verificationService.NewService(accountRepo, auditSvc, dispatcher, limiter, m, cfg.OTP)
	applicationSvc := applicationService.NewService(applicationRepo, auditSvc, dispatcher, m, cfg.Admin.NotifyEmail, cfg.Admin.SiteURL)
	reviewSvc := reviewService.NewService(applicationRepo, accountRepo, auditSvc, dispatcher, m, cfg.Admin.SiteURL)
	contentSvc := contentService.NewService(contentRepo, auditSvc)
	contactSvc := contactService.NewService(dispatcher, cfg.Admin.NotifyEmail)

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authSvc := authService.NewService(accountRepo, jwtSvc, auditSvc)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	patientH := patientHandler.NewHandler(verificationSvc)
	clinicianH := clinicianHandler.NewHandler(applicationSvc)
	authH := authHandler.NewHandler(authSvc)
	contactH := contactHandler.NewHandler(contactSvc)
	uploadH := uploadHandler.NewHandler(uploadSvc)
	adminH := adminHandler.NewHandler(applicationSvc, reviewSvc, contentSvc, auditSvc, uploadSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		patientH,
		clinicianH,
		authH,
		contactH,
		uploadH,
		adminH,
		h,
		m,
		router.RouterConfig{
			RateLimit:  rate.Limit(20),
			RateBurst:  40,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	// Create server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()
	log.Info().Int("port", cfg.Server.Port).Msg("server started")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func newLimiter(cfg config.RedisConfig) ratelimit.Limiter {
	if cfg.URL == "" {
		log.Warn().Msg("no Redis URL configured, using in-memory resend limiter")
		return ratelimit.NewMemoryLimiter()
	}

	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid Redis URL")
	}

	return ratelimit.NewRedisLimiter(redis.NewClient(opts))
}
