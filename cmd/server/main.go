package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dlsms/dlsms-backend/internal/config"
	"github.com/dlsms/dlsms-backend/internal/database"
	"github.com/dlsms/dlsms-backend/internal/handler"
	"github.com/dlsms/dlsms-backend/internal/logger"
	"github.com/dlsms/dlsms-backend/internal/middleware"
	"github.com/dlsms/dlsms-backend/internal/repository"
	"github.com/dlsms/dlsms-backend/internal/router"
	"github.com/dlsms/dlsms-backend/internal/service"
	"github.com/dlsms/dlsms-backend/internal/validator"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Str("mail_driver", cfg.MailDriver).
		Str("storage_driver", cfg.StorageDriver).
		Msg("Starting DLSMS Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── External Drivers ──────────────────────────────────────────────
	mailer, err := newMailer(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize mailer")
	}
	store, err := newObjectStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize object storage")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	accountRepo := repository.NewAccountRepository(pool)
	classroomRepo := repository.NewClassroomRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.JWTPreviousSecrets, cfg.VerificationTokenTTL, cfg.SessionTokenTTL)
	authService := service.NewAuthService(
		accountRepo,
		tokenService,
		service.NewPasswordHasher(cfg.BcryptCost),
		mailer,
		service.NewRedisThrottle(rdb),
		config.CacheKey.ResendVerificationKey,
		service.AuthConfig{AppBaseURL: cfg.AppBaseURL, ResendCooldown: cfg.ResendCooldown},
		log,
	)
	classroomService := service.NewClassroomService(classroomRepo, log)
	assignmentService := service.NewAssignmentService(assignmentRepo, classroomService, service.NewRedisEventPublisher(rdb), log)
	mediaService := service.NewMediaService(store, cfg.MaxUploadBytes)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(authService, log),
		Verification: handler.NewVerificationHandler(authService, log),
		Classroom:    handler.NewClassroomHandler(classroomService, log),
		Assignment:   handler.NewAssignmentHandler(assignmentService, classroomService, mediaService, log),
		WS:           handler.NewWSHandler(rdb, classroomService, log, cfg.AllowedOrigins),
		System: handler.NewSystemHandler(map[string]handler.Pinger{
			"postgres": pool,
			"redis": handler.PingFunc(func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}),
		}, log),
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	opts := router.Options{
		AuthLimiter: middleware.NewRateLimiter(middleware.NewRedisWindowCounter(rdb), "auth", 20, time.Minute, log),
	}
	if cfg.StorageDriver == config.StorageDriverLocal {
		opts.UploadDir = cfg.UploadDir
	}
	r := router.SetupRouter(tokenService, handlers, cfg, opts)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// Stop accepting new HTTP requests (5s timeout). WebSocket streams are
	// hijacked connections and end when their Redis subscription closes.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
