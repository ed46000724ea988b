package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	apiHttp "github.com/pantrykeep/backend/internal/api/http"
	"github.com/pantrykeep/backend/internal/cache"
	"github.com/pantrykeep/backend/internal/config"
	"github.com/pantrykeep/backend/internal/db"
	"github.com/pantrykeep/backend/internal/dispatch"
	"github.com/pantrykeep/backend/internal/queue/asynqserver"
	"github.com/pantrykeep/backend/internal/repository"
	"github.com/pantrykeep/backend/internal/server"
	"github.com/pantrykeep/backend/internal/service"
	"github.com/pantrykeep/backend/internal/worker"
	"github.com/pantrykeep/backend/pkg/auth"
	"github.com/pantrykeep/backend/pkg/email/smtp"
	"github.com/pantrykeep/backend/pkg/hash"
	"github.com/pantrykeep/backend/pkg/logger"
	"github.com/pantrykeep/backend/pkg/otp"
	"github.com/pantrykeep/backend/pkg/sms"
)

func main() {
	// Init cfg from environment variables
	cfg := config.MustLoad()

	// Dependencies
	appLogger := logger.SetupLogger(cfg.Env)

	appLogger.Info("starting backend api")
	appLogger.Debug("debug messages are enabled")

	// Init database
	dbPostgres, err := db.New(cfg.Database)
	if err != nil {
		appLogger.Sugar().Errorw("postgres connect problem", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbPostgres.Close(); err != nil {
			appLogger.Sugar().Errorw("error when closing", "error", err)
		}
	}()
	appLogger.Info("postgres connection done")

	redisClient, err := cache.NewRedis(cfg.Cache)
	if err != nil {
		appLogger.Sugar().Errorw("redis connect problem", "error", err)
		os.Exit(1)
	}

	hasher := hash.NewArgon2Hasher()

	emailSender, err := smtp.NewSMTPSender(cfg.SMTP.From, cfg.SMTP.Pass, cfg.SMTP.Host, cfg.SMTP.Port)
	if err != nil {
		appLogger.Sugar().Errorw("smtp sender creation failed", "error", err)
		return
	}

	tokenManager, err := auth.NewManager(cfg.Auth.JWT)
	if err != nil {
		appLogger.Sugar().Errorw("auth manager creation err", "error", err)
		return
	}

	otpGenerator := otp.NewGOTPGenerator()
	smsClient := sms.NewClient(cfg.SMS.APIKey, cfg.SMS.Sender, cfg.SMS.DryRun)

	queueClient := asynq.NewClient(asynqserver.RedisOptions(cfg.Cache))
	defer func() {
		if err := queueClient.Close(); err != nil {
			appLogger.Sugar().Errorw("queue client close failed", "error", err)
		}
	}()

	dispatcher := dispatch.NewDispatcher(queueClient, smsClient, appLogger)
	throttle := cache.NewResendThrottle(redisClient, cfg.Auth.ResendLimit, cfg.Auth.ResendWindow)

	// Services, Repos & API Handlers
	repos := repository.NewRepositories(dbPostgres)
	services := service.NewServices(service.Deps{
		Logger:       appLogger,
		Config:       cfg,
		Hasher:       hasher,
		TokenManager: tokenManager,
		OtpGenerator: otpGenerator,
		CodeSender:   dispatcher,
		Throttle:     throttle,
		Repos:        repos,
	})
	handlers := apiHttp.NewHandlers(services, tokenManager, cfg)

	// Queue worker
	workers := worker.NewWorkers(worker.Deps{
		EmailProvider: emailSender,
		Config:        cfg,
	})
	queueServer, queueMux := asynqserver.New(cfg.Cache, workers)
	go func() {
		if err := queueServer.Run(queueMux); err != nil {
			appLogger.Sugar().Errorw("error occurred while running queue server", "error", err)
		}
	}()

	// HTTP Server
	srv := server.NewServer(cfg, handlers.Init(cfg))
	go func() {
		if err := srv.Run(); !errors.Is(err, http.ErrServerClosed) {
			appLogger.Sugar().Errorw("error occurred while running http server", "error", err)
		}
	}()
	appLogger.Info("server started")

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	const timeout = 5 * time.Second

	ctx, shutdown := context.WithTimeout(context.Background(), timeout)
	defer shutdown()

	queueServer.Shutdown()

	if err := srv.Stop(ctx); err != nil {
		appLogger.Sugar().Errorw("failed to stop server", "error", err)
	}

	appLogger.Info("app stopped")
}
