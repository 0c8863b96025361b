package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/skillport/skillport/internal/admin"
	"github.com/skillport/skillport/internal/app"
	"github.com/skillport/skillport/internal/auth"
	"github.com/skillport/skillport/internal/authz"
	"github.com/skillport/skillport/internal/comment"
	"github.com/skillport/skillport/internal/course"
	"github.com/skillport/skillport/internal/enrollment"
	"github.com/skillport/skillport/internal/identity"
	"github.com/skillport/skillport/internal/observability"
	"github.com/skillport/skillport/internal/platform/cache"
	"github.com/skillport/skillport/internal/platform/db"
	"github.com/skillport/skillport/internal/profile"
	"github.com/skillport/skillport/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN, cfg.PGMaxConns)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	tokens, err := auth.NewTokenService(cfg.TokenSecret, cfg.TokenTTL)
	if err != nil {
		logger.Error("token service", slog.Any("error", err))
		os.Exit(1)
	}
	revocations := auth.NewRevocationList(redisClient)

	jobClient := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	identityRepo := identity.NewRepository(dbpool)
	identityService := identity.NewService(identityRepo)

	authorizer := authz.NewAuthorizer(logger, tokens, revocations, identityService, metrics)
	gate := authz.NewGate(logger, tokens, authz.DefaultPolicyTable(), cfg.IsProduction())

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, tokens, revocations, jobClient, cfg.IsProduction())

	courseRepo := course.NewRepository(dbpool)
	courseService := course.NewService(courseRepo)

	commentRepo := comment.NewRepository(dbpool)
	commentService := comment.NewService(commentRepo)
	commentHandler := comment.NewHandler(logger, commentService, authorizer)

	enrollmentRepo := enrollment.NewRepository(dbpool)
	enrollmentService := enrollment.NewService(logger, enrollmentRepo, courseService, jobClient)
	enrollmentHandler := enrollment.NewHandler(logger, enrollmentService, authorizer)

	courseHandler := course.NewHandler(logger, courseService, commentService, enrollmentService, authorizer)
	profileHandler := profile.NewHandler(authorizer)
	adminHandler := admin.NewHandler(logger, identityService, courseService, authorizer)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		Gate:              gate,
		Metrics:           metrics,
		AuthHandler:       authHandler,
		CourseHandler:     courseHandler,
		CommentHandler:    commentHandler,
		EnrollmentHandler: enrollmentHandler,
		ProfileHandler:    profileHandler,
		AdminHandler:      adminHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
