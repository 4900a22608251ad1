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

	"github.com/shopstack/shopstack/internal/app"
	"github.com/shopstack/shopstack/internal/auth"
	"github.com/shopstack/shopstack/internal/authz"
	"github.com/shopstack/shopstack/internal/catalog"
	"github.com/shopstack/shopstack/internal/platform/cache"
	"github.com/shopstack/shopstack/internal/platform/db"
	"github.com/shopstack/shopstack/internal/reports"
	"github.com/shopstack/shopstack/internal/stores"
	"github.com/shopstack/shopstack/internal/transactions"
	"github.com/shopstack/shopstack/internal/users"
	"github.com/shopstack/shopstack/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
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

	directory := authz.NewRepository(dbpool)
	enforcer := authz.NewEnforcer(authz.DefaultMatrix(), directory)

	tokens := auth.NewTokenStore(redisClient, cfg.TokenTTL)
	authService := auth.NewService(auth.NewRepository(dbpool), tokens)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Tokens: tokens, Directory: directory, Logger: logger}

	usersHandler := users.NewHandler(logger, users.NewService(users.NewRepository(dbpool), enforcer))
	storesHandler := stores.NewHandler(logger, stores.NewService(stores.NewRepository(dbpool), enforcer))
	catalogHandler := catalog.NewHandler(logger, catalog.NewService(catalog.NewRepository(dbpool), enforcer))
	transactionsHandler := transactions.NewHandler(logger,
		transactions.NewService(transactions.NewRepository(dbpool), directory, enforcer))
	reportsHandler := reports.NewHandler(logger, reports.NewService(reports.NewRepository(dbpool), enforcer))

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()
	jobsHandler := jobs.NewHandler(jobsClient, enforcer, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		AuthMiddleware:      authMiddleware,
		AuthHandler:         authHandler,
		UsersHandler:        usersHandler,
		StoresHandler:       storesHandler,
		CatalogHandler:      catalogHandler,
		TransactionsHandler: transactionsHandler,
		ReportsHandler:      reportsHandler,
		JobsHandler:         jobsHandler,
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
