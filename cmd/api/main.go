package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/user/deals-scraper/internal/adapter/chromedp_browser"
	"github.com/user/deals-scraper/internal/adapter/file"
	"github.com/user/deals-scraper/internal/adapter/postgres"
	redis_adapter "github.com/user/deals-scraper/internal/adapter/redis"
	"github.com/user/deals-scraper/internal/adapter/xlsx"
	"github.com/user/deals-scraper/internal/delivery/http/handler"
	"github.com/user/deals-scraper/internal/delivery/http/router"
	"github.com/user/deals-scraper/internal/entity"
	"github.com/user/deals-scraper/internal/repository"
	"github.com/user/deals-scraper/internal/usecase"
	"github.com/user/deals-scraper/pkg/config"
	"github.com/user/deals-scraper/pkg/logger"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load config: %v\n", err)
		os.Exit(1)
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx := context.Background()
	pingers := map[string]handler.Pinger{}

	// --- Repositories ---
	var lists repository.ListRepository = file.NewListRepo(cfg.ListsDir)
	var settings repository.SettingsRepository
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("unable to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		lists = redis_adapter.NewListRepo(rdb)
		settings = redis_adapter.NewSettingsRepo(rdb)
		pingers["redis"] = redisPinger{rdb}
		log.Info("redis connection established", zap.String("addr", cfg.RedisAddr))
	}

	var runs repository.RunRepository
	if cfg.PostgresURL != "" {
		dbpool, err := pgxpool.New(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatal("unable to connect to database", zap.Error(err))
		}
		defer dbpool.Close()
		runRepo := postgres.NewRunRepo(dbpool)
		if err := runRepo.EnsureSchema(ctx); err != nil {
			log.Fatal("unable to prepare database schema", zap.Error(err))
		}
		runs = runRepo
		pingers["postgres"] = dbpool
		log.Info("postgres connection pool established")
	}

	// --- Use Cases ---
	launcher := chromedp_browser.NewLauncher(cfg.Headless, cfg.UserDataDir, log)
	runner := usecase.NewRunner(launcher, xlsx.NewReportWriter(cfg.OutputDir), lists, runs, usecase.RunnerConfig{
		MaxPageRetries:   cfg.MaxPageRetries,
		RetryBackoff:     cfg.RetryBackoff(),
		PageRateLimit:    cfg.PageRateLimit,
		HeadlineTimeout:  cfg.HeadlineTimeout(),
		ListingsTimeout:  cfg.ListingsTimeout(),
		LocationLoadWait: cfg.LocationLoadWait(),
		LocationSettle:   cfg.LocationSettle(),
	}, log)
	jobs := usecase.NewJobManager(runner, log)

	// --- HTTP Server ---
	apiHandler := handler.NewHandler(handler.Deps{
		Jobs:     jobs,
		Runner:   runner,
		Lists:    lists,
		Settings: settings,
		Runs:     runs,
		Pingers:  pingers,
		Defaults: handler.Defaults{
			SearchURL:     cfg.SearchURL,
			ChromePath:    cfg.ChromePath,
			Zip:           cfg.Zip,
			RankBy:        entity.RankBy(cfg.RankBy),
			MarginOfError: cfg.MarginOfError,
		},
		Logger: log,
	})

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router.New(apiHandler, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.ServerPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("could not listen on port", zap.String("port", cfg.ServerPort), zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := jobs.Shutdown(shutdownCtx); err != nil {
		log.Warn("scrape did not stop in time", zap.Error(err))
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
