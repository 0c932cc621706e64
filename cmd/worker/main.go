package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/config"
	"github.com/service-directory/internal/pkg/logger"
	"github.com/service-directory/internal/repository/cache"
	redisRepo "github.com/service-directory/internal/repository/redis"
	"github.com/service-directory/internal/repository/storage"
	"github.com/service-directory/internal/usecase"
	"github.com/service-directory/internal/worker"
	"github.com/service-directory/internal/worker/catalog"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		os.Exit(0)
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "directory-worker")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting catalog change worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int64("batch_size", cfg.Worker.BatchSize),
		zap.String("storage", cfg.Storage.Driver))

	// 3. Connect to storage
	openCtx, openCancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := storage.Open(openCtx, cfg, log)
	openCancel()
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Error("Failed to close storage", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (stream always, cache when CACHE_DRIVER=redis)
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	cacheRepo, err := storage.OpenCache(cfg, redisClient, log)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// 5. Use cases: воркер применяет изменения так же, как inline режим API
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, repos.Services, cacheRepo, log, cfg.Cache.CategoriesTTL)
	statsUC := usecase.NewStatsUseCase(repos.Stats, cacheRepo, log, cfg.Cache.StatsTTL)
	applier := usecase.NewInlineNotifier(categoryUC, statsUC, log)

	// 6. Initialize workers
	streamRepo := redisRepo.NewStreamRepository(redisClient.Client(), log)
	changeWorker := catalog.NewChangeWorker(
		streamRepo,
		applier,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.BatchSize,
		log,
	).WithConsumerName(cfg.Worker.ConsumerName)

	workerManager := worker.NewWorkerManager(log)
	workerManager.Register(changeWorker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := workerManager.Start(ctx); err != nil {
		log.Fatal("Failed to start workers", zap.Error(err))
	}

	// 7. Wait for interrupt signal or worker failure
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info("Received shutdown signal")
	case err := <-workerManager.Failed():
		log.Error("Worker failed", zap.Error(err))
	}

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := workerManager.Stop(stopCtx); err != nil {
		log.Error("Error stopping workers", zap.Error(err))
	}

	log.Info("Worker shutdown complete")
}
