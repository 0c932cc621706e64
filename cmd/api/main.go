package main

// @title Service Directory API
// @version 1.0.0
// @description Справочник локальных сервисов: поиск по радиусу, текстовый поиск, категории и админское управление записями.
// @description
// @description Основные возможности:
// @description - Активные записи рядом с точкой, ближние первыми, с расстоянием в км
// @description - Поиск подстроки по имени, подкатегории, описанию и адресу
// @description - Флаг isOpen по недельному расписанию и особым дням
// @description - Админский список с пагинацией, создание, обновление и удаление записей

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:5000
// @BasePath /
// @schemes http https

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	_ "github.com/service-directory/docs"
	"github.com/service-directory/internal/config"
	httpDelivery "github.com/service-directory/internal/delivery/http"
	"github.com/service-directory/internal/delivery/http/handler"
	"github.com/service-directory/internal/pkg/logger"
	"github.com/service-directory/internal/repository/cache"
	redisRepo "github.com/service-directory/internal/repository/redis"
	"github.com/service-directory/internal/repository/storage"
	"github.com/service-directory/internal/usecase"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// 2. Initialize logger
	log, err := logger.New(cfg.Log.Level, "directory-api")
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer log.Sync()

	log.Info("Starting Service Directory API")
	log.Info("Configuration loaded",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("cache", cfg.Cache.Driver),
		zap.Bool("events", cfg.Events.Enabled),
	)

	// 3. Connect to storage
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	repos, err := storage.Open(ctx, cfg, log)
	cancel()
	if err != nil {
		log.Fatal("Failed to open storage", zap.Error(err))
	}
	defer func() {
		if err := repos.Close(); err != nil {
			log.Error("Failed to close storage", zap.Error(err))
		}
	}()

	// 4. Connect to Redis (cache or change events)
	var redisClient *cache.Redis
	if cfg.NeedsRedis() {
		redisClient, err = cache.NewRedis(&cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Failed to close Redis connection", zap.Error(err))
			}
		}()
	}

	cacheRepo, err := storage.OpenCache(cfg, redisClient, log)
	if err != nil {
		log.Fatal("Failed to initialize cache", zap.Error(err))
	}

	// 5. Initialize Use Cases
	transformer, err := usecase.NewResponseTransformer(cfg.Directory.Timezone, nil)
	if err != nil {
		log.Fatal("Invalid directory timezone", zap.String("timezone", cfg.Directory.Timezone), zap.Error(err))
	}

	serviceUC := usecase.NewServiceUseCase(repos.Services, cacheRepo, transformer, log, cfg.Cache.NearbyTTL)
	categoryUC := usecase.NewCategoryUseCase(repos.Categories, repos.Services, cacheRepo, log, cfg.Cache.CategoriesTTL)
	statsUC := usecase.NewStatsUseCase(repos.Stats, cacheRepo, log, cfg.Cache.StatsTTL)

	var notifier usecase.ChangeNotifier
	if cfg.Events.Enabled {
		notifier = usecase.NewStreamNotifier(redisRepo.NewStreamRepository(redisClient.Client(), log), log)
	} else {
		notifier = usecase.NewInlineNotifier(categoryUC, statsUC, log)
	}

	adminUC := usecase.NewAdminUseCase(
		repos.Services,
		cacheRepo,
		notifier,
		transformer,
		log,
		cfg.Directory.DefaultCountry,
	)

	log.Info("Use cases initialized")

	// 6. Initialize HTTP Server
	server := httpDelivery.NewServer(cfg, log, httpDelivery.Handlers{
		Services:   handler.NewServiceHandler(serviceUC, log),
		Categories: handler.NewCategoryHandler(categoryUC, log),
		Admin:      handler.NewAdminHandler(adminUC, log),
		Stats:      handler.NewStatsHandler(statsUC, log),
		Health:     handler.NewHealthHandler(cfg, repos.Health, log),
	})

	// 7. Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	// 8. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutting down server gracefully...")
	case err := <-serverErr:
		log.Error("Server stopped unexpectedly", zap.Error(err))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Server stopped successfully")
}
