package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/service-directory/internal/config"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/repository/cache"
	"github.com/service-directory/internal/repository/mongo"
	"github.com/service-directory/internal/repository/postgres"
)

// Repositories - набор репозиториев выбранного хранилища
type Repositories struct {
	Services   repository.ServiceRepository
	Categories repository.CategoryRepository
	Stats      repository.StatsRepository

	health func(ctx context.Context) error
	close  func() error
}

// Health проверяет доступность хранилища
func (r *Repositories) Health(ctx context.Context) error {
	return r.health(ctx)
}

func (r *Repositories) Close() error {
	return r.close()
}

// Open подключается к хранилищу по STORAGE_DRIVER
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Repositories, error) {
	switch cfg.Storage.Driver {
	case config.StorageMongo:
		db, err := mongo.New(ctx, &cfg.Mongo, logger)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureIndexes(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("ensure mongo indexes: %w", err)
		}
		return &Repositories{
			Services:   mongo.NewServiceRepository(db),
			Categories: mongo.NewCategoryRepository(db),
			Stats:      mongo.NewStatsRepository(db),
			health:     db.Health,
			close:      db.Close,
		}, nil

	case config.StoragePostgres:
		db, err := postgres.New(&cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		return &Repositories{
			Services:   postgres.NewServiceRepository(db),
			Categories: postgres.NewCategoryRepository(db),
			Stats:      postgres.NewStatsRepository(db),
			health:     db.Health,
			close:      db.Close,
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver: %q", cfg.Storage.Driver)
}

// OpenCache создает кеш по CACHE_DRIVER. Для redis используется переданный клиент.
func OpenCache(cfg *config.Config, redis *cache.Redis, logger *zap.Logger) (repository.CacheRepository, error) {
	switch cfg.Cache.Driver {
	case config.CacheMemory:
		return cache.NewMemoryCache(cfg.Cache.MaxEntries, logger), nil
	case config.CacheRedis:
		if redis == nil {
			return nil, fmt.Errorf("cache driver %q requires a redis connection", cfg.Cache.Driver)
		}
		return cache.NewCacheRepository(redis), nil
	}

	return nil, fmt.Errorf("unknown cache driver: %q", cfg.Cache.Driver)
}
