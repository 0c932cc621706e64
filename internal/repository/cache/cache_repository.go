package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
)

// StatsKey - ключ агрегированной статистики
const StatsKey = "stats:current"

const scanBatch = 100

type cacheRepository struct {
	client *redis.Client
	logger *zap.Logger
}

func NewCacheRepository(redis *Redis) repository.CacheRepository {
	return &cacheRepository{
		client: redis.Client(),
		logger: redis.logger,
	}
}

func (r *cacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // Cache miss
	}
	if err != nil {
		r.logger.Error("Failed to get from cache", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("cache get error: %w", err)
	}

	r.logger.Debug("Cache hit", zap.String("key", key))
	return val, nil
}

func (r *cacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	err := r.client.Set(ctx, key, value, ttl).Err()
	if err != nil {
		r.logger.Error("Failed to set cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache set error: %w", err)
	}

	r.logger.Debug("Cache set", zap.String("key", key), zap.Duration("ttl", ttl))
	return nil
}

func (r *cacheRepository) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, key).Err()
	if err != nil {
		r.logger.Error("Failed to delete from cache", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("cache delete error: %w", err)
	}

	r.logger.Debug("Cache deleted", zap.String("key", key))
	return nil
}

// DeletePrefix удаляет ключи по префиксу через SCAN (без блокирующего KEYS)
func (r *cacheRepository) DeletePrefix(ctx context.Context, prefix string) error {
	var (
		cursor  uint64
		deleted int64
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			r.logger.Error("Failed to scan cache keys", zap.String("prefix", prefix), zap.Error(err))
			return fmt.Errorf("cache scan error: %w", err)
		}

		if len(keys) > 0 {
			n, err := r.client.Del(ctx, keys...).Result()
			if err != nil {
				r.logger.Error("Failed to delete cache keys", zap.String("prefix", prefix), zap.Error(err))
				return fmt.Errorf("cache delete error: %w", err)
			}
			deleted += n
		}

		cursor = next
		if cursor == 0 {
			break
		}
	}

	r.logger.Debug("Cache prefix deleted", zap.String("prefix", prefix), zap.Int64("keys", deleted))
	return nil
}

// GetStats получает статистику из кеша
func (r *cacheRepository) GetStats(ctx context.Context) (*domain.Statistics, error) {
	data, err := r.Get(ctx, StatsKey)
	if err != nil {
		return nil, err
	}
	return decodeStats(data)
}

// SetStats сохраняет статистику в кеше
func (r *cacheRepository) SetStats(ctx context.Context, stats *domain.Statistics, ttl time.Duration) error {
	data, err := json.Marshal(stats)
	if err != nil {
		r.logger.Error("Failed to marshal stats", zap.Error(err))
		return fmt.Errorf("marshal stats: %w", err)
	}

	return r.Set(ctx, StatsKey, data, ttl)
}

func decodeStats(data []byte) (*domain.Statistics, error) {
	if data == nil {
		return nil, nil // Cache miss
	}

	var stats domain.Statistics
	if err := json.Unmarshal(data, &stats); err != nil {
		return nil, fmt.Errorf("unmarshal stats: %w", err)
	}
	return &stats, nil
}
