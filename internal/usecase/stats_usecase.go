package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/pkg/errors"
)

// StatsUseCase обрабатывает бизнес-логику для статистики
type StatsUseCase struct {
	statsRepo repository.StatsRepository
	cacheRepo repository.CacheRepository
	logger    *zap.Logger
	ttl       time.Duration
}

// NewStatsUseCase создает новый экземпляр StatsUseCase
func NewStatsUseCase(
	statsRepo repository.StatsRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	ttl time.Duration,
) *StatsUseCase {
	return &StatsUseCase{
		statsRepo: statsRepo,
		cacheRepo: cacheRepo,
		logger:    logger,
		ttl:       ttl,
	}
}

// GetStatistics возвращает статистику, используя кеш когда возможно
func (uc *StatsUseCase) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	cached, err := uc.cacheRepo.GetStats(ctx)
	if err == nil && cached != nil {
		uc.logger.Debug("Statistics fetched from cache")
		return cached, nil
	}
	if err != nil {
		uc.logger.Warn("Failed to get stats from cache", zap.Error(err))
	}

	return uc.RefreshStatistics(ctx)
}

// RefreshStatistics пересчитывает статистику и обновляет кеш
func (uc *StatsUseCase) RefreshStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats, err := uc.statsRepo.GetStatistics(ctx)
	if err != nil {
		uc.logger.Error("Failed to compute statistics", zap.Error(err))
		return nil, errors.Internal(err)
	}

	// Ошибка кеша не мешает отдать данные
	if err := uc.cacheRepo.SetStats(ctx, stats, uc.ttl); err != nil {
		uc.logger.Warn("Failed to cache stats", zap.Error(err))
	}

	return stats, nil
}
