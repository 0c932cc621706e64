package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
)

type statsRepository struct {
	db     *DB
	logger *zap.Logger
}

// NewStatsRepository создает новый экземпляр stats repository
func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{
		db:     db,
		logger: db.logger,
	}
}

// GetStatistics возвращает агрегированную статистику по записям справочника
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	stats := &domain.Statistics{
		ByStatus:    make(map[string]int64),
		ByCategory:  make(map[string]int64),
		LastUpdated: time.Now().UTC(),
	}

	byStatus, err := r.groupBy(ctx, "status")
	if err != nil {
		r.logger.Error("failed to get status stats", zap.Error(err))
		return nil, fmt.Errorf("get status stats: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[row.Key] = row.Count
		stats.Total += row.Count
	}

	byCategory, err := r.groupBy(ctx, "category")
	if err != nil {
		r.logger.Error("failed to get category stats", zap.Error(err))
		return nil, fmt.Errorf("get category stats: %w", err)
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Key] = row.Count
	}

	if err := r.db.GetContext(ctx, &stats.Verified, "SELECT COUNT(*) FROM services WHERE verified"); err != nil {
		r.logger.Error("failed to get verified stats", zap.Error(err))
		return nil, fmt.Errorf("get verified stats: %w", err)
	}

	return stats, nil
}

// groupBy - column берется только из констант этого файла
func (r *statsRepository) groupBy(ctx context.Context, column string) ([]keyCount, error) {
	query := fmt.Sprintf("SELECT %[1]s AS key, COUNT(*) AS count FROM services GROUP BY %[1]s", column)

	var rows []keyCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}
	return rows, nil
}
