package repository

import (
	"context"

	"github.com/service-directory/internal/domain"
)

// StatsRepository интерфейс для работы со статистикой
type StatsRepository interface {
	// GetStatistics считает записи по статусам и категориям
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}
