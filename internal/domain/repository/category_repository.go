package repository

import (
	"context"

	"github.com/service-directory/internal/domain"
)

// CategoryRepository - справочник категорий
type CategoryRepository interface {
	// ListActive возвращает активные категории, отсортированные по sortOrder и name
	ListActive(ctx context.Context) ([]*domain.CategoryInfo, error)

	// GetByName возвращает категорию или NOT_FOUND
	GetByName(ctx context.Context, name domain.Category) (*domain.CategoryInfo, error)

	// UpdateServiceCount сохраняет пересчитанное число активных записей
	UpdateServiceCount(ctx context.Context, name domain.Category, count int64) error
}
