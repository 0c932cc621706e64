package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

const categoryColumns = `
	id, name, display_name_en, display_name_ar, description_en, description_ar,
	icon, color, subcategories, keywords, is_active, sort_order, service_count,
	created_at, updated_at`

type categoryRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewCategoryRepository создает CategoryRepository поверх таблицы categories
func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{
		db:     db.DB,
		logger: db.logger,
	}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.CategoryInfo, error) {
	query := "SELECT " + categoryColumns + " FROM categories WHERE is_active ORDER BY sort_order, name"

	var rows []categoryRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, apperrors.Wrap(err, "list categories")
	}

	categories := make([]*domain.CategoryInfo, 0, len(rows))
	for i := range rows {
		categories = append(categories, rows[i].toDomain())
	}
	return categories, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name domain.Category) (*domain.CategoryInfo, error) {
	var row categoryRow
	err := r.db.GetContext(ctx, &row, "SELECT "+categoryColumns+" FROM categories WHERE name = $1", string(name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrCategoryNotFound()
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "get category")
	}
	return row.toDomain(), nil
}

func (r *categoryRepository) UpdateServiceCount(ctx context.Context, name domain.Category, count int64) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE categories SET service_count = $1, updated_at = NOW() WHERE name = $2",
		count, string(name))
	if err != nil {
		return apperrors.Wrap(err, "update category service count")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return apperrors.ErrCategoryNotFound()
	}

	r.logger.Debug("Category service count updated",
		zap.String("category", string(name)),
		zap.Int64("count", count))
	return nil
}
