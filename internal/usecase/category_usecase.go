package usecase

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/usecase/dto"
)

// CategoriesCacheKey - ключ кеша списка активных категорий
const CategoriesCacheKey = "categories:active"

// CategoryUseCase - справочник категорий и пересчет счетчиков
type CategoryUseCase struct {
	categoryRepo repository.CategoryRepository
	serviceRepo  repository.ServiceRepository
	cacheRepo    repository.CacheRepository
	logger       *zap.Logger
	ttl          time.Duration
}

// NewCategoryUseCase - создание нового CategoryUseCase
func NewCategoryUseCase(
	categoryRepo repository.CategoryRepository,
	serviceRepo repository.ServiceRepository,
	cacheRepo repository.CacheRepository,
	logger *zap.Logger,
	ttl time.Duration,
) *CategoryUseCase {
	return &CategoryUseCase{
		categoryRepo: categoryRepo,
		serviceRepo:  serviceRepo,
		cacheRepo:    cacheRepo,
		logger:       logger,
		ttl:          ttl,
	}
}

// List - активные категории (sortOrder, name)
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	if data, err := uc.cacheRepo.Get(ctx, CategoriesCacheKey); err != nil {
		uc.logger.Warn("Failed to read categories cache", zap.Error(err))
	} else if data != nil {
		var cached []dto.CategoryResponse
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	categories, err := uc.categoryRepo.ListActive(ctx)
	if err != nil {
		uc.logger.Error("Failed to list categories", zap.Error(err))
		return nil, errors.Internal(err)
	}

	result := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		result = append(result, dto.ToCategoryResponse(c))
	}

	if data, err := json.Marshal(result); err == nil {
		if err := uc.cacheRepo.Set(ctx, CategoriesCacheKey, data, uc.ttl); err != nil {
			uc.logger.Warn("Failed to cache categories", zap.Error(err))
		}
	}

	return result, nil
}

// Get - категория по имени; неизвестное имя -> 404
func (uc *CategoryUseCase) Get(ctx context.Context, name string) (*dto.CategoryResponse, error) {
	category := domain.Category(name)
	if !category.IsValid() {
		return nil, errors.ErrCategoryNotFound()
	}

	info, err := uc.categoryRepo.GetByName(ctx, category)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		uc.logger.Error("Failed to get category", zap.String("name", name), zap.Error(err))
		return nil, errors.Internal(err)
	}

	resp := dto.ToCategoryResponse(info)
	return &resp, nil
}

// Recount пересчитывает число активных записей для категорий (пусто = все категории)
func (uc *CategoryUseCase) Recount(ctx context.Context, categories ...domain.Category) error {
	counts, err := uc.serviceRepo.CountByCategory(ctx, domain.StatusActive)
	if err != nil {
		return errors.Wrap(err, "count services by category")
	}

	if len(categories) == 0 {
		categories = domain.Categories
	}

	for _, category := range categories {
		count := counts[category]
		if err := uc.categoryRepo.UpdateServiceCount(ctx, category, count); err != nil {
			// Категории может не быть в справочнике
			if errors.IsNotFound(err) {
				uc.logger.Debug("Category record missing, count skipped", zap.String("category", string(category)))
				continue
			}
			return errors.Wrap(err, "update service count")
		}
	}

	if err := uc.cacheRepo.Delete(ctx, CategoriesCacheKey); err != nil {
		uc.logger.Warn("Failed to invalidate categories cache", zap.Error(err))
	}

	uc.logger.Debug("Category counts recounted", zap.Int("categories", len(categories)))
	return nil
}
