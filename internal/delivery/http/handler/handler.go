package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/usecase/dto"
	"github.com/service-directory/internal/usecase/query"
)

// ServiceFinder - публичные выборки записей справочника
type ServiceFinder interface {
	Nearby(ctx context.Context, params query.NearbyParams) ([]dto.ServiceResponse, error)
	Search(ctx context.Context, params query.SearchParams) ([]dto.ServiceResponse, error)
	ByCategory(ctx context.Context, params query.CategoryParams) ([]dto.ServiceResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error)
}

// CategoryReader - справочник категорий
type CategoryReader interface {
	List(ctx context.Context) ([]dto.CategoryResponse, error)
	Get(ctx context.Context, name string) (*dto.CategoryResponse, error)
}

// ServiceAdmin - операции записи и админский список
type ServiceAdmin interface {
	Create(ctx context.Context, req dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	List(ctx context.Context, params query.AdminListParams) (*dto.ServiceListResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateServiceRequest) (*dto.ServiceResponse, error)
	Delete(ctx context.Context, id string) error
}

// StatsProvider - агрегированная статистика
type StatsProvider interface {
	GetStatistics(ctx context.Context) (*domain.Statistics, error)
}

// parseBody разбирает JSON тело; невалидный JSON - ошибка валидации
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errors.Validation(errors.FieldError{Field: "body", Message: "must be a valid JSON object"})
	}
	return nil
}
