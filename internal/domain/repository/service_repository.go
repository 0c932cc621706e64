package repository

import (
	"context"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/pkg/geo"
)

// TextField - поле, по которому ищется подстрока
type TextField string

const (
	TextName        TextField = "name"
	TextSubcategory TextField = "subcategory"
	TextDescription TextField = "description"
	TextAddress     TextField = "address.full"
)

// SortKey - допустимые ключи сортировки
type SortKey string

const (
	SortName      SortKey = "name"
	SortCategory  SortKey = "category"
	SortCreatedAt SortKey = "createdAt"
	SortRating    SortKey = "rating"
	SortStatus    SortKey = "status"

	// SortID - служебный ключ для детерминированного порядка при равных значениях
	SortID SortKey = "id"
)

// SortKeys - allow-list для админского списка
var SortKeys = []SortKey{SortName, SortCategory, SortCreatedAt, SortRating, SortStatus}

func (k SortKey) IsValid() bool {
	for _, v := range SortKeys {
		if k == v {
			return true
		}
	}
	return false
}

// SortField - один ключ сортировки
type SortField struct {
	Key  SortKey
	Desc bool
}

// GeoNear - ограничение по расстоянию; результаты упорядочены от ближнего к дальнему
type GeoNear struct {
	Point        geo.LatLng
	RadiusMeters float64
}

// ServiceQuery - хранилище-независимое описание выборки.
// Пустые Status / Category / Text означают отсутствие фильтра.
type ServiceQuery struct {
	Near       *GeoNear
	Status     domain.ServiceStatus
	Category   domain.Category
	Text       string
	TextFields []TextField
	Sort       []SortField
	Skip       int64
	Limit      int64
}

// ServiceRepository - хранилище записей справочника
type ServiceRepository interface {
	// FindByID возвращает запись или NOT_FOUND (в том числе для невалидного id)
	FindByID(ctx context.Context, id string) (*domain.Service, error)

	// Find выполняет выборку
	Find(ctx context.Context, q ServiceQuery) ([]*domain.Service, error)

	// Count считает записи по тем же фильтрам (Near, Skip, Limit и Sort не учитываются)
	Count(ctx context.Context, q ServiceQuery) (int64, error)

	// Create сохраняет запись, назначает ID и временные метки. Дубликат (name, location) -> CONFLICT.
	Create(ctx context.Context, svc *domain.Service) error

	// Update перезаписывает запись целиком
	Update(ctx context.Context, svc *domain.Service) error

	// Delete удаляет запись
	Delete(ctx context.Context, id string) error

	// CountByCategory - число записей по категориям с заданным статусом
	CountByCategory(ctx context.Context, status domain.ServiceStatus) (map[domain.Category]int64, error)
}
