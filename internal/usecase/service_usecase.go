package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/geo"
	"github.com/service-directory/internal/usecase/dto"
	"github.com/service-directory/internal/usecase/query"
)

// NearbyCachePrefix - префикс ключей кеша nearby; сбрасывается при любой записи в админке
const NearbyCachePrefix = "nearby:"

// ServiceUseCase - публичные запросы к справочнику
type ServiceUseCase struct {
	serviceRepo repository.ServiceRepository
	cacheRepo   repository.CacheRepository
	transformer *ResponseTransformer
	logger      *zap.Logger
	nearbyTTL   time.Duration
}

// NewServiceUseCase - создание нового ServiceUseCase
func NewServiceUseCase(
	serviceRepo repository.ServiceRepository,
	cacheRepo repository.CacheRepository,
	transformer *ResponseTransformer,
	logger *zap.Logger,
	nearbyTTL time.Duration,
) *ServiceUseCase {
	return &ServiceUseCase{
		serviceRepo: serviceRepo,
		cacheRepo:   cacheRepo,
		transformer: transformer,
		logger:      logger,
		nearbyTTL:   nearbyTTL,
	}
}

// Nearby - активные записи в радиусе, ближние первыми
func (uc *ServiceUseCase) Nearby(ctx context.Context, params query.NearbyParams) ([]dto.ServiceResponse, error) {
	q, err := query.Nearby(params)
	if err != nil {
		return nil, err
	}

	origin := q.Near.Point
	key := nearbyCacheKey(q)

	services, hit := uc.cachedNearby(ctx, key)
	if !hit {
		services, err = uc.serviceRepo.Find(ctx, q)
		if err != nil {
			uc.logger.Error("Failed to find nearby services", zap.Error(err))
			return nil, errors.Internal(err)
		}
		uc.storeNearby(ctx, key, services)
	}

	services = withinRadius(services, origin, q.Near.RadiusMeters)
	return uc.transformer.TransformAll(services, &origin), nil
}

// Search - поиск подстроки по имени, подкатегории, описанию и адресу
func (uc *ServiceUseCase) Search(ctx context.Context, params query.SearchParams) ([]dto.ServiceResponse, error) {
	q, err := query.Search(params)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, q)
}

// ByCategory - активные записи категории
func (uc *ServiceUseCase) ByCategory(ctx context.Context, params query.CategoryParams) ([]dto.ServiceResponse, error) {
	q, err := query.ByCategory(params)
	if err != nil {
		return nil, err
	}
	return uc.find(ctx, q)
}

// GetByID - публичная карточка; неактивные записи не отдаются
func (uc *ServiceUseCase) GetByID(ctx context.Context, id string) (*dto.ServiceResponse, error) {
	svc, err := uc.serviceRepo.FindByID(ctx, id)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		uc.logger.Error("Failed to get service", zap.String("id", id), zap.Error(err))
		return nil, errors.Internal(err)
	}
	if !svc.IsPublic() {
		return nil, errors.ErrServiceNotFound()
	}

	resp := uc.transformer.Transform(svc, nil)
	return &resp, nil
}

func (uc *ServiceUseCase) find(ctx context.Context, q repository.ServiceQuery) ([]dto.ServiceResponse, error) {
	services, err := uc.serviceRepo.Find(ctx, q)
	if err != nil {
		uc.logger.Error("Failed to find services", zap.Error(err))
		return nil, errors.Internal(err)
	}

	var origin *geo.LatLng
	if q.Near != nil {
		origin = &q.Near.Point
		services = withinRadius(services, *origin, q.Near.RadiusMeters)
	}
	return uc.transformer.TransformAll(services, origin), nil
}

func (uc *ServiceUseCase) cachedNearby(ctx context.Context, key string) ([]*domain.Service, bool) {
	data, err := uc.cacheRepo.Get(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to read nearby cache", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if data == nil {
		return nil, false
	}

	var services []*domain.Service
	if err := json.Unmarshal(data, &services); err != nil {
		uc.logger.Warn("Failed to decode nearby cache entry", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	uc.logger.Debug("Nearby cache hit", zap.String("key", key))
	return services, true
}

func (uc *ServiceUseCase) storeNearby(ctx context.Context, key string, services []*domain.Service) {
	data, err := json.Marshal(services)
	if err != nil {
		uc.logger.Warn("Failed to encode nearby cache entry", zap.Error(err))
		return
	}
	if err := uc.cacheRepo.Set(ctx, key, data, uc.nearbyTTL); err != nil {
		uc.logger.Warn("Failed to store nearby cache entry", zap.String("key", key), zap.Error(err))
	}
}

// nearbyCacheKey - ключ на точку запроса; список из кеша ограничен limit и радиусом именно вокруг неё
func nearbyCacheKey(q repository.ServiceQuery) string {
	return fmt.Sprintf("%s%.6f:%.6f:%d:%s:%d",
		NearbyCachePrefix,
		q.Near.Point.Lat,
		q.Near.Point.Lng,
		int(q.Near.RadiusMeters),
		q.Category,
		q.Limit,
	)
}

// withinRadius отбрасывает записи дальше радиуса (haversine) и упорядочивает остальные от origin.
// Сортировка стабильная: при равном расстоянии сохраняется порядок хранилища
func withinRadius(services []*domain.Service, origin geo.LatLng, radiusMeters float64) []*domain.Service {
	radiusKm := radiusMeters / 1000
	filtered := make([]*domain.Service, 0, len(services))
	distances := make(map[*domain.Service]float64, len(services))
	for _, svc := range services {
		d := geo.Distance(origin, geo.FromStoragePoint(svc.Location))
		if math.IsNaN(d) || d > radiusKm {
			continue
		}
		filtered = append(filtered, svc)
		distances[svc] = d
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return distances[filtered[i]] < distances[filtered[j]]
	})
	return filtered
}
