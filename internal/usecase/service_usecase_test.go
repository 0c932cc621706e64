package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
	memcache "github.com/service-directory/internal/repository/cache"
	"github.com/service-directory/internal/usecase"
	"github.com/service-directory/internal/usecase/dto"
	"github.com/service-directory/internal/usecase/query"
)

func newServiceUseCase(t *testing.T) (*usecase.ServiceUseCase, *MockServiceRepository, *MockCacheRepository) {
	repo := &MockServiceRepository{}
	cache := &MockCacheRepository{}
	uc := usecase.NewServiceUseCase(repo, cache, newTransformer(t, mondayNoonUTC), zap.NewNop(), time.Minute)
	return uc, repo, cache
}

func serviceAt(id string, lat, lng float64) *domain.Service {
	return &domain.Service{
		ID:       id,
		Name:     "Pharmacy " + id,
		Category: domain.CategoryPharmacy,
		Location: orb.Point{lng, lat},
		Address:  domain.Address{Full: "Cairo"},
		Status:   domain.StatusActive,
	}
}

func assertAscendingDistance(t *testing.T, result []dto.ServiceResponse) {
	t.Helper()
	for i := 1; i < len(result); i++ {
		require.NotNil(t, result[i-1].Distance)
		require.NotNil(t, result[i].Distance)
		assert.LessOrEqual(t, *result[i-1].Distance, *result[i].Distance, "results out of distance order at %d", i)
	}
}

func TestServiceUseCase_Nearby(t *testing.T) {
	ctx := context.Background()

	t.Run("cache miss queries storage and drops records beyond radius", func(t *testing.T) {
		uc, repo, cache := newServiceUseCase(t)

		near := serviceAt("near", 30.0450, 31.2360)
		// ~8.9 км к северу, за пределами радиуса 5 км
		far := serviceAt("far", 30.1250, 31.2357)

		cache.On("Get", mock.Anything, "nearby:30.044400:31.235700:5000::20").Return(nil, nil)
		repo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.ServiceQuery) bool {
			return q.Near != nil && q.Near.RadiusMeters == 5000 && q.Status == domain.StatusActive
		})).Return([]*domain.Service{near, far}, nil)
		cache.On("Set", mock.Anything, "nearby:30.044400:31.235700:5000::20", mock.Anything, time.Minute).Return(nil)

		result, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30.0444", Lng: "31.2357"})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "near", result[0].ID)
		require.NotNil(t, result[0].Distance)
		assert.LessOrEqual(t, *result[0].Distance, 5.0)
		repo.AssertExpectations(t)
		cache.AssertExpectations(t)
	})

	t.Run("cache hit skips storage", func(t *testing.T) {
		uc, repo, cache := newServiceUseCase(t)

		cached, err := json.Marshal([]*domain.Service{serviceAt("cached", 30.0450, 31.2360)})
		require.NoError(t, err)
		cache.On("Get", mock.Anything, "nearby:30.044400:31.235700:1000:pharmacy:5").Return(cached, nil)

		result, err := uc.Nearby(ctx, query.NearbyParams{
			Lat: "30.0444", Lng: "31.2357", Radius: "1000", Category: "pharmacy", Limit: "5",
		})

		require.NoError(t, err)
		require.Len(t, result, 1)
		assert.Equal(t, "cached", result[0].ID)
		assert.Equal(t, 30.0450, result[0].Latitude)
		repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("neighbouring points do not share a cached list", func(t *testing.T) {
		repo := &MockServiceRepository{}
		uc := usecase.NewServiceUseCase(repo, memcache.NewMemoryCache(100, zap.NewNop()), newTransformer(t, mondayNoonUTC), zap.NewNop(), time.Minute)

		a := serviceAt("a", 30.0441, 31.2356)
		b := serviceAt("b", 30.0444, 31.2364)

		repo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.ServiceQuery) bool {
			return q.Near.Point.Lng == 31.2356
		})).Return([]*domain.Service{a, b}, nil).Once()
		repo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.ServiceQuery) bool {
			return q.Near.Point.Lng == 31.2364
		})).Return([]*domain.Service{b, a}, nil).Once()

		first, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30.0441", Lng: "31.2356"})
		require.NoError(t, err)
		require.Len(t, first, 2)
		assert.Equal(t, "a", first[0].ID)

		second, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30.0444", Lng: "31.2364"})
		require.NoError(t, err)
		require.Len(t, second, 2)
		assert.Equal(t, "b", second[0].ID)
		assertAscendingDistance(t, second)
		repo.AssertExpectations(t)
	})

	t.Run("cached list is reordered from the request point", func(t *testing.T) {
		uc, repo, cacheRepo := newServiceUseCase(t)

		// порядок в кеше не совпадает с расстоянием от точки запроса
		cached, err := json.Marshal([]*domain.Service{
			serviceAt("a", 30.0441, 31.2356),
			serviceAt("b", 30.0444, 31.2364),
		})
		require.NoError(t, err)
		cacheRepo.On("Get", mock.Anything, "nearby:30.044400:31.236400:5000::20").Return(cached, nil)

		result, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30.0444", Lng: "31.2364"})

		require.NoError(t, err)
		require.Len(t, result, 2)
		assert.Equal(t, []string{"b", "a"}, []string{result[0].ID, result[1].ID})
		assertAscendingDistance(t, result)
		repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
	})

	t.Run("cache failure falls back to storage", func(t *testing.T) {
		uc, repo, cache := newServiceUseCase(t)

		cache.On("Get", mock.Anything, mock.Anything).Return(nil, errors.New("redis down"))
		cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
		repo.On("Find", mock.Anything, mock.Anything).Return([]*domain.Service{}, nil)

		result, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30", Lng: "31"})

		require.NoError(t, err)
		assert.Empty(t, result)
	})

	t.Run("invalid coordinates never reach storage", func(t *testing.T) {
		uc, repo, cache := newServiceUseCase(t)

		_, err := uc.Nearby(ctx, query.NearbyParams{Lat: "91", Lng: "31"})

		assert.True(t, apperrors.IsValidation(err))
		repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything)
		cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("storage error becomes internal error", func(t *testing.T) {
		uc, repo, cache := newServiceUseCase(t)

		cache.On("Get", mock.Anything, mock.Anything).Return(nil, nil)
		repo.On("Find", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		_, err := uc.Nearby(ctx, query.NearbyParams{Lat: "30", Lng: "31"})

		appErr, ok := apperrors.As(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.CodeInternal, appErr.Code)
	})
}

func TestServiceUseCase_Search(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newServiceUseCase(t)

	repo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.ServiceQuery) bool {
		return q.Text == "koshary" && q.Near == nil
	})).Return([]*domain.Service{serviceAt("a", 30, 31)}, nil)

	result, err := uc.Search(ctx, query.SearchParams{Q: "koshary"})

	require.NoError(t, err)
	require.Len(t, result, 1)
	assert.Nil(t, result[0].Distance)
}

func TestServiceUseCase_ByCategoryWithPoint(t *testing.T) {
	ctx := context.Background()
	uc, repo, _ := newServiceUseCase(t)

	repo.On("Find", mock.Anything, mock.MatchedBy(func(q repository.ServiceQuery) bool {
		return q.Category == domain.CategoryPharmacy && q.Near != nil && q.Near.RadiusMeters == 10000
	})).Return([]*domain.Service{serviceAt("a", 30.01, 31.0)}, nil)

	result, err := uc.ByCategory(ctx, query.CategoryParams{Category: "pharmacy", Lat: "30", Lng: "31"})

	require.NoError(t, err)
	require.Len(t, result, 1)
	require.NotNil(t, result[0].Distance)
	assert.InDelta(t, 1.11, *result[0].Distance, 0.01)
}

func TestServiceUseCase_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("active record", func(t *testing.T) {
		uc, repo, _ := newServiceUseCase(t)
		repo.On("FindByID", mock.Anything, "abc").Return(serviceAt("abc", 30, 31), nil)

		resp, err := uc.GetByID(ctx, "abc")

		require.NoError(t, err)
		assert.Equal(t, "abc", resp.ID)
	})

	t.Run("suspended record is hidden", func(t *testing.T) {
		uc, repo, _ := newServiceUseCase(t)
		svc := serviceAt("abc", 30, 31)
		svc.Status = domain.StatusSuspended
		repo.On("FindByID", mock.Anything, "abc").Return(svc, nil)

		_, err := uc.GetByID(ctx, "abc")

		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("missing record", func(t *testing.T) {
		uc, repo, _ := newServiceUseCase(t)
		repo.On("FindByID", mock.Anything, "nope").Return(nil, apperrors.ErrServiceNotFound())

		_, err := uc.GetByID(ctx, "nope")

		assert.True(t, apperrors.IsNotFound(err))
	})
}
