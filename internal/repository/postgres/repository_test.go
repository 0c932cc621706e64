package postgres_test

import (
	"context"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/suite"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
	"github.com/service-directory/internal/pkg/geo"
	"github.com/service-directory/internal/repository/postgres/testhelpers"
)

// RepositoryTestSuite работает с живым PostgreSQL + PostGIS (TEST_DB_HOST)
type RepositoryTestSuite struct {
	suite.Suite
	testDB     *testhelpers.TestDB
	services   repository.ServiceRepository
	categories repository.CategoryRepository
	stats      repository.StatsRepository
	ctx        context.Context
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

// SetupSuite выполняется один раз перед всеми тестами
func (s *RepositoryTestSuite) SetupSuite() {
	s.ctx = context.Background()
	s.testDB = testhelpers.SetupTestDB(s.T())

	s.Require().NoError(s.testDB.Migrate(s.ctx, "../../../migrations"))
	s.Require().NoError(s.testDB.Cleanup(s.ctx))

	s.services = testhelpers.NewServiceRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.categories = testhelpers.NewCategoryRepositoryForTest(s.testDB.DB, s.testDB.Logger)
	s.stats = testhelpers.NewStatsRepositoryForTest(s.testDB.DB, s.testDB.Logger)
}

// TearDownSuite выполняется один раз после всех тестов
func (s *RepositoryTestSuite) TearDownSuite() {
	if s.testDB != nil {
		_ = s.testDB.Cleanup(s.ctx)
		s.testDB.Close()
	}
}

func (s *RepositoryTestSuite) newService(name string, lat, lng float64, status domain.ServiceStatus) *domain.Service {
	return &domain.Service{
		Name:       name,
		Category:   domain.CategoryPharmacy,
		Location:   orb.Point{lng, lat},
		Address:    domain.Address{Full: name + " street"},
		Hours:      domain.WeeklyHours{Monday: &domain.DayHours{Open: "09:00", Close: "17:00"}},
		Languages:  domain.DefaultLanguages(),
		PriceLevel: domain.DefaultPriceLevel,
		Status:     status,
		Source:     domain.SourceAdminAdded,
		Verified:   status == domain.StatusActive,
	}
}

func (s *RepositoryTestSuite) TestLifecycle() {
	svc := s.newService("Lifecycle Pharmacy", 30.0444, 31.2357, domain.StatusActive)
	s.Require().NoError(s.services.Create(s.ctx, svc))
	s.NotEmpty(svc.ID)
	s.False(svc.CreatedAt.IsZero())

	found, err := s.services.FindByID(s.ctx, svc.ID)
	s.Require().NoError(err)
	s.InDelta(31.2357, found.Location.Lon(), 1e-9)
	s.InDelta(30.0444, found.Location.Lat(), 1e-9)
	s.Equal("09:00", found.Hours.Monday.Open)
	s.Equal([]string{"arabic", "english"}, found.Languages)

	found.Name = "Lifecycle Pharmacy 2"
	s.Require().NoError(s.services.Update(s.ctx, found))

	again, err := s.services.FindByID(s.ctx, svc.ID)
	s.Require().NoError(err)
	s.Equal("Lifecycle Pharmacy 2", again.Name)
	s.Equal(1, again.Version)

	s.Require().NoError(s.services.Delete(s.ctx, svc.ID))
	_, err = s.services.FindByID(s.ctx, svc.ID)
	s.True(apperrors.IsNotFound(err))
}

func (s *RepositoryTestSuite) TestDuplicateNameAndLocation() {
	first := s.newService("Twin Pharmacy", 29.9, 31.1, domain.StatusActive)
	s.Require().NoError(s.services.Create(s.ctx, first))

	second := s.newService("Twin Pharmacy", 29.9, 31.1, domain.StatusActive)
	s.True(apperrors.IsConflict(s.services.Create(s.ctx, second)))

	near := s.newService("Twin Pharmacy", 29.9001, 31.1, domain.StatusActive)
	s.NoError(s.services.Create(s.ctx, near))
}

func (s *RepositoryTestSuite) TestNearbyOrdersByDistanceWithinRadius() {
	s.Require().NoError(s.services.Create(s.ctx, s.newService("Near A", 25.0010, 32.0, domain.StatusActive)))
	s.Require().NoError(s.services.Create(s.ctx, s.newService("Near B", 25.0200, 32.0, domain.StatusActive)))
	s.Require().NoError(s.services.Create(s.ctx, s.newService("Far C", 25.2000, 32.0, domain.StatusActive)))
	s.Require().NoError(s.services.Create(s.ctx, s.newService("Hidden D", 25.0005, 32.0, domain.StatusPending)))

	origin := geo.LatLng{Lat: 25.0, Lng: 32.0}
	services, err := s.services.Find(s.ctx, repository.ServiceQuery{
		Near:   &repository.GeoNear{Point: origin, RadiusMeters: 5000},
		Status: domain.StatusActive,
		Limit:  20,
	})
	s.Require().NoError(err)
	s.Require().Len(services, 2)
	s.Equal("Near A", services[0].Name)
	s.Equal("Near B", services[1].Name)
}

func (s *RepositoryTestSuite) TestTextSearchAndCount() {
	s.Require().NoError(s.services.Create(s.ctx, s.newService("100% Fresh Juice", 24.0, 33.0, domain.StatusActive)))
	s.Require().NoError(s.services.Create(s.ctx, s.newService("1000 Fresh Things", 24.1, 33.0, domain.StatusActive)))

	q := repository.ServiceQuery{
		Text:       "100%",
		TextFields: []repository.TextField{repository.TextName},
	}
	services, err := s.services.Find(s.ctx, q)
	s.Require().NoError(err)
	s.Require().Len(services, 1)
	s.Equal("100% Fresh Juice", services[0].Name)

	total, err := s.services.Count(s.ctx, q)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
}

func (s *RepositoryTestSuite) TestMalformedIDIsNotFound() {
	_, err := s.services.FindByID(s.ctx, "not-a-uuid")
	s.True(apperrors.IsNotFound(err))
	s.True(apperrors.IsNotFound(s.services.Delete(s.ctx, "zzz")))
	s.True(apperrors.IsNotFound(s.services.Delete(s.ctx, "0b6f3c1e-8d7a-4f57-9a55-1f1f0f3b2c11")))
}

func (s *RepositoryTestSuite) TestCategoryCounts() {
	s.Require().NoError(s.testDB.SeedCategory(s.ctx, "dentist", 2))
	s.Require().NoError(s.testDB.SeedCategory(s.ctx, "doctor", 1))

	s.Require().NoError(s.categories.UpdateServiceCount(s.ctx, domain.CategoryDentist, 7))

	active, err := s.categories.ListActive(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal(domain.CategoryDoctor, active[0].Name)
	s.Equal(7, active[1].ServiceCount)

	_, err = s.categories.GetByName(s.ctx, domain.CategoryLaundry)
	s.True(apperrors.IsNotFound(err))
	s.True(apperrors.IsNotFound(s.categories.UpdateServiceCount(s.ctx, domain.CategoryLaundry, 1)))
}

func (s *RepositoryTestSuite) TestStatistics() {
	s.Require().NoError(s.services.Create(s.ctx, s.newService("Stats Pharmacy", 23.0, 33.0, domain.StatusPending)))

	stats, err := s.stats.GetStatistics(s.ctx)
	s.Require().NoError(err)
	s.NotZero(stats.LastUpdated)
	s.Equal(stats.Total, sum(stats.ByStatus))
	s.Equal(stats.Total, sum(stats.ByCategory))

	byCategory, err := s.services.CountByCategory(s.ctx, domain.StatusActive)
	s.Require().NoError(err)
	s.Equal(stats.ByStatus["active"], byCategory[domain.CategoryPharmacy])
}

func sum(m map[string]int64) int64 {
	var total int64
	for _, v := range m {
		total += v
	}
	return total
}
