package testhelpers

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain/repository"
	"github.com/service-directory/internal/repository/postgres"
)

// NewDBForTest creates a postgres.DB with test database and logger
func NewDBForTest(db *sqlx.DB, logger *zap.Logger) *postgres.DB {
	return postgres.NewDBForTest(db, logger)
}

// NewServiceRepositoryForTest creates a service repository with test database and logger
func NewServiceRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.ServiceRepository {
	return postgres.NewServiceRepository(NewDBForTest(db, logger))
}

// NewCategoryRepositoryForTest creates a category repository with test database and logger
func NewCategoryRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.CategoryRepository {
	return postgres.NewCategoryRepository(NewDBForTest(db, logger))
}

// NewStatsRepositoryForTest creates a stats repository with test database and logger
func NewStatsRepositoryForTest(db *sqlx.DB, logger *zap.Logger) repository.StatsRepository {
	return postgres.NewStatsRepository(NewDBForTest(db, logger))
}
