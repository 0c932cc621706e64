package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

const uniqueViolation = "23505"

const insertServiceSQL = `
	INSERT INTO services (
		name, category, subcategory, description, location,
		address, contact, hours, special_hours, is_24_hours, timezone,
		rating, review_count, price_level, features, payment_methods, languages, images,
		verified, status, source, created_by, version, updated_at, created_at
	) VALUES (
		$1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		$7, $8, $9, $10, $11, $12,
		$13, $14, $15, $16, $17, $18, $19,
		$20, $21, $22, $23, $24, $25, $26
	)
	RETURNING id`

const updateServiceSQL = `
	UPDATE services SET
		name = $1, category = $2, subcategory = $3, description = $4,
		location = ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography,
		address = $7, contact = $8, hours = $9, special_hours = $10, is_24_hours = $11, timezone = $12,
		rating = $13, review_count = $14, price_level = $15,
		features = $16, payment_methods = $17, languages = $18, images = $19,
		verified = $20, status = $21, source = $22, created_by = $23, version = $24, updated_at = $25
	WHERE id = $26`

type serviceRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// NewServiceRepository создает ServiceRepository поверх таблицы services (PostGIS)
func NewServiceRepository(db *DB) repository.ServiceRepository {
	return &serviceRepository{
		db:     db.DB,
		logger: db.logger,
		now:    time.Now,
	}
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.ErrServiceNotFound()
	}

	var row serviceRow
	err = r.db.GetContext(ctx, &row, "SELECT "+serviceColumns+" FROM services WHERE id = $1", parsed.String())
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.ErrServiceNotFound()
	}
	if err != nil {
		return nil, apperrors.Wrap(err, "find service by id")
	}
	return row.toDomain(), nil
}

func (r *serviceRepository) Find(ctx context.Context, q repository.ServiceQuery) ([]*domain.Service, error) {
	b := buildServiceQuery(q, true)
	query := b.selectSQL(q)

	var rows []serviceRow
	if err := r.db.SelectContext(ctx, &rows, query, b.args...); err != nil {
		return nil, apperrors.Wrap(err, "find services")
	}

	services := make([]*domain.Service, 0, len(rows))
	for i := range rows {
		services = append(services, rows[i].toDomain())
	}

	r.logger.Debug("Services found",
		zap.Int("count", len(services)),
		zap.Bool("near", q.Near != nil))
	return services, nil
}

func (r *serviceRepository) Count(ctx context.Context, q repository.ServiceQuery) (int64, error) {
	b := buildServiceQuery(q, false)

	var count int64
	if err := r.db.GetContext(ctx, &count, b.countSQL(), b.args...); err != nil {
		return 0, apperrors.Wrap(err, "count services")
	}
	return count, nil
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	now := r.now().UTC().Truncate(time.Microsecond)
	svc.Version = 0
	svc.UpdatedAt = now

	args := append(writeArgs(svc), now)

	var id string
	if err := r.db.QueryRowContext(ctx, insertServiceSQL, args...).Scan(&id); err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateService()
		}
		return apperrors.Wrap(err, "insert service")
	}

	svc.ID = id
	svc.CreatedAt = now
	return nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *domain.Service) error {
	parsed, err := uuid.Parse(strings.TrimSpace(svc.ID))
	if err != nil {
		return apperrors.ErrServiceNotFound()
	}

	svc.Version++
	svc.UpdatedAt = r.now().UTC().Truncate(time.Microsecond)

	args := append(writeArgs(svc), parsed.String())

	result, err := r.db.ExecContext(ctx, updateServiceSQL, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateService()
		}
		return apperrors.Wrap(err, "update service")
	}
	return requireAffected(result)
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return apperrors.ErrServiceNotFound()
	}

	result, err := r.db.ExecContext(ctx, "DELETE FROM services WHERE id = $1", parsed.String())
	if err != nil {
		return apperrors.Wrap(err, "delete service")
	}
	return requireAffected(result)
}

func (r *serviceRepository) CountByCategory(ctx context.Context, status domain.ServiceStatus) (map[domain.Category]int64, error) {
	var rows []keyCount
	query := `SELECT category AS key, COUNT(*) AS count FROM services WHERE status = $1 GROUP BY category`
	if err := r.db.SelectContext(ctx, &rows, query, string(status)); err != nil {
		return nil, apperrors.Wrap(err, "count services by category")
	}

	counts := make(map[domain.Category]int64, len(rows))
	for _, row := range rows {
		counts[domain.Category(row.Key)] = row.Count
	}
	return counts, nil
}

// keyCount - строка результата GROUP BY по строковому ключу
type keyCount struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

func requireAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return apperrors.ErrServiceNotFound()
	}
	return nil
}

// isUniqueViolation распознает нарушение уникальности от pgx и от lib/pq
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == uniqueViolation
	}
	return false
}
