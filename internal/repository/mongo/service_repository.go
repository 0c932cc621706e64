package mongo

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

type serviceRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// NewServiceRepository создает ServiceRepository поверх коллекции services
func NewServiceRepository(db *DB) repository.ServiceRepository {
	return &serviceRepository{
		collection: db.services,
		logger:     db.logger,
		now:        time.Now,
	}
}

func (r *serviceRepository) FindByID(ctx context.Context, id string) (*domain.Service, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return nil, apperrors.ErrServiceNotFound()
	}

	var doc serviceDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrServiceNotFound()
		}
		return nil, apperrors.Wrap(err, "find service by id")
	}
	return doc.toDomain(), nil
}

func (r *serviceRepository) Find(ctx context.Context, q repository.ServiceQuery) ([]*domain.Service, error) {
	cursor, err := r.collection.Find(ctx, buildFilter(q, true), buildFindOptions(q))
	if err != nil {
		return nil, apperrors.Wrap(err, "find services")
	}
	defer cursor.Close(ctx)

	services := make([]*domain.Service, 0)
	for cursor.Next(ctx) {
		var doc serviceDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(err, "decode service")
		}
		services = append(services, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate services")
	}

	r.logger.Debug("Services found",
		zap.Int("count", len(services)),
		zap.Bool("near", q.Near != nil))
	return services, nil
}

func (r *serviceRepository) Count(ctx context.Context, q repository.ServiceQuery) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, buildFilter(q, false))
	if err != nil {
		return 0, apperrors.Wrap(err, "count services")
	}
	return count, nil
}

func (r *serviceRepository) Create(ctx context.Context, svc *domain.Service) error {
	now := r.now().UTC().Truncate(time.Millisecond)
	svc.ID = primitive.NewObjectID().Hex()
	svc.Version = 0
	svc.CreatedAt = now
	svc.UpdatedAt = now

	doc, err := toServiceDocument(svc)
	if err != nil {
		return apperrors.Wrap(err, "build service document")
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		svc.ID = ""
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateService()
		}
		return apperrors.Wrap(err, "insert service")
	}
	return nil
}

func (r *serviceRepository) Update(ctx context.Context, svc *domain.Service) error {
	svc.Version++
	svc.UpdatedAt = r.now().UTC().Truncate(time.Millisecond)

	doc, err := toServiceDocument(svc)
	if err != nil {
		return apperrors.ErrServiceNotFound()
	}

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperrors.ErrDuplicateService()
		}
		return apperrors.Wrap(err, "replace service")
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrServiceNotFound()
	}
	return nil
}

func (r *serviceRepository) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return apperrors.ErrServiceNotFound()
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return apperrors.Wrap(err, "delete service")
	}
	if result.DeletedCount == 0 {
		return apperrors.ErrServiceNotFound()
	}
	return nil
}

func (r *serviceRepository) CountByCategory(ctx context.Context, status domain.ServiceStatus) (map[domain.Category]int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: string(status)}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(err, "aggregate category counts")
	}
	defer cursor.Close(ctx)

	var rows []groupCount
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, apperrors.Wrap(err, "decode category counts")
	}

	counts := make(map[domain.Category]int64, len(rows))
	for _, row := range rows {
		counts[domain.Category(row.Key)] = row.Count
	}
	return counts, nil
}

// groupCount - строка результата $group по строковому ключу
type groupCount struct {
	Key   string `bson:"_id"`
	Count int64  `bson:"count"`
}
