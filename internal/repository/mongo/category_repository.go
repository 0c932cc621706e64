package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

type categoryRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewCategoryRepository создает CategoryRepository поверх коллекции categories
func NewCategoryRepository(db *DB) repository.CategoryRepository {
	return &categoryRepository{
		collection: db.categories,
		logger:     db.logger,
	}
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]*domain.CategoryInfo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "find categories")
	}
	defer cursor.Close(ctx)

	categories := make([]*domain.CategoryInfo, 0)
	for cursor.Next(ctx) {
		var doc categoryDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, apperrors.Wrap(err, "decode category")
		}
		categories = append(categories, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, apperrors.Wrap(err, "iterate categories")
	}
	return categories, nil
}

func (r *categoryRepository) GetByName(ctx context.Context, name domain.Category) (*domain.CategoryInfo, error) {
	var doc categoryDocument
	if err := r.collection.FindOne(ctx, bson.M{"name": string(name)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperrors.ErrCategoryNotFound()
		}
		return nil, apperrors.Wrap(err, "find category")
	}
	return doc.toDomain(), nil
}

func (r *categoryRepository) UpdateServiceCount(ctx context.Context, name domain.Category, count int64) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"name": string(name)},
		bson.M{"$set": bson.M{
			"serviceCount": count,
			"updatedAt":    time.Now().UTC(),
		}},
	)
	if err != nil {
		return apperrors.Wrap(err, "update category count")
	}
	if result.MatchedCount == 0 {
		return apperrors.ErrCategoryNotFound()
	}

	r.logger.Debug("Category count updated",
		zap.String("category", string(name)),
		zap.Int64("count", count))
	return nil
}
