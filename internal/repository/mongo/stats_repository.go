package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/service-directory/internal/domain"
	"github.com/service-directory/internal/domain/repository"
	apperrors "github.com/service-directory/internal/pkg/errors"
)

type statsRepository struct {
	collection *mongo.Collection
	logger     *zap.Logger
}

// NewStatsRepository создает StatsRepository (агрегация по коллекции services)
func NewStatsRepository(db *DB) repository.StatsRepository {
	return &statsRepository{
		collection: db.services,
		logger:     db.logger,
	}
}

type statsFacet struct {
	ByStatus   []groupCount `bson:"byStatus"`
	ByCategory []groupCount `bson:"byCategory"`
	Verified   []struct {
		Count int64 `bson:"count"`
	} `bson:"verified"`
}

// GetStatistics считает все разрезы одним $facet запросом
func (r *statsRepository) GetStatistics(ctx context.Context) (*domain.Statistics, error) {
	groupBy := func(field string) bson.A {
		return bson.A{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + field},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.D{
			{Key: "byStatus", Value: groupBy("status")},
			{Key: "byCategory", Value: groupBy("category")},
			{Key: "verified", Value: bson.A{
				bson.D{{Key: "$match", Value: bson.D{{Key: "verified", Value: true}}}},
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, apperrors.Wrap(err, "aggregate statistics")
	}
	defer cursor.Close(ctx)

	var facets []statsFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, apperrors.Wrap(err, "decode statistics")
	}

	stats := &domain.Statistics{
		ByStatus:    make(map[string]int64),
		ByCategory:  make(map[string]int64),
		LastUpdated: time.Now().UTC(),
	}
	if len(facets) == 0 {
		return stats, nil
	}

	facet := facets[0]
	for _, row := range facet.ByStatus {
		stats.ByStatus[row.Key] = row.Count
		stats.Total += row.Count
	}
	for _, row := range facet.ByCategory {
		stats.ByCategory[row.Key] = row.Count
	}
	if len(facet.Verified) > 0 {
		stats.Verified = facet.Verified[0].Count
	}

	r.logger.Debug("Statistics computed", zap.Int64("total", stats.Total))
	return stats, nil
}
