package mongo

import (
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/service-directory/internal/domain/repository"
)

var sortFields = map[repository.SortKey]string{
	repository.SortName:      "name",
	repository.SortCategory:  "category",
	repository.SortCreatedAt: "createdAt",
	repository.SortRating:    "rating",
	repository.SortStatus:    "status",
	repository.SortID:        "_id",
}

// buildFilter переводит ServiceQuery в фильтр Mongo.
// withNear=false нужен для CountDocuments: $near там не поддерживается.
func buildFilter(q repository.ServiceQuery, withNear bool) bson.D {
	filter := bson.D{}

	if q.Near != nil && withNear {
		filter = append(filter, bson.E{Key: "location", Value: bson.D{
			{Key: "$near", Value: bson.D{
				{Key: "$geometry", Value: bson.D{
					{Key: "type", Value: geoJSONPoint},
					{Key: "coordinates", Value: bson.A{q.Near.Point.Lng, q.Near.Point.Lat}},
				}},
				{Key: "$maxDistance", Value: q.Near.RadiusMeters},
			}},
		}})
	}

	if q.Status != "" {
		filter = append(filter, bson.E{Key: "status", Value: string(q.Status)})
	}
	if q.Category != "" {
		filter = append(filter, bson.E{Key: "category", Value: string(q.Category)})
	}

	if q.Text != "" && len(q.TextFields) > 0 {
		regex := primitive.Regex{Pattern: regexp.QuoteMeta(q.Text), Options: "i"}
		clauses := make(bson.A, 0, len(q.TextFields))
		for _, field := range q.TextFields {
			clauses = append(clauses, bson.M{string(field): regex})
		}
		filter = append(filter, bson.E{Key: "$or", Value: clauses})
	}

	return filter
}

// buildFindOptions: при $near порядок задается расстоянием, явная сортировка не применяется
func buildFindOptions(q repository.ServiceQuery) *options.FindOptions {
	opts := options.Find()
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Near == nil && len(q.Sort) > 0 {
		sort := make(bson.D, 0, len(q.Sort))
		for _, s := range q.Sort {
			field, ok := sortFields[s.Key]
			if !ok {
				continue
			}
			direction := 1
			if s.Desc {
				direction = -1
			}
			sort = append(sort, bson.E{Key: field, Value: direction})
		}
		opts.SetSort(sort)
	}
	return opts
}
