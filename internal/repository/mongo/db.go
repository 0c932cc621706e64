package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/service-directory/internal/config"
)

type DB struct {
	client     *mongo.Client
	database   *mongo.Database
	services   *mongo.Collection
	categories *mongo.Collection
	logger     *zap.Logger
}

func New(ctx context.Context, cfg *config.MongoConfig, logger *zap.Logger) (*DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))

	client, err := mongo.Connect(connectCtx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	database := client.Database(cfg.Database)

	logger.Info("MongoDB connected", zap.String("database", cfg.Database))

	return &DB{
		client:     client,
		database:   database,
		services:   database.Collection(cfg.ServicesCollection),
		categories: database.Collection(cfg.CategoriesCollection),
		logger:     logger,
	}, nil
}

// EnsureIndexes создает индексы, на которые опираются запросы:
// 2dsphere для $near, уникальность (name, location) и имени категории.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	serviceIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "location", Value: "2dsphere"}}},
		{
			Keys:    bson.D{{Key: "name", Value: 1}, {Key: "location", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("name_location_unique"),
		},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}
	if _, err := db.services.Indexes().CreateMany(ctx, serviceIndexes); err != nil {
		return fmt.Errorf("create service indexes: %w", err)
	}

	categoryIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "sortOrder", Value: 1}}},
	}
	if _, err := db.categories.Indexes().CreateMany(ctx, categoryIndexes); err != nil {
		return fmt.Errorf("create category indexes: %w", err)
	}

	db.logger.Info("MongoDB indexes ensured")
	return nil
}

func (db *DB) Close() error {
	db.logger.Info("Closing MongoDB connection")
	return db.client.Disconnect(context.Background())
}

func (db *DB) Health(ctx context.Context) error {
	return db.client.Ping(ctx, readpref.Primary())
}

// DropDatabase удаляет базу целиком (используется интеграционными тестами)
func (db *DB) DropDatabase(ctx context.Context) error {
	return db.database.Drop(ctx)
}
