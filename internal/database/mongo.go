package database

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"todolist/internal/config"
	"todolist/pkg/logger"
)

var (
	mongoClient *mongo.Client
	mongoOnce   sync.Once
)

// Mongo returns the global MongoDB client (initialized on first use). Nil if the server is unreachable.
func Mongo(ctx context.Context) *mongo.Client {
	mongoOnce.Do(func() {
		cfg := config.Get()
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		c, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			logger.Error(ctx, "Failed to connect to MongoDB", "error", err)
			return
		}
		if err := c.Ping(connectCtx, nil); err != nil {
			logger.Error(ctx, "MongoDB ping failed", "error", err)
			_ = c.Disconnect(context.Background())
			return
		}
		mongoClient = c
		logger.Info(ctx, "MongoDB client initialized", "database", cfg.MongoDatabase)
	})
	return mongoClient
}

// TodosCollection returns the configured todos collection, or nil when MongoDB is unavailable.
func TodosCollection(ctx context.Context) *mongo.Collection {
	c := Mongo(ctx)
	if c == nil {
		return nil
	}
	cfg := config.Get()
	return c.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
}

// EnsureIndexes creates the createdAt index used by the default list ordering.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection) error {
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		logger.Error(ctx, "MongoDB index creation failed", "error", err)
	}
	return err
}
