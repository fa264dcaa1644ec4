package repository

import (
	"context"
	"time"

	"flightsearch-service/internal/domain/entity"
	"flightsearch-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoSearchHistoryRepository implements SearchHistoryRepository
type MongoSearchHistoryRepository struct {
	collection *mongo.Collection
}

// NewMongoSearchHistoryRepository creates a new search history repository
func NewMongoSearchHistoryRepository(db *mongo.Database) repository.SearchHistoryRepository {
	collection := db.Collection("search_runs")

	// Index on createdAt for recency queries
	ctx := context.Background()
	indexModel := mongo.IndexModel{
		Keys: bson.M{"createdAt": -1},
	}
	collection.Indexes().CreateOne(ctx, indexModel)

	return &MongoSearchHistoryRepository{
		collection: collection,
	}
}

// Save persists one search run summary
func (r *MongoSearchHistoryRepository) Save(ctx context.Context, run *entity.SearchRun) error {
	if run.ID == "" {
		run.ID = primitive.NewObjectID().Hex()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, run)
	return err
}

// FindRecent returns the most recent search runs, newest first
func (r *MongoSearchHistoryRepository) FindRecent(ctx context.Context, limit int) ([]entity.SearchRun, error) {
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var runs []entity.SearchRun
	if err := cursor.All(ctx, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}
