package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/grubhouse/storefront-api/internal/models"
)

// StoreFilter narrows a store listing.
type StoreFilter struct {
	City    string
	ZipCode string
}

// StoreRepository defines the interface for store data access.
type StoreRepository interface {
	Find(ctx context.Context, filter StoreFilter) ([]models.Store, error)
}

// MongoStoreRepository implements StoreRepository backed by MongoDB.
type MongoStoreRepository struct {
	coll *mongo.Collection
}

// NewMongoStoreRepository creates a store repository on the given database.
func NewMongoStoreRepository(db *mongo.Database) *MongoStoreRepository {
	return &MongoStoreRepository{coll: db.Collection(collStores)}
}

// Find returns open stores matching the filter. City matches are
// case-insensitive substring matches, as on the original store locator.
func (r *MongoStoreRepository) Find(ctx context.Context, filter StoreFilter) ([]models.Store, error) {
	query := bson.M{"isOpen": true}
	if filter.City != "" {
		query["address.city"] = bson.M{"$regex": primitive.Regex{Pattern: filter.City, Options: "i"}}
	}
	if filter.ZipCode != "" {
		query["address.zipCode"] = filter.ZipCode
	}

	cursor, err := r.coll.Find(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer cursor.Close(ctx)

	var stores []models.Store
	if err := cursor.All(ctx, &stores); err != nil {
		return nil, fmt.Errorf("failed to decode stores: %w", err)
	}
	return stores, nil
}
