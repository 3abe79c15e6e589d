package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/grubhouse/storefront-api/internal/models"
)

var (
	ErrDealNotFound  = errors.New("deal not found")
	ErrDealExhausted = errors.New("deal usage limit reached")
)

// DealRepository defines the interface for deal data access.
type DealRepository interface {
	ListActive(ctx context.Context, now time.Time) ([]models.Deal, error)
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Deal, error)
	ActiveCodes(ctx context.Context, now time.Time) ([]string, error)
	Redeem(ctx context.Context, code string, now time.Time) error
	Release(ctx context.Context, code string) error
}

// MongoDealRepository implements DealRepository backed by MongoDB.
type MongoDealRepository struct {
	coll *mongo.Collection
}

// NewMongoDealRepository creates a deal repository on the given database.
func NewMongoDealRepository(db *mongo.Database) *MongoDealRepository {
	return &MongoDealRepository{coll: db.Collection(collDeals)}
}

func activeFilter(now time.Time) bson.M {
	return bson.M{
		"isActive":   true,
		"validFrom":  bson.M{"$lte": now},
		"validUntil": bson.M{"$gte": now},
	}
}

// ListActive returns all currently valid deals, newest first.
func (r *MongoDealRepository) ListActive(ctx context.Context, now time.Time) ([]models.Deal, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, activeFilter(now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query deals: %w", err)
	}
	defer cursor.Close(ctx)

	var deals []models.Deal
	if err := cursor.All(ctx, &deals); err != nil {
		return nil, fmt.Errorf("failed to decode deals: %w", err)
	}
	return deals, nil
}

// GetActiveByCode returns the currently valid deal with the given code.
// Codes are stored upper-cased, so lookup is case-insensitive.
func (r *MongoDealRepository) GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Deal, error) {
	filter := activeFilter(now)
	filter["code"] = strings.ToUpper(code)

	var deal models.Deal
	err := r.coll.FindOne(ctx, filter).Decode(&deal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrDealNotFound
		}
		return nil, fmt.Errorf("failed to fetch deal: %w", err)
	}
	return &deal, nil
}

// ActiveCodes returns the codes of all currently valid deals.
func (r *MongoDealRepository) ActiveCodes(ctx context.Context, now time.Time) ([]string, error) {
	opts := options.Find().SetProjection(bson.M{"code": 1})
	cursor, err := r.coll.Find(ctx, activeFilter(now), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query deal codes: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []struct {
		Code string `bson:"code"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode deal codes: %w", err)
	}

	codes := make([]string, 0, len(docs))
	for _, doc := range docs {
		codes = append(codes, doc.Code)
	}
	return codes, nil
}

// Redeem increments the usage count of a deal, guarded by its usage limit.
// The limit check and the increment run as one conditional update, so two
// concurrent redemptions of a nearly exhausted deal cannot both succeed.
func (r *MongoDealRepository) Redeem(ctx context.Context, code string, now time.Time) error {
	filter := activeFilter(now)
	filter["code"] = strings.ToUpper(code)
	filter["$or"] = bson.A{
		bson.M{"usageLimit": bson.M{"$exists": false}},
		bson.M{"usageLimit": nil},
		bson.M{"$expr": bson.M{"$lt": bson.A{"$usedCount", "$usageLimit"}}},
	}

	result, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usedCount": 1}})
	if err != nil {
		return fmt.Errorf("failed to redeem deal: %w", err)
	}
	if result.ModifiedCount == 0 {
		return ErrDealExhausted
	}
	return nil
}

// Release undoes a redemption, used when order placement fails after the
// usage count was already incremented.
func (r *MongoDealRepository) Release(ctx context.Context, code string) error {
	filter := bson.M{
		"code":      strings.ToUpper(code),
		"usedCount": bson.M{"$gt": 0},
	}
	_, err := r.coll.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"usedCount": -1}})
	if err != nil {
		return fmt.Errorf("failed to release deal: %w", err)
	}
	return nil
}
