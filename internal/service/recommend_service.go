package service

import (
	"context"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

const maxRecommendations = 10

// Preferences narrows product recommendations.
type Preferences struct {
	Spicy      bool   `json:"spicy,omitempty"`
	Vegetarian bool   `json:"vegetarian,omitempty"`
	Category   string `json:"category,omitempty"`
}

// nonVegWords marks products excluded from vegetarian recommendations.
var nonVegWords = []string{"chicken", "beef", "meat", "pork"}

// RecommendService suggests products based on budget, stated preferences
// and, for authenticated users, their order history.
type RecommendService struct {
	productRepo repository.ProductRepository
	orderRepo   repository.OrderRepository
}

// NewRecommendService creates a new recommendation service.
func NewRecommendService(productRepo repository.ProductRepository, orderRepo repository.OrderRepository) *RecommendService {
	return &RecommendService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
	}
}

// Recommend returns up to ten available products. Products from categories
// the user ordered frequently are boosted to the front when userID is set.
func (s *RecommendService) Recommend(ctx context.Context, userID string, budget float64, prefs Preferences) ([]models.Product, error) {
	products, err := s.productRepo.GetAll(ctx, repository.ProductFilter{
		AvailableOnly: true,
		MaxPrice:      budget,
	})
	if err != nil {
		return nil, err
	}

	if userID != "" {
		if uid, err := primitive.ObjectIDFromHex(userID); err == nil {
			freq, err := s.categoryFrequency(ctx, uid, products)
			if err != nil {
				return nil, err
			}
			sort.SliceStable(products, func(i, j int) bool {
				return freq[products[i].Category] > freq[products[j].Category]
			})
		}
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if prefs.Spicy && !containsFold(p.Name, "spicy") && !containsFold(p.Description, "spicy") {
			continue
		}
		if prefs.Vegetarian && isNonVeg(p.Name) {
			continue
		}
		if prefs.Category != "" && p.Category != prefs.Category {
			continue
		}
		filtered = append(filtered, p)
	}

	if len(filtered) > maxRecommendations {
		filtered = filtered[:maxRecommendations]
	}
	return filtered, nil
}

// categoryFrequency counts units ordered per category over the user's last
// ten orders, resolving categories through the current catalog.
func (s *RecommendService) categoryFrequency(ctx context.Context, userID primitive.ObjectID, catalog []models.Product) (map[string]int, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID, 10)
	if err != nil {
		return nil, err
	}

	categoryByID := make(map[string]string, len(catalog))
	for _, p := range catalog {
		categoryByID[p.ID.Hex()] = p.Category
	}

	freq := make(map[string]int)
	for _, order := range orders {
		for _, item := range order.Items {
			if category, ok := categoryByID[item.ProductID.Hex()]; ok {
				freq[category] += item.Quantity
			}
		}
	}
	return freq, nil
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}

func isNonVeg(name string) bool {
	lower := strings.ToLower(name)
	for _, word := range nonVegWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}
