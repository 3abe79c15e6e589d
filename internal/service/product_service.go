package service

import (
	"context"
	"sort"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

// ProductService handles business logic for products
type ProductService struct {
	repo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(repo repository.ProductRepository) *ProductService {
	return &ProductService{
		repo: repo,
	}
}

// ListProducts returns all available products, optionally limited to a category.
func (s *ProductService) ListProducts(ctx context.Context, category string) ([]models.Product, error) {
	return s.repo.GetAll(ctx, repository.ProductFilter{
		Category:      category,
		AvailableOnly: true,
	})
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// NutritionQuery filters and orders products by nutrition facts.
type NutritionQuery struct {
	MaxCalories *float64
	MaxFat      *float64
	HighProtein bool
	LowCarbs    bool
}

// FilterByNutrition returns available products matching the nutrition query.
// HighProtein sorts by protein descending, LowCarbs by carbs ascending.
func (s *ProductService) FilterByNutrition(ctx context.Context, q NutritionQuery) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx, repository.ProductFilter{AvailableOnly: true})
	if err != nil {
		return nil, err
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if q.MaxCalories != nil && p.Nutrition.Calories > *q.MaxCalories {
			continue
		}
		if q.MaxFat != nil && p.Nutrition.Fat > *q.MaxFat {
			continue
		}
		filtered = append(filtered, p)
	}

	if q.HighProtein {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Nutrition.Protein > filtered[j].Nutrition.Protein
		})
	}
	if q.LowCarbs {
		sort.SliceStable(filtered, func(i, j int) bool {
			return filtered[i].Nutrition.Carbs < filtered[j].Nutrition.Carbs
		})
	}

	return filtered, nil
}
