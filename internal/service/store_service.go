package service

import (
	"context"
	"sort"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

// StoreQuery narrows and orders a store listing.
type StoreQuery struct {
	City      string
	ZipCode   string
	Latitude  *float64
	Longitude *float64
}

// StoreService handles the store locator.
type StoreService struct {
	repo repository.StoreRepository
}

// NewStoreService creates a new store service.
func NewStoreService(repo repository.StoreRepository) *StoreService {
	return &StoreService{
		repo: repo,
	}
}

// ListStores returns open stores matching the query. When coordinates are
// provided the result is ordered nearest first.
func (s *StoreService) ListStores(ctx context.Context, q StoreQuery) ([]models.Store, error) {
	stores, err := s.repo.Find(ctx, repository.StoreFilter{
		City:    q.City,
		ZipCode: q.ZipCode,
	})
	if err != nil {
		return nil, err
	}

	if q.Latitude != nil && q.Longitude != nil {
		lat, lng := *q.Latitude, *q.Longitude
		// Squared planar distance; ordering is all that matters here.
		dist := func(st models.Store) float64 {
			dLat := st.Location.Latitude - lat
			dLng := st.Location.Longitude - lng
			return dLat*dLat + dLng*dLng
		}
		sort.SliceStable(stores, func(i, j int) bool {
			return dist(stores[i]) < dist(stores[j])
		})
	}

	return stores, nil
}
