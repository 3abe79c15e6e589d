package service

import (
	"context"
	"errors"
	"testing"

	"github.com/grubhouse/storefront-api/internal/models"
)

func TestStoreService_ListStores_DistanceSort(t *testing.T) {
	repo := &fakeStoreRepository{stores: []models.Store{
		{Name: "Andheri", Location: models.Location{Latitude: 19.1136, Longitude: 72.8697}},
		{Name: "Colaba", Location: models.Location{Latitude: 18.9067, Longitude: 72.8147}},
		{Name: "Bandra", Location: models.Location{Latitude: 19.0596, Longitude: 72.8295}},
	}}
	svc := NewStoreService(repo)

	// From Colaba's doorstep the order should be Colaba, Bandra, Andheri.
	stores, err := svc.ListStores(context.Background(), StoreQuery{
		Latitude:  floatPtr(18.91),
		Longitude: floatPtr(72.81),
	})
	if err != nil {
		t.Fatalf("ListStores: %v", err)
	}

	want := []string{"Colaba", "Bandra", "Andheri"}
	for i, name := range want {
		if stores[i].Name != name {
			t.Errorf("stores[%d] = %q, want %q", i, stores[i].Name, name)
		}
	}
}

func TestStoreService_ListStores_NoCoordinatesKeepsOrder(t *testing.T) {
	repo := &fakeStoreRepository{stores: []models.Store{
		{Name: "Andheri"},
		{Name: "Colaba"},
	}}
	svc := NewStoreService(repo)

	t.Run("no coordinates", func(t *testing.T) {
		stores, err := svc.ListStores(context.Background(), StoreQuery{City: "Mumbai"})
		if err != nil {
			t.Fatalf("ListStores: %v", err)
		}
		if stores[0].Name != "Andheri" || stores[1].Name != "Colaba" {
			t.Errorf("order changed without coordinates: %+v", stores)
		}
	})

	t.Run("latitude alone is not enough", func(t *testing.T) {
		stores, err := svc.ListStores(context.Background(), StoreQuery{Latitude: floatPtr(19)})
		if err != nil {
			t.Fatalf("ListStores: %v", err)
		}
		if stores[0].Name != "Andheri" {
			t.Errorf("order changed with only a latitude: %+v", stores)
		}
	})
}

func TestStoreService_ListStores_RepositoryError(t *testing.T) {
	svc := NewStoreService(&fakeStoreRepository{err: errRepoDown})

	if _, err := svc.ListStores(context.Background(), StoreQuery{}); !errors.Is(err, errRepoDown) {
		t.Errorf("error = %v, want %v", err, errRepoDown)
	}
}
