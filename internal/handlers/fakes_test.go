package handlers

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grubhouse/storefront-api/internal/deals"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeProductRepo serves a fixed catalog.
type fakeProductRepo struct {
	products []models.Product
	err      error
}

func (f *fakeProductRepo) GetAll(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []models.Product
	for _, p := range f.products {
		if filter.AvailableOnly && !p.Available {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProductRepo) GetByID(_ context.Context, id string) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.products {
		if f.products[i].ID.Hex() == id {
			return &f.products[i], nil
		}
	}
	return nil, repository.ErrProductNotFound
}

// fakeOrderRepo stores orders in memory.
type fakeOrderRepo struct {
	orders []models.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	order.ID = primitive.NewObjectID()
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeOrderRepo) GetByIDForUser(_ context.Context, id string, userID primitive.ObjectID) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID.Hex() == id && f.orders[i].UserID == userID {
			return &f.orders[i], nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

// fakeUserRepo stores users in memory keyed by email.
type fakeUserRepo struct {
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// fakeStoreRepo serves a fixed store list.
type fakeStoreRepo struct {
	stores []models.Store
	err    error
}

func (f *fakeStoreRepo) Find(_ context.Context, _ repository.StoreFilter) ([]models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	stores := make([]models.Store, len(f.stores))
	copy(stores, f.stores)
	return stores, nil
}

// fakeDealLister serves active deals.
type fakeDealLister struct {
	deals []models.Deal
	err   error
}

func (f *fakeDealLister) ListActive(_ context.Context, _ time.Time) ([]models.Deal, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.deals, nil
}

// fakeDealValidator scripts one preview outcome.
type fakeDealValidator struct {
	result *deals.Result
	err    error
}

func (f *fakeDealValidator) Validate(_ context.Context, _ string, _ float64) (*deals.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeDealValidator) Redeem(_ context.Context, _ string) error  { return nil }
func (f *fakeDealValidator) Release(_ context.Context, _ string) error { return nil }

func catalogFixture(t *testing.T) *fakeProductRepo {
	t.Helper()
	return &fakeProductRepo{products: []models.Product{
		{ID: primitive.NewObjectID(), Name: "Classic Burger", Category: models.CategoryBurgers, Price: 199, Available: true, Nutrition: models.Nutrition{Calories: 550, Protein: 25, Carbs: 45, Fat: 30}},
		{ID: primitive.NewObjectID(), Name: "French Fries", Category: models.CategoryFries, Price: 99, Available: true, Nutrition: models.Nutrition{Calories: 320, Protein: 4, Carbs: 42, Fat: 15}},
		{ID: primitive.NewObjectID(), Name: "Cola", Category: models.CategoryBeverages, Price: 59, Available: true, Nutrition: models.Nutrition{Calories: 150, Protein: 0, Carbs: 39, Fat: 0}},
	}}
}
