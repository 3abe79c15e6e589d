package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/grubhouse/storefront-api/internal/deals"
	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }

// fakeProductRepository serves a fixed catalog from memory, applying the
// same filter semantics as the mongo implementation.
type fakeProductRepository struct {
	products []models.Product
	err      error
}

func (f *fakeProductRepository) GetAll(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
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

func (f *fakeProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
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

// fakeOrderRepository stores orders in memory.
type fakeOrderRepository struct {
	orders    []models.Order
	createErr error
}

func (f *fakeOrderRepository) Create(_ context.Context, order *models.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	order.ID = primitive.NewObjectID()
	f.orders = append(f.orders, *order)
	return nil
}

func (f *fakeOrderRepository) ListByUser(_ context.Context, userID primitive.ObjectID, limit int64) ([]models.Order, error) {
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

func (f *fakeOrderRepository) GetByIDForUser(_ context.Context, id string, userID primitive.ObjectID) (*models.Order, error) {
	for i := range f.orders {
		if f.orders[i].ID.Hex() == id && f.orders[i].UserID == userID {
			return &f.orders[i], nil
		}
	}
	return nil, repository.ErrOrderNotFound
}

// fakeValidator scripts the coupon outcome for checkout tests.
type fakeValidator struct {
	result       *deals.Result
	validateErr  error
	redeemErr    error
	redeemCalls  []string
	releaseCalls []string
}

func (f *fakeValidator) Validate(_ context.Context, code string, orderAmount float64) (*deals.Result, error) {
	if f.validateErr != nil {
		return nil, f.validateErr
	}
	return f.result, nil
}

func (f *fakeValidator) Redeem(_ context.Context, code string) error {
	f.redeemCalls = append(f.redeemCalls, code)
	return f.redeemErr
}

func (f *fakeValidator) Release(_ context.Context, code string) error {
	f.releaseCalls = append(f.releaseCalls, code)
	return nil
}

// fakeUserRepository stores users in memory keyed by lower-cased email.
type fakeUserRepository struct {
	users     map[string]*models.User
	createErr error
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[string]*models.User)}
}

func (f *fakeUserRepository) Create(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = primitive.NewObjectID()
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserRepository) GetByID(_ context.Context, id string) (*models.User, error) {
	for _, user := range f.users {
		if user.ID.Hex() == id {
			return user, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

// fakeStoreRepository serves a fixed store list from memory.
type fakeStoreRepository struct {
	stores []models.Store
	err    error
}

func (f *fakeStoreRepository) Find(_ context.Context, filter repository.StoreFilter) ([]models.Store, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.stores, nil
}

var errRepoDown = errors.New("repository unavailable")
