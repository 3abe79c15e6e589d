package deals

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int64) *int64       { return &v }

// fakeDealRepository mirrors the mongo repository's contract: only deals that
// are active and inside their validity window are returned by GetActiveByCode.
type fakeDealRepository struct {
	deals        map[string]*models.Deal
	lookups      int
	redeemErr    error
	redeemCalls  []string
	releaseCalls []string
}

func (f *fakeDealRepository) GetActiveByCode(_ context.Context, code string, _ time.Time) (*models.Deal, error) {
	f.lookups++
	deal, ok := f.deals[code]
	if !ok {
		return nil, repository.ErrDealNotFound
	}
	return deal, nil
}

func (f *fakeDealRepository) ActiveCodes(_ context.Context, _ time.Time) ([]string, error) {
	codes := make([]string, 0, len(f.deals))
	for code := range f.deals {
		codes = append(codes, code)
	}
	return codes, nil
}

func (f *fakeDealRepository) Redeem(_ context.Context, code string, _ time.Time) error {
	f.redeemCalls = append(f.redeemCalls, code)
	if f.redeemErr != nil {
		return f.redeemErr
	}
	return nil
}

func (f *fakeDealRepository) Release(_ context.Context, code string) error {
	f.releaseCalls = append(f.releaseCalls, code)
	return nil
}

func newFakeRepo() *fakeDealRepository {
	return &fakeDealRepository{
		deals: map[string]*models.Deal{
			"WELCOME20": {
				Code:              "WELCOME20",
				DiscountType:      models.DiscountPercentage,
				DiscountValue:     20,
				MinOrderAmount:    floatPtr(200),
				MaxDiscountAmount: floatPtr(100),
				IsActive:          true,
			},
			"FLAT50": {
				Code:           "FLAT50",
				DiscountType:   models.DiscountFixed,
				DiscountValue:  50,
				MinOrderAmount: floatPtr(300),
				IsActive:       true,
			},
			"LASTONE": {
				Code:          "LASTONE",
				DiscountType:  models.DiscountFixed,
				DiscountValue: 10,
				UsageLimit:    intPtr(5),
				UsedCount:     5,
				IsActive:      true,
			},
		},
	}
}

func TestValidator_Validate(t *testing.T) {
	tests := []struct {
		name         string
		code         string
		orderAmount  float64
		wantDiscount float64
		wantErr      error
		wantMinOrder float64
	}{
		{
			name:         "percentage deal",
			code:         "WELCOME20",
			orderAmount:  400,
			wantDiscount: 80,
		},
		{
			name:         "percentage deal capped at max discount",
			code:         "WELCOME20",
			orderAmount:  1000,
			wantDiscount: 100,
		},
		{
			name:         "fixed deal",
			code:         "FLAT50",
			orderAmount:  400,
			wantDiscount: 50,
		},
		{
			name:        "unknown code",
			code:        "NOPE",
			orderAmount: 400,
			wantErr:     ErrNotFound,
		},
		{
			name:        "empty code",
			code:        "",
			orderAmount: 400,
			wantErr:     ErrNotFound,
		},
		{
			name:        "usage limit exhausted",
			code:        "LASTONE",
			orderAmount: 400,
			wantErr:     ErrUsageLimitReached,
		},
		{
			name:         "below minimum order amount",
			code:         "FLAT50",
			orderAmount:  250,
			wantMinOrder: 300,
		},
		{
			name:         "exactly at minimum order amount",
			code:         "FLAT50",
			orderAmount:  300,
			wantDiscount: 50,
		},
		{
			name:         "lower-case code matches",
			code:         "welcome20",
			orderAmount:  400,
			wantDiscount: 80,
		},
		{
			name:         "surrounding whitespace is trimmed",
			code:         "  FLAT50  ",
			orderAmount:  400,
			wantDiscount: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewValidator(newFakeRepo())

			result, err := v.Validate(context.Background(), tt.code, tt.orderAmount)

			if tt.wantMinOrder > 0 {
				var minErr *MinOrderError
				if !errors.As(err, &minErr) {
					t.Fatalf("expected MinOrderError, got %v", err)
				}
				if minErr.Required != tt.wantMinOrder {
					t.Errorf("Required = %v, want %v", minErr.Required, tt.wantMinOrder)
				}
				return
			}
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(result.Discount-tt.wantDiscount) > 1e-9 {
				t.Errorf("Discount = %v, want %v", result.Discount, tt.wantDiscount)
			}
		})
	}
}

func TestValidator_ValidateNeverMutatesUsage(t *testing.T) {
	repo := newFakeRepo()
	v := NewValidator(repo)

	for i := 0; i < 3; i++ {
		if _, err := v.Validate(context.Background(), "FLAT50", 400); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(repo.redeemCalls) != 0 {
		t.Errorf("Validate must not redeem; saw %d redeem calls", len(repo.redeemCalls))
	}
}

func TestValidator_BloomFilterShortCircuitsMisses(t *testing.T) {
	repo := newFakeRepo()
	v := NewValidator(repo)
	if err := v.LoadFilter(context.Background()); err != nil {
		t.Fatalf("LoadFilter: %v", err)
	}

	if _, err := v.Validate(context.Background(), "DEFINITELY-NOT-A-CODE", 400); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want %v", err, ErrNotFound)
	}
	if repo.lookups != 0 {
		t.Errorf("filter miss must skip the lookup; saw %d lookups", repo.lookups)
	}

	// Known codes still reach the repository through the filter.
	if _, err := v.Validate(context.Background(), "welcome20", 400); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lookups != 1 {
		t.Errorf("expected 1 lookup for a seeded code, got %d", repo.lookups)
	}
}

func TestValidator_Redeem(t *testing.T) {
	t.Run("upper-cases the code", func(t *testing.T) {
		repo := newFakeRepo()
		v := NewValidator(repo)

		if err := v.Redeem(context.Background(), "flat50"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(repo.redeemCalls) != 1 || repo.redeemCalls[0] != "FLAT50" {
			t.Errorf("redeem calls = %v, want [FLAT50]", repo.redeemCalls)
		}
	})

	t.Run("maps exhaustion to usage limit error", func(t *testing.T) {
		repo := newFakeRepo()
		repo.redeemErr = repository.ErrDealExhausted
		v := NewValidator(repo)

		if err := v.Redeem(context.Background(), "FLAT50"); !errors.Is(err, ErrUsageLimitReached) {
			t.Errorf("error = %v, want %v", err, ErrUsageLimitReached)
		}
	})

	t.Run("passes through other errors", func(t *testing.T) {
		repo := newFakeRepo()
		repo.redeemErr = errors.New("connection reset")
		v := NewValidator(repo)

		err := v.Redeem(context.Background(), "FLAT50")
		if errors.Is(err, ErrUsageLimitReached) || err == nil {
			t.Errorf("expected the raw error, got %v", err)
		}
	})
}

func TestValidator_Release(t *testing.T) {
	repo := newFakeRepo()
	v := NewValidator(repo)

	if err := v.Release(context.Background(), "flat50"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.releaseCalls) != 1 || repo.releaseCalls[0] != "FLAT50" {
		t.Errorf("release calls = %v, want [FLAT50]", repo.releaseCalls)
	}
}

func TestDiscount(t *testing.T) {
	tests := []struct {
		name   string
		deal   *models.Deal
		amount float64
		want   float64
	}{
		{
			name:   "percentage",
			deal:   &models.Deal{DiscountType: models.DiscountPercentage, DiscountValue: 20},
			amount: 500,
			want:   100,
		},
		{
			name: "percentage capped",
			deal: &models.Deal{
				DiscountType:      models.DiscountPercentage,
				DiscountValue:     30,
				MaxDiscountAmount: floatPtr(120),
			},
			amount: 1000,
			want:   120,
		},
		{
			name:   "fixed",
			deal:   &models.Deal{DiscountType: models.DiscountFixed, DiscountValue: 50},
			amount: 400,
			want:   50,
		},
		{
			name:   "fixed never exceeds the amount",
			deal:   &models.Deal{DiscountType: models.DiscountFixed, DiscountValue: 500},
			amount: 120,
			want:   120,
		},
		{
			name:   "unknown type grants nothing",
			deal:   &models.Deal{DiscountType: "bogo", DiscountValue: 50},
			amount: 400,
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Discount(tt.deal, tt.amount); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Discount() = %v, want %v", got, tt.want)
			}
		})
	}
}
