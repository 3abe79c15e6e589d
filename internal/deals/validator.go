package deals

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/grubhouse/storefront-api/internal/models"
	"github.com/grubhouse/storefront-api/internal/repository"
)

var (
	ErrNotFound          = errors.New("invalid or expired coupon code")
	ErrUsageLimitReached = errors.New("coupon usage limit reached")
)

// MinOrderError reports that the order amount is below the deal's minimum.
type MinOrderError struct {
	Required float64
}

func (e *MinOrderError) Error() string {
	return fmt.Sprintf("minimum order amount of ₹%g required", e.Required)
}

// Repository is the data access needed by the validator.
type Repository interface {
	GetActiveByCode(ctx context.Context, code string, now time.Time) (*models.Deal, error)
	ActiveCodes(ctx context.Context, now time.Time) ([]string, error)
	Redeem(ctx context.Context, code string, now time.Time) error
	Release(ctx context.Context, code string) error
}

// Result is a successful validation: the matched deal and the discount it
// grants for the checked order amount.
type Result struct {
	Deal     *models.Deal
	Discount float64
}

// Validator validates and redeems deal codes. A bloom filter over the active
// codes lets obviously bogus codes skip the database round trip; false
// positives just fall through to the lookup.
type Validator struct {
	repo   Repository
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewValidator creates a validator over the given repository.
func NewValidator(repo Repository) *Validator {
	return &Validator{repo: repo}
}

// LoadFilter seeds the negative-lookup filter from the active deal codes.
// Safe to call again to refresh; until the first call every code goes to
// the database.
func (v *Validator) LoadFilter(ctx context.Context) error {
	codes, err := v.repo.ActiveCodes(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load deal codes: %w", err)
	}

	size := uint(len(codes))
	if size < 1000 {
		size = 1000
	}
	filter := bloom.NewWithEstimates(size, 0.01)
	for _, code := range codes {
		filter.AddString(strings.ToUpper(code))
	}

	v.mu.Lock()
	v.filter = filter
	v.mu.Unlock()
	return nil
}

// Validate checks a code against an order amount and returns the deal and
// the discount it would grant. It never mutates usage counts, so it is safe
// for preview calls from the cart page.
func (v *Validator) Validate(ctx context.Context, code string, orderAmount float64) (*Result, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, ErrNotFound
	}

	v.mu.RLock()
	filter := v.filter
	v.mu.RUnlock()
	if filter != nil && !filter.TestString(code) {
		return nil, ErrNotFound
	}

	deal, err := v.repo.GetActiveByCode(ctx, code, time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrDealNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if deal.UsageLimit != nil && deal.UsedCount >= *deal.UsageLimit {
		return nil, ErrUsageLimitReached
	}
	if deal.MinOrderAmount != nil && orderAmount < *deal.MinOrderAmount {
		return nil, &MinOrderError{Required: *deal.MinOrderAmount}
	}

	return &Result{
		Deal:     deal,
		Discount: Discount(deal, orderAmount),
	}, nil
}

// Redeem consumes one use of the deal. The underlying update is conditional
// on the usage limit, so concurrent redemptions cannot overshoot it.
func (v *Validator) Redeem(ctx context.Context, code string) error {
	err := v.repo.Redeem(ctx, strings.ToUpper(code), time.Now())
	if err != nil {
		if errors.Is(err, repository.ErrDealExhausted) {
			return ErrUsageLimitReached
		}
		return err
	}
	return nil
}

// Release returns a previously redeemed use, compensating for an order that
// failed to persist after redemption.
func (v *Validator) Release(ctx context.Context, code string) error {
	return v.repo.Release(ctx, strings.ToUpper(code))
}

// Discount computes the raw discount a deal grants on the given amount.
// Percentage deals are capped at MaxDiscountAmount when set; fixed deals
// never exceed the amount itself.
func Discount(deal *models.Deal, amount float64) float64 {
	var discount float64
	switch deal.DiscountType {
	case models.DiscountPercentage:
		discount = amount * deal.DiscountValue / 100
		if deal.MaxDiscountAmount != nil && discount > *deal.MaxDiscountAmount {
			discount = *deal.MaxDiscountAmount
		}
	case models.DiscountFixed:
		discount = deal.DiscountValue
		if discount > amount {
			discount = amount
		}
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
