package pricing

import (
	"math"

	"github.com/grubhouse/storefront-api/internal/cart"
)

// TaxRate is the flat GST rate applied to the discounted subtotal.
const TaxRate = 0.05

// Size choices for customizable products. Small is 15% cheaper and large
// 15% dearer than the regular price, rounded to the nearest rupee.
const (
	SizeSmall   = "small"
	SizeRegular = "regular"
	SizeLarge   = "large"
)

// Breakdown is the priced view of a set of cart lines.
type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Discount float64 `json:"discount"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Quote derives subtotal, tax and total for the given lines. The discount is
// clamped to [0, subtotal] so a fixed-amount coupon can never push the total
// negative. Tax is charged on the discounted subtotal.
func Quote(lines []cart.Line, discount float64) Breakdown {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	tax := (subtotal - discount) * TaxRate

	return Breakdown{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    subtotal - discount + tax,
	}
}

// SizeAdjustedPrice returns the unit price for a product at the given size.
func SizeAdjustedPrice(base float64, size string) float64 {
	switch size {
	case SizeSmall:
		return math.Round(base * 0.85)
	case SizeLarge:
		return math.Round(base * 1.15)
	default:
		return base
	}
}
