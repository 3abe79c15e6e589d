package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Discount kinds supported by deals.
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// Deal represents a coupon that can discount an order.
// Code is stored normalized to upper case and compared case-insensitively.
type Deal struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code                 string             `bson:"code" json:"code"`
	Name                 string             `bson:"name" json:"name"`
	Description          string             `bson:"description" json:"description"`
	DiscountType         string             `bson:"discountType" json:"discountType"`
	DiscountValue        float64            `bson:"discountValue" json:"discountValue"`
	MinOrderAmount       *float64           `bson:"minOrderAmount,omitempty" json:"minOrderAmount,omitempty"`
	MaxDiscountAmount    *float64           `bson:"maxDiscountAmount,omitempty" json:"maxDiscountAmount,omitempty"`
	ValidFrom            time.Time          `bson:"validFrom" json:"validFrom"`
	ValidUntil           time.Time          `bson:"validUntil" json:"validUntil"`
	UsageLimit           *int64             `bson:"usageLimit,omitempty" json:"usageLimit,omitempty"`
	UsedCount            int64              `bson:"usedCount" json:"usedCount"`
	ApplicableCategories []string           `bson:"applicableCategories,omitempty" json:"applicableCategories,omitempty"`
	IsActive             bool               `bson:"isActive" json:"isActive"`
	CreatedAt            time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt" json:"updatedAt"`
}
