package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order types.
const (
	OrderTypeDelivery = "delivery"
	OrderTypeTakeaway = "takeaway"
)

// Order statuses.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusPreparing = "preparing"
	StatusReady     = "ready"
	StatusDelivered = "delivered"
	StatusCancelled = "cancelled"
)

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Payment methods.
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
	PaymentMethodUPI  = "upi"
)

// Customization records how a customizable product was configured.
// Ingredient lists are treated as sets: order never matters.
type Customization struct {
	Size               string   `bson:"size,omitempty" json:"size,omitempty"`
	AddedIngredients   []string `bson:"addedIngredients,omitempty" json:"addedIngredients,omitempty"`
	RemovedIngredients []string `bson:"removedIngredients,omitempty" json:"removedIngredients,omitempty"`
}

// Empty reports whether the customization carries no choices at all.
func (c *Customization) Empty() bool {
	return c == nil || (c.Size == "" && len(c.AddedIngredients) == 0 && len(c.RemovedIngredients) == 0)
}

// OrderItem is an immutable snapshot of a cart line at order time.
// Name and price are frozen so later product changes never rewrite history.
type OrderItem struct {
	ProductID     primitive.ObjectID `bson:"product" json:"product"`
	Name          string             `bson:"name" json:"name"`
	Quantity      int                `bson:"quantity" json:"quantity"`
	Price         float64            `bson:"price" json:"price"`
	Customization *Customization     `bson:"customization,omitempty" json:"customization,omitempty"`
}

// Order represents a placed order.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Number          string             `bson:"number" json:"number"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	Items           []OrderItem        `bson:"items" json:"items"`
	OrderType       string             `bson:"orderType" json:"orderType"`
	DeliveryAddress *Address           `bson:"deliveryAddress,omitempty" json:"deliveryAddress,omitempty"`
	Subtotal        float64            `bson:"subtotal" json:"subtotal"`
	Tax             float64            `bson:"tax" json:"tax"`
	Discount        float64            `bson:"discount" json:"discount"`
	Total           float64            `bson:"total" json:"total"`
	Status          string             `bson:"status" json:"status"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	CouponCode      string             `bson:"couponCode,omitempty" json:"couponCode,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
